package models

import (
	"net/http"
	"time"
)

// Entry is a stored response keyed by its absolute request URL.
type Entry struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// Clone copies the header and body so the entry can be handed out safely.
func (e Entry) Clone() Entry {
	out := e
	out.Header = e.Header.Clone()
	if e.Body != nil {
		out.Body = append([]byte(nil), e.Body...)
	}
	return out
}

// State is a controller's lifecycle stage.
type State string

const (
	StateParsed     State = "parsed"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
	StateRedundant  State = "redundant"
)

// Class is the routing class of an intercepted request.
type Class string

const (
	ClassCrossOrigin Class = "cross-origin"
	ClassNonGet      Class = "non-get"
	ClassDocument    Class = "document"
	ClassAsset       Class = "asset"
)

// Strategy decides where a response comes from.
type Strategy string

const (
	StrategyBypass       Strategy = "bypass"
	StrategyNetworkFirst Strategy = "network-first"
	StrategyCacheFirst   Strategy = "cache-first"
)

// Source reports where a response actually came from. It is sent to clients
// in the X-Cache-Source header.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
	SourceOffline Source = "offline"
	SourceBypass  Source = "bypass"
)

// Install outcomes.
const (
	InstallComplete = "complete"
	InstallPartial  = "partial"
	InstallFailed   = "failed"
)
