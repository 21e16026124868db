package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so callers can pick a fallback without knowing the backend:
// - ErrNotFound: key or cached entry does not exist
// - ErrUnavailable: backend or upstream temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
