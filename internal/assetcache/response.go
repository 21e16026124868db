package assetcache

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"grimoire/internal/assetcache/models"
)

// SourceHeader tells clients where a response came from.
const SourceHeader = "X-Cache-Source"

// response is a fully buffered upstream or cached response.
type response struct {
	status int
	header http.Header
	body   []byte
	source models.Source
}

func offline() *response {
	return &response{
		status: http.StatusServiceUnavailable,
		header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		body:   []byte("Offline"),
		source: models.SourceOffline,
	}
}

func fromEntry(e models.Entry) *response {
	return &response{status: e.Status, header: e.Header, body: e.Body, source: models.SourceCache}
}

func (r *response) entry(target string) models.Entry {
	return models.Entry{URL: target, Status: r.status, Header: r.header.Clone(), Body: r.body}
}

func (r *response) write(w http.ResponseWriter) {
	h := w.Header()
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	h.Set(SourceHeader, string(r.source))
	h.Set("Content-Length", strconv.Itoa(len(r.body)))
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body)
}

// fetch sends req upstream and buffers the whole response.
func fetch(network Fetcher, req *http.Request, source models.Source) (*response, error) {
	resp, err := network.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{
		status: resp.StatusCode,
		header: endToEnd(resp.Header),
		body:   body,
		source: source,
	}, nil
}

// upstreamRequest turns an incoming request into the request sent to the
// network. Absolute request URLs (forward proxy use) are kept; anything else
// is resolved against origin.
func upstreamRequest(origin *url.URL, r *http.Request) (*http.Request, error) {
	var target *url.URL
	if r.URL.IsAbs() {
		u := *r.URL
		target = &u
	} else {
		target = origin.ResolveReference(&url.URL{
			Path:     strings.TrimPrefix(r.URL.Path, "/"),
			RawQuery: r.URL.RawQuery,
		})
	}

	var body io.Reader
	if r.Body != nil && r.Body != http.NoBody {
		body = r.Body
	}
	out, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	out.Header = endToEnd(r.Header)
	out.ContentLength = r.ContentLength
	return out, nil
}

var hopByHop = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// endToEnd copies h without hop-by-hop headers, including any named in Connection.
func endToEnd(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		return http.Header{}
	}
	for _, v := range out.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out.Del(name)
			}
		}
	}
	for _, name := range hopByHop {
		out.Del(name)
	}
	out.Del("Content-Length")
	return out
}
