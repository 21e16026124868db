package assetcache

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// fakeOrigin serves files by path and can be taken offline.
type fakeOrigin struct {
	mu       sync.Mutex
	down     bool
	files    map[string]string
	requests []*http.Request
	bodies   []string
}

func newFakeOrigin() *fakeOrigin {
	return &fakeOrigin{files: map[string]string{
		"/":              "<!doctype html><title>Grimório</title>",
		"/index.html":    "<!doctype html><title>Grimório</title>",
		"/script.js":     "console.log('grimoire')",
		"/style.css":     "body { margin: 0 }",
		"/manifest.json": `{"name":"Grimório"}`,
	}}
}

func (o *fakeOrigin) Do(req *http.Request) (*http.Response, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	o.requests = append(o.requests, req)
	o.bodies = append(o.bodies, body)

	if o.down {
		return nil, errors.New("dial tcp: connection refused")
	}
	content, ok := o.files[req.URL.Path]
	if !ok {
		return textResponse(http.StatusNotFound, "not found"), nil
	}
	return textResponse(http.StatusOK, content), nil
}

func (o *fakeOrigin) setDown(down bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.down = down
}

func (o *fakeOrigin) remove(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.files, path)
}

func (o *fakeOrigin) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

func (o *fakeOrigin) last() (*http.Request, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.requests)
	if n == 0 {
		return nil, ""
	}
	return o.requests[n-1], o.bodies[n-1]
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// gatedFetcher holds requests for one path until release is called.
type gatedFetcher struct {
	Fetcher
	path    string
	entered chan struct{}
	gate    chan struct{}
}

func newGatedFetcher(next Fetcher, path string) *gatedFetcher {
	return &gatedFetcher{Fetcher: next, path: path, entered: make(chan struct{}, 1), gate: make(chan struct{})}
}

func (g *gatedFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.URL.Path == g.path {
		g.entered <- struct{}{}
		<-g.gate
	}
	return g.Fetcher.Do(req)
}

func (g *gatedFetcher) release() {
	close(g.gate)
}
