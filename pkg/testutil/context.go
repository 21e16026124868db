package testutil

import (
	"net/http"

	"grimoire/internal/platform/middleware"
)

// WithRequestID attaches a request id as the RequestID middleware would.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(middleware.WithRequestID(req.Context(), id))
}
