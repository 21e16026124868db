package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is an error that knows how it should be rendered to HTTP clients.
type Error struct {
	Status      int
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// BadRequest describes a client mistake; the description is shown to the caller.
func BadRequest(description string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Description: description}
}

// NotFound describes a missing resource.
func NotFound(description string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Description: description}
}

// Conflict describes a request that clashes with the current state.
func Conflict(description string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Description: description}
}

// WriteError renders err as a JSON envelope. Anything that is not an *Error is
// reported as an internal error without leaking its message.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *Error
	if !errors.As(err, &httpErr) {
		httpErr = &Error{Status: http.StatusInternalServerError, Code: "internal_error"}
	}

	body := map[string]string{"error": httpErr.Code}
	if httpErr.Status < http.StatusInternalServerError && httpErr.Description != "" {
		body["error_description"] = httpErr.Description
	}
	WriteJSON(w, httpErr.Status, body)
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
