// Package response provides helpers for writing consistent HTTP responses.
//
// Success responses may be any JSON shape (a student, a list, a status).
// Error responses always look like:
//
//	{ "status": "error", "error": "invalid id: must be an integer" }
//
// except for a missing student, which is reported as a plain-text 404 by
// WriteError.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusdev/student-registry/internal/types"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDeleted = "deleted"
)

// WriteJSON writes data JSON-encoded with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body writes. Once WriteHeader
// is called the headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteText writes msg as a plain-text body.
func WriteText(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(msg))
	return err
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// WriteError maps err to an HTTP response.
//
//   - *types.StudentNotFoundError → 404 with the error message as text body
//   - anything else              → 500 with the JSON error envelope
func WriteError(w http.ResponseWriter, err error) error {
	var notFound *types.StudentNotFoundError
	if errors.As(err, &notFound) {
		return WriteText(w, http.StatusNotFound, notFound.Error())
	}

	return WriteJSON(w, http.StatusInternalServerError, GeneralError(err))
}
