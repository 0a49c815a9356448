// Package httpjson writes the JSON response envelope used by every
// feature handler.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
)

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteError maps a domain error to its HTTP status and stable code.
// Unknown errors become store_unavailable with a 503; internals are
// never exposed to clients.
func WriteError(w http.ResponseWriter, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = &apperr.Error{Code: "store_unavailable", Message: "store unavailable; operation outcome unknown", Kind: apperr.KindUnavailable}
	}
	Write(w, e.HTTPStatus(), errorEnvelope{Error: errorBody{Code: e.Code, Message: e.Message}})
}

// WriteBadRequest reports a shape-validation failure.
func WriteBadRequest(w http.ResponseWriter, message string) {
	Write(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{Code: "validation_failed", Message: message}})
}

// WriteUnauthorized reports a missing or invalid credential.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	Write(w, http.StatusUnauthorized, errorEnvelope{Error: errorBody{Code: "unauthorized", Message: message}})
}

// Decode parses a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
