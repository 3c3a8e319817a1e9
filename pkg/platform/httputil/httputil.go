// Package httputil writes the JSON envelopes shared by every endpoint.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "registrar/pkg/domain-errors"
)

// MsgServerError is the only message an internal failure ever exposes.
const MsgServerError = "Servera kļūda"

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes {"ok":false,"error":...}.
// Uncoded and internal errors are reported with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := MsgServerError
	if de, ok := dErrors.As(err); ok {
		status = dErrors.ToHTTPStatus(de.Code)
		if de.Code != dErrors.CodeInternal && de.Message != "" {
			msg = de.Message
		}
	}
	WriteJSON(w, status, ErrorResponse{OK: false, Error: msg})
}
