// Package httpkit holds the JSON plumbing shared by every HTTP handler:
// request decoding, response encoding and the error envelope callers see.
package httpkit

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the wire shape of every error response.
type ErrorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// DecodeJSON decodes the request body into v, rejecting unknown fields so a
// misspelled option fails loudly instead of silently falling back to defaults.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON writes body as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	writeBody(w, status, body)
}

// WriteErr writes an ErrorEnvelope with the given code, message and details.
func WriteErr(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	var env ErrorEnvelope
	env.Error.Code = code
	env.Error.Message = msg
	env.Error.Details = details
	writeBody(w, status, env)
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode errors past WriteHeader can only be logged by the caller's
	// middleware; the status line is already on the wire.
	_ = json.NewEncoder(w).Encode(body)
}
