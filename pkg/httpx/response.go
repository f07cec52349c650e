package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body used by every endpoint:
// {status: "success"|"error", message, data?, errors?}.
type Envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. It sets the
// Content-Type header and no-store cache headers, which token and credential
// responses require.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{Status: "success", Message: message, Data: data})
}

// WriteError writes an error envelope with a single message and no field
// detail.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Envelope{Status: "error", Message: message})
}

// WriteFieldErrors writes an error envelope carrying field-level validation
// detail.
func WriteFieldErrors(w http.ResponseWriter, code int, message string, fields map[string][]string) {
	WriteJSON(w, code, Envelope{Status: "error", Message: message, Errors: fields})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// DecodeJSON reads a JSON request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
