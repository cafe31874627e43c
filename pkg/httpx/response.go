package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body. Success responses carry data,
// failures carry an error, never both.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the machine-readable error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stable error codes used across the API.
const (
	CodeValidation         = "validation_error"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeExpiredToken       = "expired_token"
	CodeUnauthorized       = "unauthorized"
	CodeServerError        = "server_error"
)

// WriteData writes a success envelope with the given status code.
func WriteData(w http.ResponseWriter, code int, v any) {
	writeEnvelope(w, code, Envelope{OK: true, Data: v})
}

// WriteError writes a failure envelope with the given status and error code.
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	writeEnvelope(w, code, Envelope{OK: false, Error: &ErrorBody{Code: errCode, Message: message}})
}

func writeEnvelope(w http.ResponseWriter, code int, env Envelope) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteJSON writes v as a bare JSON body, outside the envelope. Health
// probes use this; API responses go through WriteData/WriteError.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache marks the response as non-cacheable. Token-bearing responses must
// never land in shared caches.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
