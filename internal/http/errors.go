package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/slogx"
)

// writeServiceError maps service-layer errors onto the response
// envelope. Internal details are logged, never echoed to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, verr.Msg)
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeConflict, "Account already exists")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, service.ErrExpiredToken):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeExpiredToken, "Refresh token expired")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, "Invalid refresh token")
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body")
		return false
	}
	return true
}
