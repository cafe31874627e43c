package http

import (
	"errors"
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

type RefreshHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

// ServeHTTP godoc
//
//	@Summary		Refresh Token Endpoint
//	@Description	Exchange the refresh cookie for a new access token. The session record
//	@Description	is rotated, so the presented refresh token is single-use; the
//	@Description	replacement arrives in a fresh cookie.
//	@Tags			Auth
//	@Produce		json
//	@Param			x-device-info	header		string				true	"Device fingerprint JSON, deviceId required"
//	@Success		200				{object}	notesdk.AuthData	"accessToken, user"
//	@Failure		400				{object}	httpx.Envelope		"validation_error"
//	@Failure		401				{object}	httpx.Envelope		"invalid_token or expired_token"
//	@Failure		404				{object}	httpx.Envelope		"not_found"
//	@Failure		500				{object}	httpx.Envelope		"server_error"
//	@Router			/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	device, ok := deviceFromHeader(w, r)
	if !ok {
		return
	}

	token := refreshTokenFromCookie(r)

	res, err := h.AuthService.Refresh(ctx, token, device)
	if err != nil {
		// A rejected token is dead; take the cookie down with it so the
		// client stops presenting it.
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrExpiredToken) || errors.Is(err, service.ErrNotFound) {
			clearRefreshCookie(w, h.CookieSecure)
		}
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, res.RefreshToken, res.RefreshTTL, h.CookieSecure)
	httpx.WriteData(w, http.StatusOK, notesdk.AuthData{
		AccessToken: res.AccessToken,
		User:        toUserDTO(res.User),
	})
}
