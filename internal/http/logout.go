package http

import (
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

type LogoutHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	End the live session for this device. Reads the refresh token from
//	@Description	the cookie and clears it whether or not the session was found.
//	@Tags			Auth
//	@Produce		json
//	@Param			x-device-info	header		string					true	"Device fingerprint JSON, deviceId required"
//	@Success		200				{object}	notesdk.MessageData		"message"
//	@Failure		400				{object}	httpx.Envelope			"validation_error"
//	@Failure		401				{object}	httpx.Envelope			"invalid_token"
//	@Failure		500				{object}	httpx.Envelope			"server_error"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	device, ok := deviceFromHeader(w, r)
	if !ok {
		return
	}

	token := refreshTokenFromCookie(r)

	// The cookie is gone after this call either way; a client asking to
	// log out should never keep a refresh token.
	clearRefreshCookie(w, h.CookieSecure)

	if err := h.AuthService.Logout(ctx, token, device); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, notesdk.MessageData{Message: "Logged out"})
}
