package http

import (
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

type SignupHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new account and open its first session. The access token is
//	@Description	returned in the body; the refresh token is set as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			x-device-info	header		string					true	"Device fingerprint JSON, deviceId required"
//	@Param			request			body		notesdk.SignupRequest	true	"email, username, password"
//	@Success		201				{object}	notesdk.AuthData		"accessToken, user"
//	@Failure		400				{object}	httpx.Envelope			"validation_error"
//	@Failure		409				{object}	httpx.Envelope			"conflict"
//	@Failure		500				{object}	httpx.Envelope			"server_error"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	device, ok := deviceFromHeader(w, r)
	if !ok {
		return
	}

	var req notesdk.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.AuthService.Signup(ctx, service.SignupParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Device:   device,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, res.RefreshToken, res.RefreshTTL, h.CookieSecure)
	httpx.WriteData(w, http.StatusCreated, notesdk.AuthData{
		AccessToken: res.AccessToken,
		User:        toUserDTO(res.User),
	})
}
