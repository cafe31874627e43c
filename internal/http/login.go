package http

import (
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

type LoginHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with an email or username plus password. Replaces this
//	@Description	device's session; sessions on other devices stay live.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			x-device-info	header		string					true	"Device fingerprint JSON, deviceId required"
//	@Param			request			body		notesdk.LoginRequest	true	"usernameOrEmail, password"
//	@Success		201				{object}	notesdk.AuthData		"accessToken, user"
//	@Failure		400				{object}	httpx.Envelope			"validation_error"
//	@Failure		401				{object}	httpx.Envelope			"invalid_credentials"
//	@Failure		404				{object}	httpx.Envelope			"not_found"
//	@Failure		500				{object}	httpx.Envelope			"server_error"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	device, ok := deviceFromHeader(w, r)
	if !ok {
		return
	}

	var req notesdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(ctx, service.LoginParams{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
		Device:          device,
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
