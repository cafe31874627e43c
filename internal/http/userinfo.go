package http

import (
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

type UserInfoHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the profile of the account behind the presented access token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	notesdk.ProfileData	"email"
//	@Failure		401	{object}	httpx.Envelope		"unauthorized"
//	@Failure		404	{object}	httpx.Envelope		"not_found"
//	@Failure		500	{object}	httpx.Envelope		"server_error"
//	@Router			/me [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	user, err := h.AuthService.Me(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, notesdk.ProfileData{Email: user.Email})
}
