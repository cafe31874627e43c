package notesdk

import (
	"context"
	"errors"
	"net/http"
)

// Signup registers a new account and starts a session on this device.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthData, error) {
	var data AuthData
	err := c.callOpen(ctx, http.MethodPost, "/signup", req, c.deviceHeaders(), &data, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	c.setAuth(data.AccessToken, data.User)
	return &data, nil
}

// Login authenticates with a username or email plus password and starts a
// session on this device. Any previous session for the same device is
// replaced server-side.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthData, error) {
	var data AuthData
	err := c.callOpen(ctx, http.MethodPost, "/login", req, c.deviceHeaders(), &data, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	c.setAuth(data.AccessToken, data.User)
	return &data, nil
}

// Logout revokes the current session. Local auth state is dropped whatever
// the server answers; a failed logout still leaves this client signed out.
func (c *Client) Logout(ctx context.Context) error {
	err := c.callOpen(ctx, http.MethodPost, "/logout", nil, c.deviceHeaders(), nil, http.StatusOK)
	c.clearAuth()
	return err
}

// Refresh forces a token rotation using the refresh cookie. Most callers
// never need this; authenticated calls refresh on their own when the
// server rejects an access token.
func (c *Client) Refresh(ctx context.Context) error {
	return c.sharedRefresh(ctx, c.AccessToken())
}

// Resume tries to restore a session from a refresh cookie in the jar,
// typically at startup. It reports false without an error when the server
// does not recognise the session; transport failures are returned as
// errors.
func (c *Client) Resume(ctx context.Context) (bool, error) {
	err := c.sharedRefresh(ctx, c.AccessToken())
	if err == nil {
		return true, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false, nil
	}
	return false, err
}

// Me fetches the profile of the signed-in user.
func (c *Client) Me(ctx context.Context) (*ProfileData, error) {
	var data ProfileData
	if err := c.callAuth(ctx, http.MethodGet, "/me", nil, &data, http.StatusOK); err != nil {
		return nil, err
	}
	return &data, nil
}
