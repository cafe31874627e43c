package domain

import "time"

// AuthResult is what a successful signup, login or refresh hands to the HTTP
// layer: the access token for the response body, the refresh token for the
// cookie, and the cookie's lifetime.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}
