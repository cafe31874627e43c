package domain

import "time"

// SessionState tags where a refresh session sits in its lifecycle. Only
// active sessions can refresh; every transition out of active is terminal.
type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionRotated SessionState = "rotated" // superseded by the next session in the chain
	SessionRevoked SessionState = "revoked" // logout or forced invalidation
	SessionExpired SessionState = "expired" // presented after its expiry
)

// Device is the client-reported fingerprint carried in the x-device-info
// header. DeviceID is the only required field; it scopes a user's sessions so
// that each device holds at most one live session.
type Device struct {
	DeviceID       string `json:"deviceId"`
	DeviceName     string `json:"deviceName,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
	Platform       string `json:"platform,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`
	BrowserName    string `json:"browserName,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
}

// RefreshSession is the server-side record of an issued refresh token.
// TokenHash holds the base64url SHA-256 fingerprint of the signed token; the
// raw token exists only in the client's cookie.
type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	State     SessionState
	Device    Device
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the session can still redeem a refresh at the given
// instant.
func (s *RefreshSession) Live(now time.Time) bool {
	return s.State == SessionActive && now.Before(s.ExpiresAt)
}
