package notesdk

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Envelope
// ============================================================================

// Envelope is the uniform response wrapper. Data is left raw so each
// call site can decode its own payload type.
type Envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the failure half of the envelope.
type ErrorBody struct {
	// Code is the machine-readable error code (e.g. "invalid_token")
	Code string `json:"code"`

	// Message is a human-readable description of the error
	Message string `json:"message"`
}

// ============================================================================
// Request Types
// ============================================================================

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates with either the email or the username.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// NoteRequest carries the writable fields of a note for create and
// update calls.
type NoteRequest struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// DeviceInfo identifies the calling device. It travels as JSON in the
// x-device-info header on every auth endpoint; DeviceID is the only
// required field and scopes the server-side session.
type DeviceInfo struct {
	DeviceID       string `json:"deviceId"`
	DeviceName     string `json:"deviceName,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
	Platform       string `json:"platform,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`
	BrowserName    string `json:"browserName,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
}

// ============================================================================
// Response Payloads
// ============================================================================

// User is the public view of an account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is the public view of a note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthData is returned by signup, login and refresh. The refresh token
// itself never appears here; it travels only in the HttpOnly cookie.
type AuthData struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// MessageData is returned by endpoints that only acknowledge.
type MessageData struct {
	Message string `json:"message"`
}

// ProfileData is returned by GET /me.
type ProfileData struct {
	Email string `json:"email"`
}

// NotesData wraps a note listing.
type NotesData struct {
	Notes []Note `json:"notes"`
}

// NoteData wraps a single note.
type NoteData struct {
	Note Note `json:"note"`
}

// DeletedData acknowledges a deletion.
type DeletedData struct {
	Deleted bool `json:"deleted"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the /livez and /readyz probes. Probes
// respond outside the envelope so monitors can parse them directly.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Issuer   string `json:"issuer"`
}
