// Package jwtx issues and verifies the HS256 tokens used by the auth service.
// Access and refresh tokens carry the same claim set but are signed with
// distinct secrets, so possession of one kind never stands in for the other.
package jwtx

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the payload embedded in both token kinds.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// newJTI returns a random hex token identifier.
func newJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
