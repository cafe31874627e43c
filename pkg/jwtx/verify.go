package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a presented token string and returns its claims. The HTTP
// access guard depends on this rather than on the full Issuer.
type Verifier interface {
	Verify(raw string) (*Claims, error)
}

type verifierFunc func(string) (*Claims, error)

func (f verifierFunc) Verify(raw string) (*Claims, error) { return f(raw) }

// AccessVerifier returns a Verifier bound to the access secret.
func (i *Issuer) AccessVerifier() Verifier { return verifierFunc(i.VerifyAccess) }

// VerifyAccess validates raw as an access token.
func (i *Issuer) VerifyAccess(raw string) (*Claims, error) {
	return verify(raw, i.accessSecret, i.issuer)
}

// VerifyRefresh validates raw as a refresh token. When the token is authentic
// but expired, the parsed claims are returned alongside ErrExpired so callers
// can still identify which session to clean up.
func (i *Issuer) VerifyRefresh(raw string) (*Claims, error) {
	return verify(raw, i.refreshSecret, i.issuer)
}

func verify(raw string, secret []byte, issuer string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrAlgMismatch
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, ErrAlgMismatch) || errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrAlgMismatch
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenExpired):
			// Signature already checked, claims are trustworthy.
			return claims, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrNotYetValid
		default:
			return nil, ErrInvalidClaim
		}
	}

	if claims.UserID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}
