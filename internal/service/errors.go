package service

import "errors"

// Sentinel errors the HTTP layer maps onto response codes.
var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrExpiredToken       = errors.New("expired_token")
)

// ValidationError reports rejected input together with the field-level
// message shown to the caller. Match it with errors.As.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
