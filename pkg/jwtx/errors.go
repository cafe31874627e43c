package jwtx

import "errors"

var (
	// ErrMalformed reports input that is not a JWT at all.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrAlgMismatch reports a token signed with an unexpected algorithm.
	ErrAlgMismatch = errors.New("jwtx: unexpected signing algorithm")

	// ErrInvalidSig reports a signature that does not verify under the
	// expected secret.
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	// ErrExpired reports an authentic token past its expiry.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrNotYetValid reports a token used before its nbf claim.
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	// ErrInvalidClaim reports a token whose claims fail validation.
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
