package pasetotoken

import "errors"

var (
	// ErrConfig wraps every key or manager setup failure.
	ErrConfig = errors.New("paseto: invalid configuration")
	// ErrInvalidToken wraps parse, signature, expiry and claim failures.
	ErrInvalidToken = errors.New("paseto: invalid token")
)
