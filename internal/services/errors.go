package services

import "errors"

var (
	// ErrNotFound is returned by lookups that match no document.
	ErrNotFound = errors.New("not found")

	// ErrGateway wraps failures reported by the payment processor.
	ErrGateway = errors.New("payment gateway error")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
