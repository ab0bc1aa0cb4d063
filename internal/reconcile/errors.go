package reconcile

import "errors"

// ErrConfiguration means no webhook secret is configured for this
// environment.
var ErrConfiguration = errors.New("stripe webhook secret is not configured")

// SignatureError reports a payload that failed signature verification or
// could not be decoded.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return "webhook signature verification failed: " + e.Err.Error()
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
