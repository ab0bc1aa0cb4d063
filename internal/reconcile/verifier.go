package reconcile

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"
)

// Event is a verified, decoded processor event.
type Event struct {
	ID   string
	Kind string
	Data json.RawMessage
}

type Verifier interface {
	Verify(payload []byte, signature string) (Event, error)
}

// StripeVerifier checks the Stripe-Signature header against the endpoint
// secret. payload must be the request body exactly as received.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret, tolerance: webhook.DefaultTolerance}
}

func (v *StripeVerifier) Verify(payload []byte, signature string) (Event, error) {
	if v.secret == "" {
		return Event{}, ErrConfiguration
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, &SignatureError{Err: err}
	}
	if evt.Type == "" || evt.Data == nil {
		return Event{}, &SignatureError{Err: errors.New("event has no type or data")}
	}

	return Event{ID: evt.ID, Kind: string(evt.Type), Data: evt.Data.Raw}, nil
}
