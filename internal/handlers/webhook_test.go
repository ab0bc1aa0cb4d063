package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/lock"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/reconcile"
)

type failingDispatcher struct {
	err error
}

func (d failingDispatcher) Dispatch(context.Context, reconcile.Event) error {
	return d.err
}

func TestStripeWebhookDispatchErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"lock busy", lock.ErrLockBusy, http.StatusServiceUnavailable},
		{"store failure", errors.New("failed to update transactions status to completed: timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			h := NewWebhookHandler(reconcile.NewStripeVerifier(webhookSecret), failingDispatcher{err: tt.err}, log)

			rec := httptest.NewRecorder()
			h.Stripe(rec, signedWebhook(succeededPayload, webhookSecret))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestReadWebhookBodyKeepsRawBytes(t *testing.T) {
	req := signedWebhook(succeededPayload, webhookSecret)

	raw, envelope, err := readWebhookBody(httptest.NewRecorder(), req)
	assert.NoError(t, err)
	assert.Equal(t, succeededPayload, string(raw))
	assert.Equal(t, "evt_1", envelope.ID)
	assert.Equal(t, "payment_intent.succeeded", envelope.Type)
}
