package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/lock"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/reconcile"
)

const maxWebhookBody = 64 << 10

type EventDispatcher interface {
	Dispatch(ctx context.Context, evt reconcile.Event) error
}

// webhookEnvelope is a best-effort read of the unverified body, used only to
// tag log lines.
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type WebhookHandler struct {
	verifier   reconcile.Verifier
	dispatcher EventDispatcher
	log        logrus.FieldLogger
}

func NewWebhookHandler(verifier reconcile.Verifier, dispatcher EventDispatcher, log logrus.FieldLogger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, log: log}
}

// readWebhookBody returns the body exactly as received.
func readWebhookBody(w http.ResponseWriter, r *http.Request) ([]byte, webhookEnvelope, error) {
	var envelope webhookEnvelope
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		return nil, envelope, fmt.Errorf("failed to read webhook body: %w", err)
	}
	_ = json.Unmarshal(raw, &envelope)
	return raw, envelope, nil
}

// Stripe handles POST /api/webhooks/stripe
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	raw, envelope, err := readWebhookBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log := h.log.WithFields(logrus.Fields{"eventId": envelope.ID, "eventKind": envelope.Type})

	evt, err := h.verifier.Verify(raw, r.Header.Get("Stripe-Signature"))
	if err != nil {
		var sigErr *reconcile.SignatureError
		switch {
		case errors.Is(err, reconcile.ErrConfiguration):
			log.WithError(err).Error("Stripe webhook secret is not configured")
		case errors.As(err, &sigErr):
			log.WithError(err).Warn("Rejected webhook with invalid signature")
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), evt); err != nil {
		if errors.Is(err, lock.ErrLockBusy) {
			log.WithError(err).Warn("Webhook reference is locked; asking for redelivery")
			writeError(w, http.StatusServiceUnavailable, "event is being processed, retry later")
			return
		}
		log.WithError(err).Error("Webhook processing failed")
		writeError(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
