package reconcile

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Event kinds with registered handlers.
const (
	KindPaymentSucceeded = "payment_intent.succeeded"
	KindPaymentFailed    = "payment_intent.payment_failed"
	KindChargeRefunded   = "charge.refunded"
	KindTransferCreated  = "transfer.created"
)

type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Dispatcher routes an event to the single handler registered for its kind.
type Dispatcher struct {
	handlers map[string]Handler
	log      logrus.FieldLogger
}

func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler), log: log}
}

// Register replaces any handler already registered for kind.
func (d *Dispatcher) Register(kind string, h Handler) {
	d.handlers[kind] = h
}

// Dispatch runs the handler to completion. Kinds without a handler are
// logged and acknowledged.
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event) error {
	h, ok := d.handlers[evt.Kind]
	if !ok {
		d.log.WithFields(logrus.Fields{
			"eventId":   evt.ID,
			"eventKind": evt.Kind,
		}).Info("Unhandled webhook event kind")
		return nil
	}
	return h.Handle(ctx, evt)
}
