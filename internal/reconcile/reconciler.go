package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/lock"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/services"
)

// TransactionStore is the slice of the transaction collection reconciliation
// needs. FindByStripeID returns services.ErrNotFound on a miss.
type TransactionStore interface {
	FindByStripeID(ctx context.Context, ref string) (*models.Transaction, error)
	TransitionStatus(ctx context.Context, transactionID string, from []models.Status, to models.Status) (bool, error)
}

type PaymentStore interface {
	TransitionStatus(ctx context.Context, paymentID string, from []models.Status, to models.Status) (bool, error)
}

// Locker serialises work on one processor reference.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// Notifier is told about every transition that changed state.
type Notifier interface {
	Notify(ctx context.Context, event models.ReconciliationEvent) error
}

// LedgerHook applies a completed transaction to wallet balances. It runs
// under the reference lock for every delivery that finds the transaction
// completed, so it must be idempotent per transaction.
type LedgerHook interface {
	CreditCompleted(ctx context.Context, tx *models.Transaction) error
}

type transition struct {
	to            models.Status
	from          []models.Status
	mirrorPayment bool
}

var (
	toCompleted = transition{
		to:            models.StatusCompleted,
		from:          []models.Status{models.StatusPending, models.StatusProcessing, models.StatusFailed},
		mirrorPayment: true,
	}
	toFailed = transition{
		to:   models.StatusFailed,
		from: []models.Status{models.StatusPending, models.StatusProcessing},
	}
	toRefunded = transition{
		to:   models.StatusRefunded,
		from: []models.Status{models.StatusPending, models.StatusProcessing, models.StatusCompleted},
	}
)

type Reconciler struct {
	transactions TransactionStore
	payments     PaymentStore
	locker       Locker
	notifier     Notifier
	ledger       LedgerHook
	log          logrus.FieldLogger
}

type Option func(*Reconciler)

func WithLocker(l Locker) Option {
	return func(r *Reconciler) { r.locker = l }
}

func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) { r.notifier = n }
}

func WithLedgerHook(h LedgerHook) Option {
	return func(r *Reconciler) { r.ledger = h }
}

func NewReconciler(transactions TransactionStore, payments PaymentStore, log logrus.FieldLogger, opts ...Option) *Reconciler {
	r := &Reconciler{
		transactions: transactions,
		payments:     payments,
		locker:       lock.Noop{},
		log:          log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs a handler for every event kind the reconciler knows.
func (r *Reconciler) Register(d *Dispatcher) {
	d.Register(KindPaymentSucceeded, HandlerFunc(r.paymentSucceeded))
	d.Register(KindPaymentFailed, HandlerFunc(r.paymentFailed))
	d.Register(KindChargeRefunded, HandlerFunc(r.chargeRefunded))
	d.Register(KindTransferCreated, HandlerFunc(r.transferCreated))
}

func (r *Reconciler) paymentSucceeded(ctx context.Context, evt Event) error {
	var pi stripe.PaymentIntent
	if !r.decode(evt, &pi) {
		return nil
	}
	return r.apply(ctx, evt, pi.ID, toCompleted)
}

func (r *Reconciler) paymentFailed(ctx context.Context, evt Event) error {
	var pi stripe.PaymentIntent
	if !r.decode(evt, &pi) {
		return nil
	}
	if pi.LastPaymentError != nil {
		r.eventLog(evt).WithField("reason", pi.LastPaymentError.Msg).Info("Payment intent failed")
	}
	return r.apply(ctx, evt, pi.ID, toFailed)
}

func (r *Reconciler) chargeRefunded(ctx context.Context, evt Event) error {
	var ch stripe.Charge
	if !r.decode(evt, &ch) {
		return nil
	}
	var ref string
	if ch.PaymentIntent != nil {
		ref = ch.PaymentIntent.ID
	}
	return r.apply(ctx, evt, ref, toRefunded)
}

func (r *Reconciler) transferCreated(_ context.Context, evt Event) error {
	var tr stripe.Transfer
	if !r.decode(evt, &tr) {
		return nil
	}
	fields := logrus.Fields{
		"transferId": tr.ID,
		"amount":     tr.Amount,
		"currency":   tr.Currency,
	}
	if tr.Destination != nil {
		fields["destination"] = tr.Destination.ID
	}
	r.eventLog(evt).WithFields(fields).Info("Transfer created")
	return nil
}

// decode reports whether the event data could be read. Undecodable data is
// logged and acknowledged: redelivery would carry the same bytes.
func (r *Reconciler) decode(evt Event, v interface{}) bool {
	if err := json.Unmarshal(evt.Data, v); err != nil {
		r.eventLog(evt).WithError(err).Error("Failed to decode webhook event data")
		return false
	}
	return true
}

func (r *Reconciler) eventLog(evt Event) *logrus.Entry {
	return r.log.WithFields(logrus.Fields{"eventId": evt.ID, "eventKind": evt.Kind})
}

func (r *Reconciler) apply(ctx context.Context, evt Event, ref string, t transition) error {
	log := r.eventLog(evt).WithField("reference", ref)
	if ref == "" {
		log.Warn("Webhook event carries no payment intent reference")
		return nil
	}

	release, err := r.locker.Acquire(ctx, ref)
	if err != nil {
		return fmt.Errorf("lock reference %s: %w", ref, err)
	}
	defer release()

	tx, err := r.transactions.FindByStripeID(ctx, ref)
	if errors.Is(err, services.ErrNotFound) {
		log.Warn("No transaction matches processor reference")
		return nil
	}
	if err != nil {
		return err
	}
	log = log.WithField("transactionId", tx.TransactionID)

	changed, err := r.transactions.TransitionStatus(ctx, tx.TransactionID, t.from, t.to)
	if err != nil {
		return err
	}
	switch {
	case changed:
		log.WithField("previousStatus", tx.Status).Infof("Transaction marked %s", t.to)
		tx.Status = t.to
	case tx.Status == t.to:
		log.Infof("Transaction already %s", t.to)
	default:
		log.WithField("status", tx.Status).Warnf("Transaction cannot move to %s", t.to)
		return nil
	}

	if t.mirrorPayment && tx.PaymentID != "" {
		paymentChanged, err := r.payments.TransitionStatus(ctx, tx.PaymentID, t.from, t.to)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"paymentId": tx.PaymentID,
			"changed":   paymentChanged,
		}).Infof("Payment mirrored to %s", t.to)
	}

	if t.to == models.StatusCompleted && r.ledger != nil {
		if err := r.ledger.CreditCompleted(ctx, tx); err != nil {
			return err
		}
	}

	if changed && r.notifier != nil {
		if err := r.notifier.Notify(ctx, reconciliationEvent(evt, tx)); err != nil {
			// State is already persisted; a redelivery would not notify again.
			log.WithError(err).Error("Failed to notify reconciliation")
		}
	}
	return nil
}

func reconciliationEvent(evt Event, tx *models.Transaction) models.ReconciliationEvent {
	return models.ReconciliationEvent{
		EventID:       evt.ID,
		Kind:          evt.Kind,
		TransactionID: tx.TransactionID,
		PaymentID:     tx.PaymentID,
		UserID:        tx.FromUserID,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		OccurredAt:    time.Now().UTC(),
	}
}
