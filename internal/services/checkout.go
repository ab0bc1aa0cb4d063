package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

type transactionCreator interface {
	Create(ctx context.Context, tx *models.Transaction) error
}

type paymentCreator interface {
	Create(ctx context.Context, payment *models.Payment) error
}

// CheckoutRequest is a validated payment initiation.
type CheckoutRequest struct {
	UserID      string
	UserRole    models.UserRole
	PaymentType models.TransactionType
	Amount      models.Amount
	Currency    string
	ToUserID    string
	JobID       string
	ShiftID     string
	Description string
}

type CheckoutResult struct {
	Payment      *models.Payment     `json:"payment"`
	Transaction  *models.Transaction `json:"transaction"`
	ClientSecret string              `json:"clientSecret"`
}

// CheckoutService opens a processor payment intent and records the pending
// Transaction/Payment pair that reconciliation later settles.
type CheckoutService struct {
	gateway      PaymentGateway
	transactions transactionCreator
	payments     paymentCreator
}

func NewCheckoutService(gateway PaymentGateway, transactions transactionCreator, payments paymentCreator) *CheckoutService {
	return &CheckoutService{gateway: gateway, transactions: transactions, payments: payments}
}

func (s *CheckoutService) Initiate(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	paymentID := uuid.NewString()
	transactionID := uuid.NewString()

	intent, err := s.gateway.CreatePaymentIntent(ctx, IntentRequest{
		Amount:         req.Amount,
		Currency:       currency,
		Description:    req.Description,
		IdempotencyKey: paymentID,
		Metadata: map[string]string{
			"paymentId":     paymentID,
			"transactionId": transactionID,
			"userId":        req.UserID,
			"paymentType":   string(req.PaymentType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	tx := &models.Transaction{
		TransactionID:       transactionID,
		FromUserID:          req.UserID,
		ToUserID:            req.ToUserID,
		Amount:              req.Amount,
		Currency:            currency,
		Status:              models.StatusPending,
		Type:                req.PaymentType,
		PaymentID:           paymentID,
		JobID:               req.JobID,
		ShiftID:             req.ShiftID,
		StripeTransactionID: intent.ID,
		Description:         req.Description,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("record transaction for intent %s: %w", intent.ID, err)
	}

	payment := &models.Payment{
		PaymentID:             paymentID,
		UserID:                req.UserID,
		UserRole:              req.UserRole,
		PaymentType:           req.PaymentType,
		Amount:                req.Amount,
		Currency:              currency,
		Status:                models.StatusPending,
		JobID:                 req.JobID,
		ShiftID:               req.ShiftID,
		TransactionID:         transactionID,
		StripePaymentIntentID: intent.ID,
		Description:           req.Description,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment for intent %s: %w", intent.ID, err)
	}

	return &CheckoutResult{Payment: payment, Transaction: tx, ClientSecret: intent.ClientSecret}, nil
}
