package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/services"
)

type Checkout interface {
	Initiate(ctx context.Context, req services.CheckoutRequest) (*services.CheckoutResult, error)
}

type PaymentReader interface {
	FindByID(ctx context.Context, paymentID string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string, status models.Status) ([]models.Payment, error)
}

type TransactionReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}

type PaymentHandler struct {
	checkout     Checkout
	payments     PaymentReader
	transactions TransactionReader
	log          logrus.FieldLogger
}

func NewPaymentHandler(checkout Checkout, payments PaymentReader, transactions TransactionReader, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, payments: payments, transactions: transactions, log: log}
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	result, err := h.checkout.Initiate(r.Context(), services.CheckoutRequest{
		UserID:      claims.UserID,
		UserRole:    claims.Role,
		PaymentType: req.PaymentType,
		Amount:      req.Amount,
		Currency:    req.Currency,
		ToUserID:    req.ToUserID,
		JobID:       req.JobID,
		ShiftID:     req.ShiftID,
		Description: req.Description,
	})
	if err != nil {
		h.log.WithError(err).WithField("userId", claims.UserID).Error("Failed to create payment")
		if errors.Is(err, services.ErrGateway) {
			writeError(w, http.StatusBadGateway, "payment processor rejected the payment")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListPayments handles GET /api/payments?status=
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	status := models.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeValidation(w, ValidationErrors{"status": "is not a known status"})
		return
	}

	payments, err := h.payments.ListByUser(r.Context(), claims.UserID, status)
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch payments")
		writeError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// GetPayment handles GET /api/payments/{paymentID}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	paymentID := mux.Vars(r)["paymentID"]

	payment, err := h.payments.FindByID(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		h.log.WithError(err).WithField("paymentId", paymentID).Error("Failed to fetch payment")
		writeError(w, http.StatusInternalServerError, "failed to fetch payment")
		return
	}
	if payment.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "payment belongs to another user")
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// ListTransactions handles GET /api/transactions
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	transactions, err := h.transactions.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch transactions")
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}
