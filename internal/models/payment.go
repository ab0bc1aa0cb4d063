package models

import (
	"time"
)

type Payment struct {
	PaymentID             string          `bson:"paymentId" json:"paymentId"`
	UserID                string          `bson:"userId" json:"userId"`
	UserRole              UserRole        `bson:"userRole" json:"userRole"`
	PaymentType           TransactionType `bson:"paymentType" json:"paymentType"`
	Amount                Amount          `bson:"amount" json:"amount"`
	Currency              string          `bson:"currency" json:"currency"`
	Status                Status          `bson:"status" json:"status"`
	JobID                 string          `bson:"jobId,omitempty" json:"jobId,omitempty"`
	ShiftID               string          `bson:"shiftId,omitempty" json:"shiftId,omitempty"`
	TransactionID         string          `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	StripePaymentIntentID string          `bson:"stripePaymentIntentId,omitempty" json:"stripePaymentIntentId,omitempty"`
	StripeCustomerID      string          `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	Description           string          `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt             time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time       `bson:"updatedAt" json:"updatedAt"`
}
