package models

import "time"

type Transaction struct {
	TransactionID       string          `bson:"transactionId" json:"transactionId"`
	FromUserID          string          `bson:"fromUserId" json:"fromUserId"`
	ToUserID            string          `bson:"toUserId,omitempty" json:"toUserId,omitempty"`
	Amount              Amount          `bson:"amount" json:"amount"`
	Currency            string          `bson:"currency" json:"currency"`
	Status              Status          `bson:"status" json:"status"`
	Type                TransactionType `bson:"type" json:"type"`
	PaymentID           string          `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	JobID               string          `bson:"jobId,omitempty" json:"jobId,omitempty"`
	ShiftID             string          `bson:"shiftId,omitempty" json:"shiftId,omitempty"`
	StripeTransactionID string          `bson:"stripeTransactionId,omitempty" json:"stripeTransactionId,omitempty"` // payment intent id
	Description         string          `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt           time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time       `bson:"updatedAt" json:"updatedAt"`
}
