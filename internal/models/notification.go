package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationKind string

const (
	NotificationPaymentCompleted NotificationKind = "payment_completed"
	NotificationPaymentFailed    NotificationKind = "payment_failed"
	NotificationPaymentRefunded  NotificationKind = "payment_refunded"
)

// Notification represents a notification document in the MongoDB database
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	Kind          NotificationKind   `bson:"kind" json:"kind"`
	Title         string             `bson:"title" json:"title"`
	Message       string             `bson:"message" json:"message"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Read          bool               `bson:"read" json:"read"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReconciliationEvent is published whenever a processor event changes local
// state.
type ReconciliationEvent struct {
	EventID       string    `json:"eventId"`
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transactionId"`
	PaymentID     string    `json:"paymentId,omitempty"`
	UserID        string    `json:"userId"`
	Status        Status    `json:"status"`
	Amount        Amount    `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurredAt"`
}
