package models

import "time"

// Wallet is the per-user balance ledger.
type Wallet struct {
	UserID           string    `bson:"userId" json:"userId"`
	Balance          Amount    `bson:"balance" json:"balance"`
	PendingBalance   Amount    `bson:"pendingBalance" json:"pendingBalance"`
	TotalEarnings    Amount    `bson:"totalEarnings" json:"totalEarnings"`
	TotalSpent       Amount    `bson:"totalSpent" json:"totalSpent"`
	Currency         string    `bson:"currency" json:"currency"`
	StripeCustomerID string    `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	StripeAccountID  string    `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`

	// Transactions already applied to this wallet.
	CreditedTransactions []string `bson:"creditedTransactions,omitempty" json:"-"`
}
