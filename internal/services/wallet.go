package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/db"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

var walletAmountFields = []string{"balance", "pendingBalance", "totalEarnings", "totalSpent"}

type WalletService struct {
	collection *mongo.Collection
}

func NewWalletService(database *mongo.Database) *WalletService {
	return &WalletService{collection: database.Collection(db.Wallets)}
}

// Get returns the user's wallet, creating an empty one on first access.
func (s *WalletService) Get(ctx context.Context, userID string) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": walletDefaults(nil, models.DefaultCurrency, now),
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet models.Wallet
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&wallet); err != nil {
		return nil, fmt.Errorf("failed to load wallet for %s: %w", userID, err)
	}
	return &wallet, nil
}

// CreditCompleted applies a completed transaction to the wallets it touches.
// Each wallet records the transaction id, so applying the same transaction
// twice is a no-op.
func (s *WalletService) CreditCompleted(ctx context.Context, tx *models.Transaction) error {
	amount := tx.Amount
	switch tx.Type {
	case models.TypeEarningsWithdrawal:
		return s.apply(ctx, tx.FromUserID, tx, bson.M{"balance": models.NewAmount(amount.Neg())})
	case models.TypeShiftPayment:
		if err := s.apply(ctx, tx.FromUserID, tx, bson.M{"totalSpent": amount}); err != nil {
			return err
		}
		if tx.ToUserID == "" {
			return nil
		}
		return s.apply(ctx, tx.ToUserID, tx, bson.M{"balance": amount, "totalEarnings": amount})
	default:
		return s.apply(ctx, tx.FromUserID, tx, bson.M{"totalSpent": amount})
	}
}

func (s *WalletService) apply(ctx context.Context, userID string, tx *models.Transaction, inc bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{
		"userId":               userID,
		"creditedTransactions": bson.M{"$ne": tx.TransactionID},
	}
	update := bson.M{
		"$inc":         inc,
		"$push":        bson.M{"creditedTransactions": tx.TransactionID},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": walletDefaults(inc, tx.Currency, now),
	}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// The filter missed because the wallet already lists this
		// transaction; the upsert then collides on the unique userId.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to credit wallet %s for transaction %s: %w", userID, tx.TransactionID, err)
	}
	return nil
}

func walletDefaults(inc bson.M, currency string, now time.Time) bson.M {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	defaults := bson.M{
		"currency":  currency,
		"createdAt": now,
	}
	if inc == nil {
		defaults["updatedAt"] = now
	}
	for _, field := range walletAmountFields {
		if _, ok := inc[field]; !ok {
			defaults[field] = models.Amount{}
		}
	}
	return defaults
}
