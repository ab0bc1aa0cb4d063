package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/db"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type TransactionService struct {
	collection *mongo.Collection
}

func NewTransactionService(database *mongo.Database) *TransactionService {
	return &TransactionService{collection: database.Collection(db.Transactions)}
}

func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Currency == "" {
		tx.Currency = models.DefaultCurrency
	}
	if tx.Status == "" {
		tx.Status = models.StatusPending
	}

	if _, err := s.collection.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", tx.TransactionID, err)
	}
	return nil
}

func (s *TransactionService) findOne(ctx context.Context, filter bson.M) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tx models.Transaction
	if err := s.collection.FindOne(ctx, filter).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return &tx, nil
}

// FindByStripeID looks a transaction up by its processor reference.
func (s *TransactionService) FindByStripeID(ctx context.Context, ref string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"stripeTransactionId": ref})
}

func (s *TransactionService) FindByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"transactionId": transactionID})
}

// ListByUser returns transactions the user paid or received, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"fromUserId": userID},
		bson.M{"toUserId": userID},
	}}
	cur, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer cur.Close(ctx)

	transactions := []models.Transaction{}
	if err := cur.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return transactions, nil
}

// TransitionStatus sets status to `to` only while the stored status is one of
// `from`. It reports whether a document was matched.
func (s *TransactionService) TransitionStatus(ctx context.Context, transactionID string, from []models.Status, to models.Status) (bool, error) {
	return transition(ctx, s.collection, bson.M{"transactionId": transactionID}, from, to)
}

func transition(ctx context.Context, coll *mongo.Collection, filter bson.M, from []models.Status, to models.Status) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter["status"] = bson.M{"$in": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}}

	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update %s status to %s: %w", coll.Name(), to, err)
	}
	return res.MatchedCount > 0, nil
}
