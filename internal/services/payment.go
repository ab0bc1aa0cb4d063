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

type PaymentService struct {
	collection *mongo.Collection
}

func NewPaymentService(database *mongo.Database) *PaymentService {
	return &PaymentService{collection: database.Collection(db.Payments)}
}

func (s *PaymentService) Create(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if payment.Currency == "" {
		payment.Currency = models.DefaultCurrency
	}
	if payment.Status == "" {
		payment.Status = models.StatusPending
	}

	if _, err := s.collection.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// FindByID retrieves a single payment by its paymentId
func (s *PaymentService) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := s.collection.FindOne(ctx, bson.M{"paymentId": paymentID}).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

// ListByUser retrieves the user's payments, optionally filtered by status,
// newest first.
func (s *PaymentService) ListByUser(ctx context.Context, userID string, status models.Status) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"userId": userID}
	if status != "" {
		query["status"] = status
	}

	cur, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer cur.Close(ctx)

	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) TransitionStatus(ctx context.Context, paymentID string, from []models.Status, to models.Status) (bool, error) {
	return transition(ctx, s.collection, bson.M{"paymentId": paymentID}, from, to)
}
