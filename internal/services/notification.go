package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/db"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/events"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type NotificationService struct {
	collection *mongo.Collection
	publisher  events.Publisher
}

func NewNotificationService(database *mongo.Database, publisher events.Publisher) *NotificationService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &NotificationService{collection: database.Collection(db.Notifications), publisher: publisher}
}

func (s *NotificationService) CreateNotification(ctx context.Context, n *models.Notification) (string, error) {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("failed to save notification: %w", err)
	}
	return n.ID.Hex(), nil
}

func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	cur, err := s.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cur.Close(ctx)

	notifications := []models.Notification{}
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "userId": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Notify stores a notification for the paying user and publishes the event.
// Both steps are attempted; their errors are joined.
func (s *NotificationService) Notify(ctx context.Context, event models.ReconciliationEvent) error {
	n := notificationFor(event)
	_, storeErr := s.CreateNotification(ctx, n)
	publishErr := s.publisher.Publish(ctx, event)
	return errors.Join(storeErr, publishErr)
}

func notificationFor(event models.ReconciliationEvent) *models.Notification {
	n := &models.Notification{
		UserID:        event.UserID,
		TransactionID: event.TransactionID,
	}
	amount := fmt.Sprintf("%s %s", event.Amount.StringFixed(2), event.Currency)
	switch event.Status {
	case models.StatusCompleted:
		n.Kind = models.NotificationPaymentCompleted
		n.Title = "Payment completed"
		n.Message = "Your payment of " + amount + " was completed."
	case models.StatusFailed:
		n.Kind = models.NotificationPaymentFailed
		n.Title = "Payment failed"
		n.Message = "Your payment of " + amount + " failed. Please try another payment method."
	case models.StatusRefunded:
		n.Kind = models.NotificationPaymentRefunded
		n.Title = "Payment refunded"
		n.Message = "Your payment of " + amount + " was refunded."
	}
	return n
}
