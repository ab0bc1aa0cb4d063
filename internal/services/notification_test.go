package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type capturePublisher struct {
	events []models.ReconciliationEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e models.ReconciliationEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestNotificationFor(t *testing.T) {
	event := models.ReconciliationEvent{
		UserID:        "employer-1",
		TransactionID: "T1",
		Amount:        mustAmount(t, "12.5"),
		Currency:      "USD",
	}

	event.Status = models.StatusCompleted
	n := notificationFor(event)
	assert.Equal(t, models.NotificationPaymentCompleted, n.Kind)
	assert.Equal(t, "Your payment of 12.50 USD was completed.", n.Message)
	assert.Equal(t, "employer-1", n.UserID)

	event.Status = models.StatusFailed
	assert.Equal(t, models.NotificationPaymentFailed, notificationFor(event).Kind)

	event.Status = models.StatusRefunded
	assert.Equal(t, models.NotificationPaymentRefunded, notificationFor(event).Kind)
}

func TestNotificationService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("notify stores and publishes", func(mt *mtest.T) {
		pub := &capturePublisher{}
		svc := NewNotificationService(mt.DB, pub)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := svc.Notify(context.Background(), models.ReconciliationEvent{
			UserID: "employer-1", TransactionID: "T1", Status: models.StatusCompleted,
		})
		require.NoError(mt, err)
		assert.Len(mt, pub.events, 1)
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("publish failure still stores", func(mt *mtest.T) {
		pub := &capturePublisher{err: errors.New("nsqd down")}
		svc := NewNotificationService(mt.DB, pub)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := svc.Notify(context.Background(), models.ReconciliationEvent{
			UserID: "employer-1", TransactionID: "T1", Status: models.StatusFailed,
		})
		assert.ErrorContains(mt, err, "nsqd down")
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("mark read of foreign notification", func(mt *mtest.T) {
		svc := NewNotificationService(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := svc.MarkRead(context.Background(), "worker-1", "64b7f0c2a1b2c3d4e5f60718")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("mark read with malformed id", func(mt *mtest.T) {
		svc := NewNotificationService(mt.DB, nil)
		assert.ErrorIs(mt, svc.MarkRead(context.Background(), "worker-1", "nope"), ErrNotFound)
	})
}
