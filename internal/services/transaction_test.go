package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

func TestTransactionService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by stripe id", func(mt *mtest.T) {
		svc := NewTransactionService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shiftpay.transactions", mtest.FirstBatch, bson.D{
			{Key: "transactionId", Value: "T1"},
			{Key: "stripeTransactionId", Value: "pi_123"},
			{Key: "status", Value: "pending"},
			{Key: "paymentId", Value: "P1"},
		}))

		tx, err := svc.FindByStripeID(context.Background(), "pi_123")
		require.NoError(mt, err)
		assert.Equal(mt, "T1", tx.TransactionID)
		assert.Equal(mt, models.StatusPending, tx.Status)
		assert.Equal(mt, "P1", tx.PaymentID)
	})

	mt.Run("find miss is ErrNotFound", func(mt *mtest.T) {
		svc := NewTransactionService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shiftpay.transactions", mtest.FirstBatch))

		_, err := svc.FindByStripeID(context.Background(), "pi_missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("transition matched", func(mt *mtest.T) {
		svc := NewTransactionService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		changed, err := svc.TransitionStatus(context.Background(), "T1",
			[]models.Status{models.StatusPending}, models.StatusCompleted)
		require.NoError(mt, err)
		assert.True(mt, changed)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("transition refused by guard", func(mt *mtest.T) {
		svc := NewTransactionService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		changed, err := svc.TransitionStatus(context.Background(), "T1",
			[]models.Status{models.StatusPending}, models.StatusFailed)
		require.NoError(mt, err)
		assert.False(mt, changed)
	})

	mt.Run("transition store failure surfaces", func(mt *mtest.T) {
		svc := NewTransactionService(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := svc.TransitionStatus(context.Background(), "T1",
			[]models.Status{models.StatusPending}, models.StatusCompleted)
		assert.Error(mt, err)
	})
}
