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

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}

func TestUserService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		svc := NewUserService(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: shiftpay.user index: email_1",
		}))

		_, err := svc.CreateUser(context.Background(), &models.User{Email: "a@b.co", Role: models.RoleWorker}, "pw123456")
		assert.ErrorIs(mt, err, ErrEmailTaken)
	})

	mt.Run("login checks password", func(mt *mtest.T) {
		svc := NewUserService(mt.DB)
		hash, err := HashPassword("pw123456")
		require.NoError(mt, err)
		doc := bson.D{
			{Key: "email", Value: "a@b.co"},
			{Key: "password", Value: hash},
			{Key: "role", Value: "worker"},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "shiftpay.user", mtest.FirstBatch, doc),
			mtest.CreateCursorResponse(0, "shiftpay.user", mtest.FirstBatch, doc),
		)

		user, err := svc.Login(context.Background(), " A@B.co ", "pw123456")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleWorker, user.Role)

		_, err = svc.Login(context.Background(), "a@b.co", "wrong")
		assert.ErrorIs(mt, err, ErrInvalidCredentials)
	})

	mt.Run("login unknown email", func(mt *mtest.T) {
		svc := NewUserService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shiftpay.user", mtest.FirstBatch))

		_, err := svc.Login(context.Background(), "nobody@b.co", "pw")
		assert.ErrorIs(mt, err, ErrInvalidCredentials)
	})
}
