package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIndexModels(t *testing.T) {
	models := indexModels()

	for _, name := range []string{Transactions, Payments, Wallets, Users, Notifications} {
		assert.NotEmpty(t, models[name], name)
	}

	unique := models[Transactions][0]
	assert.Equal(t, bson.D{{Key: "transactionId", Value: 1}}, unique.Keys)
	require.NotNil(t, unique.Options.Unique)
	assert.True(t, *unique.Options.Unique)
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates every collection's indexes", func(mt *mtest.T) {
		for range indexModels() {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}

		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))

		created := 0
		for started := mt.GetStartedEvent(); started != nil; started = mt.GetStartedEvent() {
			if started.CommandName == "createIndexes" {
				created++
			}
		}
		assert.Equal(mt, len(indexModels()), created)
	})

	mt.Run("surfaces failures", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		err := EnsureIndexes(context.Background(), mt.DB)
		assert.ErrorContains(mt, err, "failed to create indexes")
	})
}
