package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

func TestEncode(t *testing.T) {
	amount, err := models.AmountFromString("80.00")
	require.NoError(t, err)

	body, err := Encode(models.ReconciliationEvent{
		EventID:       "evt_1",
		Kind:          "payment_intent.succeeded",
		TransactionID: "T1",
		PaymentID:     "P1",
		UserID:        "U1",
		Status:        models.StatusCompleted,
		Amount:        amount,
		Currency:      "USD",
		OccurredAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "evt_1", decoded["eventId"])
	assert.Equal(t, "completed", decoded["status"])
	assert.Equal(t, "80", decoded["amount"])
	assert.Equal(t, "2026-01-02T03:04:05Z", decoded["occurredAt"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), models.ReconciliationEvent{}))
}
