package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAmountStoredAsDecimal128(t *testing.T) {
	amount, err := AmountFromString("125.50")
	require.NoError(t, err)

	raw, err := bson.Marshal(Transaction{TransactionID: "T1", Amount: amount})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	stored, ok := doc["amount"].(primitive.Decimal128)
	require.True(t, ok, "amount should be stored as Decimal128, got %T", doc["amount"])
	assert.Equal(t, "125.5", stored.String())

	var decoded Transaction
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.True(t, amount.Equal(decoded.Amount.Decimal))
}

func TestAmountDecodesLegacyDoubles(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"transactionId": "T1", "amount": 42.25})
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, "42.25", decoded.Amount.String())
}

func TestAmountJSONAndMinorUnits(t *testing.T) {
	amount, err := AmountFromString("19.999")
	require.NoError(t, err)

	out, err := json.Marshal(amount)
	require.NoError(t, err)
	assert.JSONEq(t, `"19.999"`, string(out))
	assert.Equal(t, int64(2000), amount.MinorUnits("USD"))
}

func TestMinorUnitsFollowCurrencyExponent(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"12.50", "USD", 1250},
		{"12.50", "eur", 1250},
		{"100", "JPY", 100},
		{"100", "jpy", 100},
		{"5000", "KRW", 5000},
		{"99.5", "VND", 100},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.currency, func(t *testing.T) {
			amount, err := AmountFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount.MinorUnits(tt.currency))
		})
	}

	assert.Equal(t, int32(0), CurrencyExponent("JPY"))
	assert.Equal(t, int32(2), CurrencyExponent("USD"))
}

func TestStatusAndTypeValidation(t *testing.T) {
	assert.True(t, StatusRefunded.Valid())
	assert.False(t, Status("settled").Valid())
	assert.True(t, TypeShiftPayment.Valid())
	assert.False(t, TransactionType("tip").Valid())
	assert.True(t, RoleWorker.Valid())
	assert.False(t, UserRole("guest").Valid())
}
