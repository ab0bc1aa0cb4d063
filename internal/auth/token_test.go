package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Email: "ana@example.com",
		Role:  models.RoleEmployer,
	}
}

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret-key-for-jwt-signing", "shiftpay-test", time.Hour)
	user := testUser()

	before := time.Now()
	token, expiresAt, err := m.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.RoleEmployer, claims.Role)
	assert.Equal(t, "shiftpay-test", claims.Issuer)
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("test-secret-key-for-jwt-signing", "shiftpay-test", time.Hour)
	valid, _, err := m.Issue(testUser())
	require.NoError(t, err)

	expired, _, err := NewTokenManager("test-secret-key-for-jwt-signing", "shiftpay-test", -time.Minute).Issue(testUser())
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenManager("test-secret-key-for-jwt-signing", "someone-else", time.Hour).Issue(testUser())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		m     *TokenManager
	}{
		{"wrong secret", valid, NewTokenManager("wrong-secret", "shiftpay-test", time.Hour)},
		{"expired", expired, m},
		{"other issuer", otherIssuer, m},
		{"malformed", "invalid.token.string", m},
		{"empty", "", m},
		{"unsigned", none, m},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.m.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{UserID: "u1"})
	claims, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
}
