package utils

import (
	"testing"

	"splitledger-backend/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret", AppName: "SplitLedger"}

	userID := uuid.New()
	token, err := GenerateToken(userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret", AppName: "SplitLedger"}

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret", AppName: "SplitLedger"}
	token, err := GenerateToken(uuid.New(), "bob@example.com")
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "different-secret"
	_, err = ParseToken(token)
	assert.Error(t, err)
}
