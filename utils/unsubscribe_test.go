package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsubscribeTokenRoundTrip(t *testing.T) {
	token, err := GenerateUnsubscribeToken(42, "dana@example.com", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseUnsubscribeToken(token, "test-secret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
}

func TestUnsubscribeTokenWrongSecret(t *testing.T) {
	token, err := GenerateUnsubscribeToken(42, "dana@example.com", "test-secret")
	require.NoError(t, err)

	_, err = ParseUnsubscribeToken(token, "other-secret")
	assert.Error(t, err)
}

func TestUnsubscribeTokenGarbage(t *testing.T) {
	_, err := ParseUnsubscribeToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
