package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyusha/uink-backend/internal/auth"
	_ "github.com/Denyusha/uink-backend/testing"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	token, err := tokens.Issue("user-1", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ann", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := auth.NewTokens("secret", -time.Minute)

	token, err := tokens.Issue("user-1", "Ann")
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	token, err := tokens.Issue("user-1", "Ann")
	require.NoError(t, err)

	// Alter one byte of the signed payload.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = tokens.Verify(tampered)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issued, err := auth.NewTokens("secret-a", time.Hour).Issue("user-1", "Ann")
	require.NoError(t, err)

	_, err = auth.NewTokens("secret-b", time.Hour).Verify(issued)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	_, err := tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}
