package auth

import (
	"testing"

	"emporia/middleware"
	"emporia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{
		UserID:   "u123",
		Username: "alice",
		Role:     []string{"user", "admin"},
	}

	token, err := issueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := middleware.ValidateJWT("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"user", "admin"}, claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := middleware.ValidateJWT("")
	assert.Error(t, err)

	_, err = middleware.ValidateJWT("Bearer not-a-token")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := generateRefreshToken()
	require.NoError(t, err)
	b, err := generateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, hashToken("abc"), hashToken("abc"))
	assert.NotEqual(t, hashToken("abc"), hashToken("abd"))
	assert.Len(t, hashToken("abc"), 64)
}
