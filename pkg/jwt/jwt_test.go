package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "jane@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "jane@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.NotEmpty(t, claims.ID, "tokens carry a jti for revocation")

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, refreshClaims.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, time.Hour)

	pair, err := svc.GenerateTokenPair(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, refresh.TokenType)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, -time.Minute)

	pair, err := svc.GenerateTokenPair(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, time.Hour)
	other := NewJWTService("other-secret", 15*time.Minute, time.Hour)

	pair, err := svc.GenerateTokenPair(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
