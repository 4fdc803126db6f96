package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens-32b",
		RefreshSecret:          "test-secret-key-for-refresh-tokens-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "joyeria-test",
		MaxRefreshCount:        3,
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	t.Run("should generate a valid token pair", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID:   userID,
			Username: "mvargas",
			Role:     "ventas",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
	})

	t.Run("should embed user claims in the access token", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID:   userID,
			Username: "mvargas",
			Role:     "ventas",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "mvargas", claims.Username)
		assert.Equal(t, "ventas", claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("refresh token should not carry role or username", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID:   userID,
			Username: "mvargas",
			Role:     "ventas",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Empty(t, claims.Username)
		assert.Empty(t, claims.Role)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	t.Run("should reject a refresh token used as access token", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "u"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject a garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-for-access-tokens-32b",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "joyeria-test",
			MaxRefreshCount:        3,
		})
		pair, err := expired.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "u"})
		require.NoError(t, err)

		_, err = expired.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("should reject a token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret-key-32b",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "joyeria-test",
			MaxRefreshCount:        3,
		})
		pair, err := other.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "u"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	t.Run("should rotate the pair and increment the refresh count", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID:   userID,
			Username: "mvargas",
			Role:     "ventas",
		})
		require.NoError(t, err)

		rotated, err := svc.RefreshTokenPair(pair.RefreshToken, "mvargas", "ventas")
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(rotated.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.RefreshCount)

		accessClaims, err := svc.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "ventas", accessClaims.Role)
	})

	t.Run("should stop rotating past the max refresh count", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "u"})
		require.NoError(t, err)

		current := pair.RefreshToken
		for i := 0; i < 3; i++ {
			rotated, err := svc.RefreshTokenPair(current, "u", "")
			require.NoError(t, err)
			current = rotated.RefreshToken
		}

		_, err = svc.RefreshTokenPair(current, "u", "")
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("should reject an access token used for refresh", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "u"})
		require.NoError(t, err)

		_, err = svc.RefreshTokenPair(pair.AccessToken, "u", "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
