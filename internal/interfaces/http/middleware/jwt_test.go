package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/infrastructure/auth"
	"github.com/joyeria/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens-32b",
		RefreshSecret:          "test-secret-key-for-refresh-tokens-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "joyeria-test",
		MaxRefreshCount:        3,
	})
}

func authTestRouter(cfg JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(cfg))
	r.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  id.String(),
			"username": GetUsername(c),
			"role":     GetRole(c),
		})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   userID,
		Username: "mvargas",
		Role:     "ventas",
	})
	require.NoError(t, err)

	t.Run("should allow a valid access token and expose claims", func(t *testing.T) {
		r := authTestRouter(JWTConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "mvargas")
		assert.Contains(t, w.Body.String(), "ventas")
	})

	t.Run("should reject a missing authorization header", func(t *testing.T) {
		r := authTestRouter(JWTConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("should reject a garbage token", func(t *testing.T) {
		r := authTestRouter(JWTConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("should reject a refresh token used as access token", func(t *testing.T) {
		r := authTestRouter(JWTConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject a blacklisted token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		r := authTestRouter(JWTConfig{JWTService: svc, TokenBlacklist: blacklist})

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject tokens issued before a user-wide invalidation", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		r := authTestRouter(JWTConfig{JWTService: svc, TokenBlacklist: blacklist})

		otherID := uuid.New()
		oldPair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:   otherID,
			Username: "jromero",
			Role:     "cliente",
		})
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), otherID.String(), time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+oldPair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
