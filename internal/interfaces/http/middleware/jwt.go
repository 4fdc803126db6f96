package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/infrastructure/auth"
	"github.com/joyeria/backend/internal/infrastructure/logger"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys for authenticated request data
const (
	ClaimsKey     = "jwt_claims"
	UserIDKey     = "jwt_user_id"
	UsernameKey   = "jwt_username"
	RoleKey       = "jwt_role"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuth returns middleware that requires a valid access token. Revoked
// tokens and invalidated user sessions are rejected when a blacklist is
// configured; blacklist lookup failures fail open so an unavailable Redis
// does not lock everyone out.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "malformed authorization header")
			return
		}

		tokenString := strings.TrimPrefix(header, bearerPrefix)
		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil {
			ctx := c.Request.Context()

			if claims.ID != "" {
				blacklisted, blErr := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
				if blErr != nil {
					logBlacklistFailure(cfg, claims.ID, blErr)
				} else if blacklisted {
					abortUnauthorized(c, cfg, auth.ErrTokenBlacklisted, "token revoked")
					return
				}
			}

			if claims.UserID != "" {
				invalidated, blErr := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
				if blErr != nil {
					logBlacklistFailure(cfg, claims.UserID, blErr)
				} else if invalidated {
					abortUnauthorized(c, cfg, auth.ErrTokenBlacklisted, "session invalidated")
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func logBlacklistFailure(cfg JWTConfig, key string, err error) {
	if cfg.Logger != nil {
		cfg.Logger.Error("token blacklist lookup failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTConfig, err error, detail string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication rejected",
			zap.Error(err),
			zap.String("detail", detail),
			zap.String("path", c.Request.URL.Path))
	}

	code := "INVALID_TOKEN"
	message := "Invalid token"
	switch err {
	case auth.ErrExpiredToken:
		message = "Token has expired"
	case auth.ErrTokenBlacklisted:
		message = "Token has been revoked"
	case auth.ErrInvalidToken:
		if detail == "missing authorization header" {
			code = "UNAUTHORIZED"
			message = "Authentication required"
		}
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetClaims retrieves the validated claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		if s, ok := v.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				return id, true
			}
		}
	}
	return uuid.Nil, false
}

// GetUsername returns the authenticated user's username
func GetUsername(c *gin.Context) string {
	if v, exists := c.Get(UsernameKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRole returns the authenticated user's role claim
func GetRole(c *gin.Context) string {
	if v, exists := c.Get(RoleKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
