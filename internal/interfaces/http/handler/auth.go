package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/joyeria/backend/internal/application/identity"
	"github.com/joyeria/backend/internal/infrastructure/config"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
)

const refreshCookieName = "refresh_token"

// AuthHandler exposes registration, login and session management
type AuthHandler struct {
	BaseHandler
	auth   *identityapp.AuthService
	cookie config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Register creates a customer account with its linked customer record
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// CreateStaff creates a back-office account. Admin only.
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req identityapp.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login authenticates a user and issues a token pair. The refresh token
// is additionally set as an HTTP-only cookie for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken, resp.RefreshTokenExpiresAt)
	h.Success(c, resp)
}

// Refresh rotates a token pair. The refresh token is read from the JSON
// body or, for browser clients, from the cookie set at login.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&body)

	token := body.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshCookieName)
	}
	if token == "" {
		h.Unauthorized(c, "Refresh token required")
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), identityapp.RefreshRequest{RefreshToken: token})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken, resp.RefreshTokenExpiresAt)
	h.Success(c, resp)
}

// Logout revokes the current access token and the presented refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&body)

	refreshToken := body.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshCookieName)
	}

	if err := h.auth.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.NoContent(c)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.auth.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword replaces the caller's password and invalidates other sessions
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DisableUser deactivates an account and revokes its sessions. Admin only.
func (h *AuthHandler) DisableUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.auth.DisableUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(refreshCookieName, token,
		int(time.Until(expiresAt).Seconds()),
		h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(refreshCookieName, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) sameSite() http.SameSite {
	switch h.cookie.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
