package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chainpay/backend/internal/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *auth.Service
	cookieCfg   auth.CookieConfig
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

type challengeRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

type verifyRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Nonce         string `json:"nonce" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

func NewAuthHandler(authService *auth.Service, cookieCfg auth.CookieConfig, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieCfg: cookieCfg, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Challenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	challenge, err := h.authService.IssueChallenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidWallet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_wallet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "challenge_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet_address": challenge.WalletAddress,
		"nonce":          challenge.Nonce,
		"message":        challenge.Message,
		"expires_at":     challenge.ExpiresAt,
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	userAgent := c.GetHeader("User-Agent")
	ipAddress := auth.ClientIP(c.Request)
	tokens, err := h.authService.VerifyWallet(c.Request.Context(), req.WalletAddress, req.Nonce, req.Signature, userAgent, ipAddress)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_failed"})
		return
	}

	auth.SetAuthCookies(c.Writer, h.cookieCfg, tokens.AccessToken, tokens.RefreshToken, h.accessTTL, h.refreshTTL)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":             tokens.User.ID,
			"wallet_address": tokens.User.WalletAddress,
		},
		"session": gin.H{"authenticated": true},
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Request.Cookie(auth.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_refresh_cookie"})
		return
	}

	userAgent := c.GetHeader("User-Agent")
	ipAddress := auth.ClientIP(c.Request)
	tokens, err := h.authService.Refresh(c.Request.Context(), cookie.Value, userAgent, ipAddress)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh_failed"})
		return
	}

	auth.SetAuthCookies(c.Writer, h.cookieCfg, tokens.AccessToken, tokens.RefreshToken, h.accessTTL, h.refreshTTL)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(auth.RefreshCookieName)
	if err == nil && cookie.Value != "" {
		_ = h.authService.Logout(c.Request.Context(), cookie.Value)
	}
	auth.ClearAuthCookies(c.Writer, h.cookieCfg)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.Me(c.Request.Context(), uid.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":             user.ID,
			"wallet_address": user.WalletAddress,
		},
	})
}
