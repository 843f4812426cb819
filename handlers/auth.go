package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/oidc"
	"github.com/skillshare-dao/skillshare-dao/internal/sessions"
	"github.com/skillshare-dao/skillshare-dao/internal/tokens"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
)

// LoginRequest used for auth-code login and password-mode login (dev/testing)
type LoginRequest struct {
	Mode        string `json:"mode" binding:"required,oneof=password auth_code"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Code        string `json:"code"`         // authorization code
	RedirectURI string `json:"redirect_uri"` // redirect uri used in auth code flow
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// IdentityProvider resolves credentials into a verified identity.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*oidc.Identity, error)
	Password(ctx context.Context, username, password string) (*oidc.Identity, error)
}

// AuthHandler holds dependencies
type AuthHandler struct {
	idp       IdentityProvider
	sessions  *sessions.Service
	tokens    *tokens.Issuer
	blacklist sessions.Blacklist
}

// NewAuthHandler wires the login flow. idp may be nil when no identity
// provider is configured; login then answers 503.
func NewAuthHandler(idp IdentityProvider, s *sessions.Service, t *tokens.Issuer, bl sessions.Blacklist) *AuthHandler {
	return &AuthHandler{idp: idp, sessions: s, tokens: t, blacklist: bl}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg gin.IRouter) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login exchanges credentials with the identity provider, opens a refresh
// session bounded by the maximum session lifetime and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.InvalidInput(err.Error(), err))
		return
	}
	if h.idp == nil {
		_ = c.Error(apperror.Unavailable("identity provider not configured"))
		return
	}

	var (
		id  *oidc.Identity
		err error
	)
	ctx := c.Request.Context()
	if req.Mode == "password" {
		id, err = h.idp.Password(ctx, req.Username, req.Password)
	} else {
		if req.Code == "" || req.RedirectURI == "" {
			_ = c.Error(apperror.InvalidInput("code and redirect_uri required for auth_code mode", nil))
			return
		}
		logger.Debugf("Login(auth_code): code length=%d redirect_uri=%s", len(req.Code), req.RedirectURI)
		id, err = h.idp.ExchangeCode(ctx, req.Code, req.RedirectURI)
	}
	if err != nil {
		logger.Warnf("login (%s) failed: %v", req.Mode, err)
		_ = c.Error(apperror.Unauthorized("authentication failed", err))
		return
	}

	sess, err := h.sessions.CreateSession(ctx, id.Principal)
	if err != nil {
		_ = c.Error(err)
		return
	}
	access, err := h.tokens.GenerateAccessToken(id.Principal, id.Name)
	if err != nil {
		_ = c.Error(apperror.Internal("failed to create access token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":      access,
		"refreshToken":     sess.RefreshToken,
		"principal":        id.Principal,
		"name":             id.Name,
		"expiresIn":        int(h.tokens.TTL().Seconds()),
		"sessionExpiresAt": sess.ExpiresAt,
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.InvalidInput(err.Error(), err))
		return
	}
	sess, err := h.sessions.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}
	access, err := h.tokens.GenerateAccessToken(sess.Principal, "")
	if err != nil {
		_ = c.Error(apperror.Internal("failed to create access token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "principal": sess.Principal, "expiresIn": int(h.tokens.TTL().Seconds())})
}

// Logout deletes the refresh session and blacklists the presented access
// token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.InvalidInput(err.Error(), err))
		return
	}
	if raw, ok := bearer(c); ok && h.blacklist != nil {
		// tokens that no longer verify are already useless
		if claims, err := h.tokens.Parse(raw); err == nil && claims.ExpiresAt != nil {
			if err := h.blacklist.Revoke(c.Request.Context(), raw, time.Until(claims.ExpiresAt.Time)); err != nil {
				_ = c.Error(apperror.Internal("failed to blacklist access token", err))
				return
			}
		}
	}
	if err := h.sessions.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func bearer(c *gin.Context) (string, bool) {
	if v := c.GetString(middleware.AccessTokenKey); v != "" {
		return v, true
	}
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "", false
	}
	return h[len(prefix):], true
}
