package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
)

// expirySkew renews access tokens slightly before their exp claim.
const expirySkew = 5 * time.Second

// Session is the locally held login state.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Principal    string    `json:"principal"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type loginResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	Principal        string    `json:"principal"`
	SessionExpiresAt time.Time `json:"sessionExpiresAt"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges an authorization code through the backend and stores the
// resulting session.
func (c *Client) Login(ctx context.Context, code, redirectURI string) (*Session, error) {
	return c.login(ctx, map[string]string{"mode": "auth_code", "code": code, "redirect_uri": redirectURI})
}

// LoginPassword uses the identity provider's password grant (dev/testing).
func (c *Client) LoginPassword(ctx context.Context, username, password string) (*Session, error) {
	return c.login(ctx, map[string]string{"mode": "password", "username": username, "password": password})
}

func (c *Client) login(ctx context.Context, req map[string]string) (*Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp, false); err != nil {
		return nil, err
	}
	principal, err := subject(resp.AccessToken)
	if err != nil {
		return nil, apperror.Upstream("backend returned an unreadable access token", err)
	}
	expires := c.now().Add(MaxSessionTTL)
	if !resp.SessionExpiresAt.IsZero() && resp.SessionExpiresAt.Before(expires) {
		expires = resp.SessionExpiresAt
	}
	s := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Principal:    principal,
		ExpiresAt:    expires,
	}
	c.Restore(s)
	logger.Debugf("client: logged in as %s until %s", principal, expires.Format(time.RFC3339))
	return s, nil
}

// subject reads the principal from an access token without verifying it;
// the backend that issued it does the verification.
func subject(access string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("access token has no subject")
	}
	return claims.Subject, nil
}

// accessExpired reports whether the exp claim of access has passed at now.
// Tokens without a readable exp are left for the backend to judge.
func accessExpired(access string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(expirySkew).Before(claims.ExpiresAt.Time)
}

// bearer returns the access token to send, refreshing it first when expired.
// It returns "" when logged out.
func (c *Client) bearer(ctx context.Context) (string, error) {
	s := c.Session()
	if s == nil {
		return "", nil
	}
	if !accessExpired(s.AccessToken, c.now()) {
		return s.AccessToken, nil
	}
	if err := c.renew(ctx, s.AccessToken); err != nil {
		return "", err
	}
	if s = c.Session(); s == nil {
		return "", nil
	}
	return s.AccessToken, nil
}

// renew refreshes the session unless a concurrent call already replaced stale.
func (c *Client) renew(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if s := c.Session(); s == nil || s.AccessToken != stale {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh swaps the refresh token for a new access token. A rejected refresh
// token drops the session.
func (c *Client) Refresh(ctx context.Context) error {
	s := c.Session()
	if s == nil {
		return apperror.Unauthorized("not logged in", nil)
	}
	var resp refreshResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, map[string]string{"refresh_token": s.RefreshToken}, &resp, false)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			logger.Debugf("client: refresh rejected, dropping session of %s", s.Principal)
			c.clearSession()
		}
		return err
	}
	c.mu.Lock()
	if c.session != nil && c.session.RefreshToken == s.RefreshToken {
		c.session.AccessToken = resp.AccessToken
	}
	c.mu.Unlock()
	return nil
}

// Logout revokes the session on the backend and always clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	s := c.Session()
	if s == nil {
		return nil
	}
	err := c.POST(ctx, "/auth/logout", map[string]string{"refresh_token": s.RefreshToken}, nil)
	c.clearSession()
	return err
}

// IsAuthenticated reports whether a live session is held. An expired session
// is dropped.
func (c *Client) IsAuthenticated() bool {
	return c.Session() != nil
}

// Principal returns the logged-in principal, or "" when logged out.
func (c *Client) Principal() string {
	if s := c.Session(); s != nil {
		return s.Principal
	}
	return ""
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	if !c.now().Before(c.session.ExpiresAt) {
		c.session = nil
		return nil
	}
	cp := *c.session
	return &cp
}

// Restore installs a previously saved session.
func (c *Client) Restore(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil {
		c.session = nil
		return
	}
	cp := *s
	c.session = &cp
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}
