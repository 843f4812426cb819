package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

const (
	// ClaimsKey holds the verified token claims as map[string]interface{}.
	ClaimsKey = "claims"
	// PrincipalKey holds the caller's principal (the "sub" claim).
	PrincipalKey = "principal"
	// AccessTokenKey holds the raw bearer token.
	AccessTokenKey = "access_token"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Revocations reports access tokens that were revoked before expiry.
type Revocations interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// StaticToken exposes an already-decoded claims value through the Token interface.
func StaticToken(claims interface{}) Token {
	return staticToken{claims: claims}
}

type staticToken struct{ claims interface{} }

func (t staticToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token.
// revoked may be nil.
func AuthMiddleware(ver Verifier, revoked Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, ver, revoked, true); err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a bearer token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(ver Verifier, revoked Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ver == nil {
			c.Next()
			return
		}
		if err := authenticate(c, ver, revoked, false); err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated caller, if any.
func Principal(c *gin.Context) (string, bool) {
	p := c.GetString(PrincipalKey)
	return p, p != ""
}

func authenticate(c *gin.Context, ver Verifier, revoked Revocations, required bool) error {
	header := c.GetHeader("Authorization")
	if header == "" {
		if required {
			return apperror.Unauthorized("missing Authorization header", nil)
		}
		return nil
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return apperror.Unauthorized("invalid Authorization header", nil)
	}
	if ver == nil {
		return apperror.Unauthorized("authentication is not configured", nil)
	}

	if revoked != nil {
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), raw)
		if err != nil {
			return apperror.Unauthorized("token revocation check failed", err)
		}
		if isRevoked {
			return apperror.Unauthorized("token has been revoked", nil)
		}
	}

	tok, err := ver.Verify(c.Request.Context(), raw)
	if err != nil {
		return apperror.Unauthorized("invalid token", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return apperror.Unauthorized("failed to parse claims", err)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return apperror.Unauthorized("token has no subject", nil)
	}

	c.Set(ClaimsKey, claims)
	c.Set(PrincipalKey, sub)
	c.Set(AccessTokenKey, raw)
	return nil
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperror.ToHTTPStatus(err), apperror.ToJSON(err))
}
