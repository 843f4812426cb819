package oidc

import (
	"fmt"

	"github.com/skillshare-dao/skillshare-dao/internal/principal"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
)

// PrincipalClaim lets the identity provider assign a principal explicitly.
const PrincipalClaim = "principal"

// Identity is the DAO-facing view of a verified ID token.
type Identity struct {
	Principal string `json:"principal"`
	Subject   string `json:"subject"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// IdentityFromToken maps ID token claims to an Identity. A valid "principal"
// claim wins; otherwise the principal is derived from issuer and subject so
// the same login always yields the same principal.
func IdentityFromToken(issuer string, tok middleware.Token) (*Identity, error) {
	var claims struct {
		Subject   string `json:"sub"`
		Name      string `json:"name"`
		Username  string `json:"preferred_username"`
		Email     string `json:"email"`
		Principal string `json:"principal"`
	}
	if err := tok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("id token has no subject")
	}

	id := &Identity{Subject: claims.Subject, Name: claims.Name, Email: claims.Email}
	if id.Name == "" {
		id.Name = claims.Username
	}
	if claims.Principal != "" {
		if p, err := principal.Decode(claims.Principal); err == nil && !p.IsAnonymous() {
			id.Principal = p.String()
			return id, nil
		}
	}
	id.Principal = principal.SelfAuthenticating([]byte(issuer + "#" + claims.Subject)).String()
	return id, nil
}
