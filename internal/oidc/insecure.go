package oidc

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
)

// InsecureVerifier implements a verifier that does NOT validate signatures.
// Only intended for local/integration tests under explicit opt-in
// (ALLOW_INSECURE_TOKEN=true).
type InsecureVerifier struct{}

func NewInsecureVerifier() *InsecureVerifier { return &InsecureVerifier{} }

func (v *InsecureVerifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	return middleware.StaticToken(map[string]interface{}(claims)), nil
}
