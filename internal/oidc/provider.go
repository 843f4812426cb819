package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
	"golang.org/x/oauth2"
)

// Provider exchanges credentials at the identity provider's token endpoint
// and turns the returned ID token into an Identity.
type Provider struct {
	issuer   string
	oauth    oauth2.Config
	verifier middleware.Verifier
}

// TokenURL returns the Keycloak-style token endpoint for issuer.
func TokenURL(issuer string) string {
	return strings.TrimRight(issuer, "/") + "/protocol/openid-connect/token"
}

// NewProvider builds a Provider. tokenURL may be empty, in which case the
// Keycloak-style path under issuer is used.
func NewProvider(issuer, tokenURL, clientID, clientSecret string, ver middleware.Verifier) *Provider {
	if tokenURL == "" {
		tokenURL = TokenURL(issuer)
	}
	return &Provider{
		issuer: issuer,
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
			Scopes:       []string{"openid", "profile", "email"},
		},
		verifier: ver,
	}
}

// ExchangeCode redeems an authorization code.
func (p *Provider) ExchangeCode(ctx context.Context, code, redirectURI string) (*Identity, error) {
	cfg := p.oauth
	cfg.RedirectURL = redirectURI
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth code exchange: %w", err)
	}
	return p.identity(ctx, tok)
}

// Password uses the resource-owner password grant (dev and integration setups).
func (p *Provider) Password(ctx context.Context, username, password string) (*Identity, error) {
	tok, err := p.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}
	return p.identity(ctx, tok)
}

func (p *Provider) identity(ctx context.Context, tok *oauth2.Token) (*Identity, error) {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, errors.New("token response has no id_token")
	}
	idt, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return IdentityFromToken(p.issuer, idt)
}
