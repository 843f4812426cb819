package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

// DefaultMaxTTL is the identity provider's maximum session lifetime.
const DefaultMaxTTL = 7 * 24 * time.Hour

// Service wraps repository operations with expiry handling.
type Service struct {
	repo   Repository
	maxTTL time.Duration
	now    func() time.Time
}

// NewService returns a Service whose sessions live for maxTTL (DefaultMaxTTL when <= 0).
func NewService(r Repository, maxTTL time.Duration) *Service {
	if maxTTL <= 0 {
		maxTTL = DefaultMaxTTL
	}
	return &Service{repo: r, maxTTL: maxTTL, now: func() time.Time { return time.Now().UTC() }}
}

// MaxTTL is the fixed lifetime given to every new session.
func (s *Service) MaxTTL() time.Duration { return s.maxTTL }

// CreateSession stores a new refresh session for principal.
func (s *Service) CreateSession(ctx context.Context, principal string) (*Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, apperror.Internal("failed to generate refresh token", err)
	}
	now := s.now()
	sess := &Session{
		RefreshToken: hex.EncodeToString(b),
		Principal:    principal,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.maxTTL),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, apperror.Internal("failed to store session", err)
	}
	return sess, nil
}

// ValidateRefresh returns the session for a live refresh token. Expired
// sessions are removed and reported as unauthorized.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, apperror.Internal("failed to load session", err)
	}
	if sess == nil {
		return nil, apperror.Unauthorized("invalid refresh token", nil)
	}
	if sess.Expired(s.now()) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, apperror.Unauthorized("session expired", nil)
	}
	return sess, nil
}

func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	if err := s.repo.DeleteByRefresh(ctx, refresh); err != nil {
		return apperror.Internal("failed to delete session", err)
	}
	return nil
}
