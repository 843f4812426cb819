package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillshare-dao/skillshare-dao/internal/profile"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/metrics"
)

// Service defines the profile operations used by the handler layer.
type Service interface {
	Upsert(ctx context.Context, id, name string, skills []string, role profile.Role) (string, error)
	Get(ctx context.Context, id string) (*profile.Profile, error)
	List(ctx context.Context) ([]*profile.Profile, error)
}

// New returns a Service persisting profiles in the given map.
func New(profiles store.Map[profile.Profile]) Service {
	return &profileService{profiles: profiles}
}

type profileService struct {
	profiles store.Map[profile.Profile]
}

// Upsert replaces any record stored at id. Input is not validated here;
// the HTTP layer owns boundary validation.
func (s *profileService) Upsert(ctx context.Context, id, name string, skills []string, role profile.Role) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	p := profile.Profile{
		ID:         id,
		Name:       name,
		Skills:     skills,
		Role:       role,
		Reputation: 0,
	}
	if err := s.profiles.Insert(ctx, id, p); err != nil {
		return "", apperror.Internal("failed to store profile", err)
	}
	metrics.ProfilesUpserted.Inc()
	return fmt.Sprintf("Profile for %s has been added or updated.", name), nil
}

func (s *profileService) Get(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal("failed to load profile", err)
	}
	return &p, nil
}

func (s *profileService) List(ctx context.Context) ([]*profile.Profile, error) {
	all, err := s.profiles.Values(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list profiles", err)
	}
	out := make([]*profile.Profile, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}
