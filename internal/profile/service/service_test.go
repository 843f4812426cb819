package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skillshare-dao/skillshare-dao/internal/profile"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/stretchr/testify/require"
)

func TestUpsertTwiceKeepsLatest(t *testing.T) {
	st := store.NewMemoryMap[profile.Profile]()
	svc := New(st)
	ctx := context.Background()

	msg, err := svc.Upsert(ctx, "alice", "Alice", []string{"go"}, profile.RoleLearner)
	require.NoError(t, err)
	require.Equal(t, "Profile for Alice has been added or updated.", msg)

	_, err = svc.Upsert(ctx, "alice", "Alice B.", []string{"rust", "sql"}, profile.RoleProfessional)
	require.NoError(t, err)

	require.Equal(t, 1, st.Len())
	got, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alice B.", got.Name)
	require.Equal(t, []string{"rust", "sql"}, got.Skills)
	require.Equal(t, profile.RoleProfessional, got.Role)
	require.Zero(t, got.Reputation)
}

func TestUpsertAcceptsEmptyInput(t *testing.T) {
	svc := New(store.NewMemoryMap[profile.Profile]())
	ctx := context.Background()

	msg, err := svc.Upsert(ctx, "", "", nil, "")
	require.NoError(t, err)
	require.Equal(t, "Profile for  has been added or updated.", msg)

	got, err := svc.Get(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, got.Skills)
}

func TestGetMissing(t *testing.T) {
	svc := New(store.NewMemoryMap[profile.Profile]())
	_, err := svc.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

type failingMap struct{ store.Map[profile.Profile] }

func (failingMap) Insert(context.Context, string, profile.Profile) error {
	return errors.New("disk full")
}

func TestUpsertStoreFailure(t *testing.T) {
	svc := New(failingMap{store.NewMemoryMap[profile.Profile]()})
	_, err := svc.Upsert(context.Background(), "a", "A", nil, profile.RoleLearner)
	require.ErrorIs(t, err, apperror.ErrInternal)
}

func TestListOrderedByID(t *testing.T) {
	svc := New(store.NewMemoryMap[profile.Profile]())
	ctx := context.Background()
	for _, id := range []string{"carol", "alice", "bob"} {
		_, err := svc.Upsert(ctx, id, id, nil, profile.RoleLearner)
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "alice", list[0].ID)
	require.Equal(t, "carol", list[2].ID)
}
