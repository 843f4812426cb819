package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mr "github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string          `json:"name" bson:"name"`
	Tags  []string        `json:"tags,omitempty" bson:"tags,omitempty"`
	Flags map[string]bool `json:"flags,omitempty" bson:"flags,omitempty"`
}

// exerciseMap runs the shared contract every backend must satisfy.
func exerciseMap(t *testing.T, m Map[item]) {
	t.Helper()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Insert(ctx, "b", item{Name: "B"}))
	require.NoError(t, m.Insert(ctx, "a", item{Name: "A", Tags: []string{"go", "sql"}}))
	require.NoError(t, m.Insert(ctx, "c", item{Name: "C", Flags: map[string]bool{"x": true}}))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []string{"go", "sql"}, got.Tags)

	// overwrite keeps exactly one entry
	require.NoError(t, m.Insert(ctx, "a", item{Name: "A2"}))
	got, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "A2", got.Name)
	require.Empty(t, got.Tags)

	all, err := m.Values(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"A2", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})

	// returned values never alias stored state
	c, err := m.Get(ctx, "c")
	require.NoError(t, err)
	c.Flags["x"] = false
	c2, err := m.Get(ctx, "c")
	require.NoError(t, err)
	require.True(t, c2.Flags["x"])
}

func TestMemoryMap(t *testing.T) {
	m := NewMemoryMap[item]()
	exerciseMap(t, m)
	require.Equal(t, 3, m.Len())
}

func TestRedisMap(t *testing.T) {
	s, err := mr.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	exerciseMap(t, NewRedisMap[item](client, "test:items"))

	// independent hashes do not see each other
	other := NewRedisMap[item](client, "test:other")
	vals, err := other.Values(context.Background())
	require.NoError(t, err)
	require.Empty(t, vals)
}

func TestPostgresMap_GetInsertValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	m := NewPostgresMap[item](sqlx.NewDb(db, "pgx"), "profiles")
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO kv_entries .* ON CONFLICT \(namespace, key\) DO UPDATE SET value = EXCLUDED.value`).
		WithArgs("profiles", "alice", []byte(`{"name":"Alice"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, m.Insert(ctx, "alice", item{Name: "Alice"}))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2")).
		WithArgs("profiles", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"name":"Alice"}`)))
	got, err := m.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2")).
		WithArgs("profiles", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err = m.Get(ctx, "bob")
	require.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE namespace = $1 ORDER BY key ASC")).
		WithArgs("profiles").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"name":"Alice"}`)).
			AddRow([]byte(`{"name":"Carol"}`)))
	all, err := m.Values(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Carol", all[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMap_NULInValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	m := NewPostgresMap[item](sqlx.NewDb(db, "pgx"), "profiles")
	ctx := context.Background()

	stored := []byte(`{"name":"a\u0000b"}`)
	mock.ExpectExec(`INSERT INTO kv_entries`).
		WithArgs("profiles", "nul", stored).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, m.Insert(ctx, "nul", item{Name: "a\x00b"}))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2")).
		WithArgs("profiles", "nul").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(stored))
	got, err := m.Get(ctx, "nul")
	require.NoError(t, err)
	require.Equal(t, "a\x00b", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Contains(t, Schema, "value     BYTEA")
	require.NotContains(t, Schema, "JSONB")
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(db, "pgx")))
	require.NoError(t, mock.ExpectationsWereMet())
}
