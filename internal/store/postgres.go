package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const kvTable = "kv_entries"

// Schema creates the shared table used by every PostgresMap namespace.
// Values are the encoded JSON bytes; JSONB would reject the \u0000 escape
// that user supplied strings may carry.
const Schema = `CREATE TABLE IF NOT EXISTS kv_entries (
	namespace TEXT  NOT NULL,
	key       TEXT  NOT NULL,
	value     BYTEA NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// EnsureSchema applies Schema; it is idempotent.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}

// PostgresMap stores a map as rows of kv_entries sharing one namespace.
type PostgresMap[V any] struct {
	db        *sqlx.DB
	namespace string
	sb        sq.StatementBuilderType
}

func NewPostgresMap[V any](db *sqlx.DB, namespace string) *PostgresMap[V] {
	return &PostgresMap[V]{
		db:        db,
		namespace: namespace,
		sb:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (p *PostgresMap[V]) Get(ctx context.Context, key string) (V, error) {
	var v V
	query, args, err := p.sb.Select("value").From(kvTable).
		Where("namespace = ? AND key = ?", p.namespace, key).ToSql()
	if err != nil {
		return v, err
	}
	var raw []byte
	if err := p.db.GetContext(ctx, &raw, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, ErrNotFound
		}
		return v, err
	}
	err = json.Unmarshal(raw, &v)
	return v, err
}

func (p *PostgresMap[V]) Insert(ctx context.Context, key string, v V) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	query, args, err := p.sb.Insert(kvTable).
		Columns("namespace", "key", "value").
		Values(p.namespace, key, b).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, query, args...)
	return err
}

func (p *PostgresMap[V]) Values(ctx context.Context) ([]V, error) {
	query, args, err := p.sb.Select("value").From(kvTable).
		Where("namespace = ?", p.namespace).OrderBy("key ASC").ToSql()
	if err != nil {
		return nil, err
	}
	var rows [][]byte
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]V, 0, len(rows))
	for _, raw := range rows {
		var v V
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
