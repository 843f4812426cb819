package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisMap keeps a whole map in one Redis hash; field = key, value = JSON.
type RedisMap[V any] struct {
	client *redis.Client
	hash   string
}

// NewRedisMap binds a map to the given hash key, e.g. "dao:proposals".
func NewRedisMap[V any](client *redis.Client, hash string) *RedisMap[V] {
	return &RedisMap[V]{client: client, hash: hash}
}

func (r *RedisMap[V]) Get(ctx context.Context, key string) (V, error) {
	var v V
	b, err := r.client.HGet(ctx, r.hash, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return v, ErrNotFound
		}
		return v, err
	}
	err = json.Unmarshal(b, &v)
	return v, err
}

func (r *RedisMap[V]) Insert(ctx context.Context, key string, v V) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.hash, key, b).Err()
}

func (r *RedisMap[V]) Values(ctx context.Context) ([]V, error) {
	all, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		var v V
		if err := json.Unmarshal([]byte(all[k]), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
