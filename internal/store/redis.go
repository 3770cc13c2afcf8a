package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores documents as plain string keys under a common prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client, prefix), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns the raw document stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// PutMany writes all documents in a MULTI/EXEC block.
func (r *Redis) PutMany(ctx context.Context, docs map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range docs {
			pipe.Set(ctx, r.prefix+key, value, 0)
		}
		return nil
	})
	return err
}

// Delete removes the given keys in a MULTI/EXEC block.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, full...)
		return nil
	})
	return err
}
