package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const redisKeyPrefix = "testaurant:session:"

// HashStore is the subset of Redis hash commands the redis backend needs.
// *database.Redis satisfies it.
type HashStore interface {
	HGet(ctx context.Context, key, field string) (string, bool, error)
	HSetWithExpire(ctx context.Context, key, field, value string, expiration time.Duration) error
	HReplace(ctx context.Context, key string, fields map[string]string, expiration time.Duration) error
	HDel(ctx context.Context, key string, fields ...string) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisBackend keeps session values in a Redis hash per browser. The browser
// only holds the session id cookie.
type RedisBackend struct {
	ids *idCookie
	rdb HashStore
	ttl time.Duration
}

// NewRedisBackend creates a RedisBackend. Every write slides the expiry to ttl.
func NewRedisBackend(rdb HashStore, cookies sessions.Store, ttl time.Duration) *RedisBackend {
	return &RedisBackend{ids: newIDCookie(cookies), rdb: rdb, ttl: ttl}
}

// Open returns the store bound to the request's session id.
func (b *RedisBackend) Open(w http.ResponseWriter, r *http.Request) (Store, error) {
	return &boundStore{
		ids: b.ids, w: w, r: r,
		open: func(id string) Store {
			return &redisStore{rdb: b.rdb, key: redisKeyPrefix + id, ttl: b.ttl}
		},
	}, nil
}

type redisStore struct {
	rdb HashStore
	key string
	ttl time.Duration
}

func (s *redisStore) Get(ctx context.Context, key Key) (string, bool, error) {
	return s.rdb.HGet(ctx, s.key, string(key))
}

func (s *redisStore) Set(ctx context.Context, key Key, value string) error {
	return s.rdb.HSetWithExpire(ctx, s.key, string(key), value, s.ttl)
}

func (s *redisStore) Delete(ctx context.Context, key Key) error {
	return s.rdb.HDel(ctx, s.key, string(key))
}

// Clear drops the whole hash, which holds only manifest keys.
func (s *redisStore) Clear(ctx context.Context) error {
	return s.rdb.Delete(ctx, s.key)
}

func (s *redisStore) Replace(ctx context.Context, values map[Key]string) error {
	fields := make(map[string]string, len(values))
	for key, v := range values {
		if v != "" {
			fields[string(key)] = v
		}
	}
	return s.rdb.HReplace(ctx, s.key, fields, s.ttl)
}
