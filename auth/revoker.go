// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker tracks revoked session ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// MemoryTokenRevoker keeps revoked ids in-memory (single instance only).
type MemoryTokenRevoker struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func NewMemoryTokenRevoker() *MemoryTokenRevoker {
	return &MemoryTokenRevoker{ids: make(map[string]time.Time)}
}

func (r *MemoryTokenRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	r.ids[id] = time.Now().Add(ttl)
	r.mu.Unlock()
	return nil
}

func (r *MemoryTokenRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.ids[id]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.ids, id)
		return false, nil
	}
	return true, nil
}

// RedisTokenRevoker stores revoked ids in Redis with a TTL, so every
// instance behind a load balancer sees a logout.
type RedisTokenRevoker struct {
	client  redis.UniversalClient
	timeout time.Duration
}

func NewRedisTokenRevoker(client redis.UniversalClient) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client, timeout: 3 * time.Second}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.client.Set(ctx, revocationKey(id), "1", ttl).Err()
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	n, err := r.client.Exists(ctx, revocationKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revocationKey(id string) string {
	return "polly:revoked:" + id
}
