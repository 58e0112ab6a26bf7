// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package revalidate

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// PollsPath is the listing page of all polls.
const PollsPath = "/polls"

// DefaultChannel is the Redis channel RedisSignal publishes to.
const DefaultChannel = "polly:revalidate"

// PollPath is the detail page of one poll.
func PollPath(id string) string {
	return PollsPath + "/" + id
}

// Signal announces that a rendered path is stale and must be refetched.
// Implementations must not fail the mutation that triggered them.
type Signal interface {
	Revalidate(ctx context.Context, path string)
}

// LogSignal records revalidations in the log only.
type LogSignal struct{}

func (LogSignal) Revalidate(ctx context.Context, path string) {
	slog.DebugContext(ctx, "path revalidated", "path", path)
}

// Multi fans a revalidation out to several signals.
type Multi []Signal

func (m Multi) Revalidate(ctx context.Context, path string) {
	for _, s := range m {
		s.Revalidate(ctx, path)
	}
}

// RedisSignal publishes stale paths on a Redis channel so caches in
// front of every instance can drop them.
type RedisSignal struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
}

func NewRedisSignal(client redis.UniversalClient, channel string) *RedisSignal {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSignal{client: client, channel: channel, timeout: 2 * time.Second}
}

func (s *RedisSignal) Revalidate(ctx context.Context, path string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, path).Err(); err != nil {
		slog.WarnContext(ctx, "failed to publish revalidation", "path", path, "error", err)
	}
}

// Subscribe calls fn with every path published on channel until ctx is
// cancelled. It returns once the subscription is confirmed and delivers
// messages from a background goroutine.
func Subscribe(ctx context.Context, client redis.UniversalClient, channel string, fn func(path string)) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(msg.Payload)
			}
		}
	}()
	return nil
}
