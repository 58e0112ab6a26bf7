// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package revalidate carries the "this page is stale" signal emitted by the
// poll repository after every mutation: PollsPath after a poll is created
// or deleted, PollPath(id) after a vote. LogSignal only logs; RedisSignal
// publishes on a channel that Subscribe consumes.
package revalidate
