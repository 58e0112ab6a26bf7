// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit provides a Redis fixed-window limiter used to throttle
// login, registration, and vote submissions per client.
package ratelimit
