// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package accounts registers users and checks their credentials. Emails are
// trimmed and lower-cased; passwords are stored as bcrypt hashes. Session
// tokens are issued separately by auth.Sessions.
package accounts
