// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, password hashing, and session tokens.

# IDs

GenerateID returns random hex strings used for request ids and session ids:

	id, err := auth.GenerateID(16) // 32 hex chars

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrPasswordMismatch on a wrong password

# Sessions

Sessions are HS256 JWTs carrying the user id (sub), email, and a random
session id (jti):

	sessions := auth.NewSessions(secret, 24*time.Hour, revoker)
	token, session, err := sessions.Issue(userID, email)
	session, err = sessions.Verify(ctx, token)
	err = sessions.Revoke(ctx, token)

Verify rejects other signing algorithms, wrong issuer or audience, expired
tokens, and revoked session ids.

# Revocation

Logout stores the session id in a TokenRevoker until the token expires:

  - MemoryTokenRevoker: single process
  - RedisTokenRevoker: shared across instances (key polly:revoked:<jti>)
*/
package auth
