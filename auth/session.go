// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer   = "polly"
	sessionAudience = "polly-web"
	sessionLeeway   = 30 * time.Second
)

// Session is the verified content of a session token.
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret  []byte
	ttl     time.Duration
	revoker TokenRevoker
	now     func() time.Time
}

// NewSessions builds a session issuer. revoker may be nil, in which case
// logout cannot invalidate a token before it expires.
func NewSessions(secret string, ttl time.Duration, revoker TokenRevoker) *Sessions {
	return &Sessions{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}
}

// Issue signs a token for the user.
func (s *Sessions) Issue(userID, email string) (string, Session, error) {
	jti, err := GenerateID(12)
	if err != nil {
		return "", Session{}, err
	}
	now := s.now().UTC()
	expires := now.Add(s.ttl)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, Session{ID: jti, UserID: userID, Email: email, ExpiresAt: expires}, nil
}

// Verify checks the signature, standard claims and revocation state.
// Any failure returns an error wrapping ErrInvalidToken or ErrRevokedToken,
// or the revoker's error if revocation could not be checked.
func (s *Sessions) Verify(ctx context.Context, token string) (Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return Session{}, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Session{}, fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return Session{}, ErrRevokedToken
		}
	}

	return Session{
		ID:        claims.ID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the token until it would have expired.
// Tokens that do not verify are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if s.revoker == nil {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	return s.revoker.Revoke(ctx, claims.ID, ttl)
}

func (s *Sessions) parse(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(sessionLeeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", ErrInvalidToken)
	}
	return claims, nil
}
