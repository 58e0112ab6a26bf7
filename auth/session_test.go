// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const testSecret = "test-session-secret-0123456789"

func TestSessions_IssueAndVerify(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, NewMemoryTokenRevoker())

	token, issued, err := s.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("Issue() token %q is not a JWT", token)
	}

	got, err := s.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.UserID != "user-1" || got.Email != "ada@example.com" {
		t.Errorf("Verify() = %+v, want user-1/ada@example.com", got)
	}
	if got.ID != issued.ID {
		t.Errorf("Verify() id = %s, want %s", got.ID, issued.ID)
	}
}

func TestSessions_VerifyRejects(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, nil)
	valid, _, err := s.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}

	other := NewSessions("another-secret-0123456789", time.Hour, nil)
	foreign, _, _ := other.Issue("user-1", "ada@example.com")

	// payload of one token with the signature of another
	vp, fp := strings.Split(valid, "."), strings.Split(foreign, ".")
	tampered := vp[0] + "." + fp[1] + "." + vp[2]

	expired := NewSessions(testSecret, time.Hour, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("user-1", "ada@example.com")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    sessionIssuer,
		Audience:  jwt.ClaimStrings{sessionAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		ID:        "abc",
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered", tampered},
		{"wrong secret", foreign},
		{"expired", old},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestSessions_Revoke(t *testing.T) {
	tests := []struct {
		name    string
		revoker func(t *testing.T) TokenRevoker
	}{
		{"memory", func(t *testing.T) TokenRevoker { return NewMemoryTokenRevoker() }},
		{"redis", func(t *testing.T) TokenRevoker {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { client.Close() })
			return NewRedisTokenRevoker(client)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewSessions(testSecret, time.Hour, tt.revoker(t))

			token, _, err := s.Issue("user-1", "ada@example.com")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := s.Verify(ctx, token); err != nil {
				t.Fatalf("Verify() before revoke error = %v", err)
			}

			if err := s.Revoke(ctx, token); err != nil {
				t.Fatalf("Revoke() error = %v", err)
			}
			if _, err := s.Verify(ctx, token); !errors.Is(err, ErrRevokedToken) {
				t.Errorf("Verify() after revoke error = %v, want ErrRevokedToken", err)
			}

			// A second session for the same user is unaffected
			fresh, _, _ := s.Issue("user-1", "ada@example.com")
			if _, err := s.Verify(ctx, fresh); err != nil {
				t.Errorf("Verify() of fresh token error = %v", err)
			}
		})
	}
}

func TestSessions_RevokeIgnoresInvalidToken(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, NewMemoryTokenRevoker())
	if err := s.Revoke(context.Background(), "garbage"); err != nil {
		t.Errorf("Revoke() of invalid token error = %v", err)
	}
}

func TestSessions_RevokerUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewSessions(testSecret, time.Hour, NewRedisTokenRevoker(client))
	token, _, err := s.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}

	mr.Close()

	if _, err := s.Verify(context.Background(), token); err == nil {
		t.Error("Verify() should fail when revocation cannot be checked")
	}
}

func TestMemoryTokenRevoker_Expiry(t *testing.T) {
	r := NewMemoryTokenRevoker()
	ctx := context.Background()

	if err := r.Revoke(ctx, "gone", 0); err != nil {
		t.Fatal(err)
	}
	if revoked, _ := r.IsRevoked(ctx, "gone"); revoked {
		t.Error("zero TTL should not revoke")
	}

	if err := r.Revoke(ctx, "short", time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if revoked, _ := r.IsRevoked(ctx, "short"); revoked {
		t.Error("revocation should lapse after its TTL")
	}
}
