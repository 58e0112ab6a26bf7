// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "polly_flash"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash stores a notification for the next request.
func SetFlash(w http.ResponseWriter, kind, message string) {
	if message == "" {
		return
	}
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "\n" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notification, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return Flash{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Flash{}
	}
	kind, message, ok := strings.Cut(string(raw), "\n")
	if !ok || (kind != FlashSuccess && kind != FlashError) {
		return Flash{}
	}
	return Flash{Kind: kind, Message: message}
}
