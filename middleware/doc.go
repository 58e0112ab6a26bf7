// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). InitLogger installs a JSON slog handler that tags every
*Context log call with the request id set by WithRequestID.

# Sessions

WithSession resolves the caller from a Bearer token or the polly_session
cookie and stores it in the request context:

	user := middleware.CurrentUser(r) // nil when anonymous

Invalid, expired, or revoked tokens leave the request anonymous.

# Flash Messages

Redirecting handlers leave a one-shot notification for the next page:

	middleware.SetFlash(w, middleware.FlashSuccess, "Vote submitted successfully!")
	flash := middleware.PopFlash(w, r)

# CORS and Security Headers

	handler := middleware.WithSecurityHeaders(middleware.CORS(origins, mux))

CORS with an empty origin list allows any origin without credentials.
Preflight requests are answered with 204.

# Rate Limiting

	mux.HandleFunc("POST /auth/login", middleware.WithRateLimit(limiter, proxies, "login", h.Login))

Requests are keyed by scope and client IP. A nil Limiter disables limiting.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.WriteError(w, err) // status from models.KindOf(err)

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP:

	proxies, err := middleware.ParseTrustedProxies([]string{"10.0.0.0/8"})
	ip := middleware.GetClientIP(r, proxies)

X-Forwarded-For and X-Real-IP are honored only when the direct peer is in
the trusted list; otherwise the peer address is the client.
*/
package middleware
