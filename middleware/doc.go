// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides outbound HTTP middleware for the API client and
the JSON helpers shared with the fake backend used in tests.

# Transport Chain

Middleware wraps an http.RoundTripper. Chain applies them in order, so the
first one listed sees the request first:

	rt := middleware.Chain(http.DefaultTransport,
		middleware.WithRequestID,
		middleware.WithLogging,
		middleware.WithMetrics(m),
		middleware.WithBearer(tokens),
		middleware.WithUnauthorized(onExpired),
	)

# Request IDs

WithRequestID sets X-Request-ID to a random uuid so a request can be traced
in server logs.

# Request Logging

WithLogging logs request start (method, path, request_id) and completion
(status, duration_ms) at debug level, failures at warn.

# Authentication

WithBearer reads the token from a TokenSource on every request and sets
Authorization: Bearer <token>. WithUnauthorized fires a callback on any 401
so the session can be wiped wherever the request came from.

# Metrics

WithMetrics counts requests per method, route and status. Route collapses
numeric ids: /polls/42 → /polls/{id}.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message") // {"detail": "message"}
	middleware.ParseJSONBody(r, &req)
*/
package middleware
