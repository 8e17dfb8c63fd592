// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickpoll/auth"
	"github.com/danielhkuo/quickpoll/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Middleware wraps a transport with extra behaviour
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base so the first middleware sees the request first
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// TokenSource supplies the bearer token for outgoing requests.
// An empty token means the request goes out anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// WithRequestID tags each request with a fresh X-Request-ID unless it already has one
func WithRequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) == "" {
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next.RoundTrip(r)
	})
}

// WithLogging logs each outbound request
func WithLogging(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		slog.Debug("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(RequestIDHeader),
		)

		resp, err := next.RoundTrip(r)

		duration := time.Since(start)
		if err != nil {
			slog.Warn("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return nil, err
		}

		slog.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)
		return resp, nil
	})
}

// WithBearer attaches the current token as an Authorization header
func WithBearer(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if tokens == nil || r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}

			token, err := tokens.Token(r.Context())
			if err != nil {
				return nil, err
			}
			if token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", auth.BearerHeader(token))
			}
			return next.RoundTrip(r)
		})
	}
}

// WithUnauthorized calls onUnauthorized whenever a response comes back 401.
// The response is still returned to the caller.
func WithUnauthorized(onUnauthorized func(ctx context.Context)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err == nil && resp.StatusCode == http.StatusUnauthorized && onUnauthorized != nil {
				// The caller's context may already be winding down
				onUnauthorized(context.WithoutCancel(r.Context()))
			}
			return resp, err
		})
	}
}

// WithMetrics records request counts and latency per route
func WithMetrics(m *metrics.ClientMetrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if m == nil {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			route := Route(r.URL.Path)
			start := time.Now()

			resp, err := next.RoundTrip(r)

			m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
				if resp.StatusCode == http.StatusUnauthorized {
					m.Unauthorized.Inc()
				}
			}
			m.Requests.WithLabelValues(r.Method, route, status).Inc()
			return resp, err
		})
	}
}

// Route collapses numeric path segments so metrics labels stay bounded.
// "/polls/42" becomes "/polls/{id}".
func Route(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes an error body in the API's {"detail": "..."} shape
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, map[string]string{"detail": message})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}
