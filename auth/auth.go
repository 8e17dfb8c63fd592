// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token format")
	ErrNoExpiry     = errors.New("token carries no expiry")
)

// BearerHeader returns the Authorization header value for a token
func BearerHeader(token string) string {
	return "Bearer " + token
}

// ValidateToken checks that a token is safe to put in a header.
// Any opaque token passes; JWT-shaped tokens must have three non-empty segments.
func ValidateToken(token string) error {
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return ErrInvalidToken
	}
	if strings.Count(token, ".") == 0 {
		return nil
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}
	for _, p := range parts {
		if p == "" {
			return ErrInvalidToken
		}
	}
	return nil
}

// TokenExpiry reads the exp claim of a JWT without verifying the signature.
// The server remains the authority; this only lets the client skip requests
// that would certainly come back 401.
func TokenExpiry(token string) (time.Time, error) {
	if err := ValidateToken(token); err != nil {
		return time.Time{}, err
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, ErrNoExpiry
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return time.Unix(int64(*claims.Exp), 0), nil
}

// Expired reports whether the token's exp claim is at or before now.
// Tokens without a readable expiry are treated as live.
func Expired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return errors.Is(err, ErrInvalidToken)
	}
	return !now.Before(exp)
}
