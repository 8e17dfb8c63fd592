// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func makeJWT(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestBearerHeader(t *testing.T) {
	if got := BearerHeader("abc"); got != "Bearer abc" {
		t.Errorf("BearerHeader() = %q, want %q", got, "Bearer abc")
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"opaque", "abcdef123", false},
		{"jwt", makeJWT(`{"sub":"alice"}`), false},
		{"empty", "", true},
		{"whitespace", "abc def", true},
		{"two segments", "a.b", true},
		{"empty segment", "a..c", true},
		{"four segments", "a.b.c.d", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidToken {
				t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp, err := TokenExpiry(makeJWT(`{"sub":"alice","exp":1700000000}`))
	if err != nil {
		t.Fatalf("TokenExpiry() error = %v", err)
	}
	if !exp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("TokenExpiry() = %v, want %v", exp, time.Unix(1700000000, 0))
	}

	if _, err := TokenExpiry(makeJWT(`{"sub":"alice"}`)); !errors.Is(err, ErrNoExpiry) {
		t.Errorf("TokenExpiry() without exp error = %v, want %v", err, ErrNoExpiry)
	}

	if _, err := TokenExpiry("opaque"); !errors.Is(err, ErrNoExpiry) {
		t.Errorf("TokenExpiry() opaque error = %v, want %v", err, ErrNoExpiry)
	}

	if _, err := TokenExpiry("a.!!!.c"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("TokenExpiry() bad payload error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestExpired(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"future exp", makeJWT(`{"exp":1700000100}`), false},
		{"past exp", makeJWT(`{"exp":1699999000}`), true},
		{"exactly now", makeJWT(`{"exp":1700000000}`), true},
		{"no exp", makeJWT(`{"sub":"bob"}`), false},
		{"opaque", "opaque-token", false},
		{"malformed", "a.b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(tt.token, now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
