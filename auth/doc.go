// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides bearer token helpers for the API client.

# Bearer Header

	req.Header.Set("Authorization", auth.BearerHeader(token))

# Token Checks

The API issues JWT access tokens. The client never verifies signatures; it
only inspects the token shape and expiry so it can drop a dead session
before sending a request:

	if err := auth.ValidateToken(tok); err != nil { ... }
	exp, err := auth.TokenExpiry(tok)
	if auth.Expired(tok, time.Now()) { ... }

Opaque tokens (no dots) pass ValidateToken and never expire client-side.
A malformed JWT counts as expired.
*/
package auth
