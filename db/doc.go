// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the client's session between invocations.

# Opening a Store

Open connects, pings, and creates the schema:

	conn, err := db.Open(ctx, "sqlite", "file:/home/me/.quickpoll/session.db")

Both sqlite (modernc.org/sqlite, no cgo) and postgres (lib/pq) are
supported. Postgres lets several machines share a signed-in profile.

# Tables

	local_storage(key TEXT PRIMARY KEY, value TEXT, updated_at TIMESTAMP)

Safe to create repeatedly - uses IF NOT EXISTS.

# Local Storage

LocalStorage exposes the table as a string map:

	store := db.NewLocalStorage(conn)
	store.SetItem(ctx, "token", tok)
	tok, ok, err := store.GetItem(ctx, "token")
	store.RemoveItem(ctx, "token")

The session package keeps two keys here: token and user.
*/
package db
