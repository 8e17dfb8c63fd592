// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps track of who is signed in.

# Persisted State

Persisted stores two keys in local storage:

	token  the bearer token from /auth/login
	user   the JSON profile from /auth/me

It doubles as the API client's token store, so a 401 from any endpoint
clears both keys:

	persisted := session.NewPersisted(db.NewLocalStorage(conn))
	client := apiclient.New(url, apiclient.WithTokenStore(persisted))

A JWT whose exp claim has passed is dropped on read.

# Store

Store holds the current user in memory:

	store := session.NewStore(persisted, client)
	store.Restore(ctx)             // from storage, no network
	store.Login(ctx, creds)        // token → profile → persisted
	store.Register(ctx, req)       // register, then Login
	store.Logout(ctx)              // local only
	store.Profile(ctx)             // refetch /auth/me

Failures come back as *AuthError whose Message is the server detail, or a
fixed fallback:

	Login failed
	Registration failed
	Registration completed but login failed   (errors.Is ErrLoginAfterRegister)
*/
package session
