// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router maps quickpoll commands to their handlers.

# Route Registration

NewRouter registers every command against a handlers.Env:

	rt := router.NewRouter(env)
	err := rt.Dispatch(ctx, cfg.Command, cfg.Args)

Commands marked protected (dashboard, create, delete) need a signed-in
user; without one Dispatch navigates to the login route and returns
ErrLoginRequired.

# Navigation

Router implements views.Navigator. Views navigate after a create, a delete
or a rejected session; in a terminal that becomes a hint naming the command
to run next:

	/login      → quickpoll login
	/dashboard  → quickpoll dashboard
	/poll/{id}  → quickpoll show {id}

# Errors

A 401 from the API surfaces as ErrSessionExpired (wrapping
apiclient.ErrUnauthorized) after the session has been wiped. Usage errors
carry the command's usage line.
*/
package router
