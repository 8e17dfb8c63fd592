// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is a typed client for the QuickPoll REST API.

# Endpoints

	POST   /auth/register          Register
	POST   /auth/login             Login (form-encoded)
	GET    /auth/me                Profile
	GET    /polls/                 ListPolls
	POST   /polls/                 CreatePoll
	GET    /polls/{id}             GetPoll
	DELETE /polls/{id}             DeletePoll
	POST   /votes/                 Vote
	GET    /votes/results/{id}     Results
	POST   /likes/                 Like
	DELETE /likes/{id}             Unlike

# Transport

Requests pass through a middleware chain: request id, logging, metrics,
bearer token, then the 401 handler. A 401 from any endpoint clears the
token store and runs every OnUnauthorized hook:

	client := apiclient.New(url,
		apiclient.WithTokenStore(persisted),
		apiclient.WithMetrics(m),
		apiclient.OnUnauthorized(func(ctx context.Context) { store.Expire(ctx) }),
	)

# Errors

Non-2xx responses become *APIError. Message picks the server's detail or a
fallback for display:

	apiclient.Message(err, "Failed to vote")
*/
package apiclient
