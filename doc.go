// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the quickpoll command-line client.

QuickPoll is a small polling service: users register, create polls with two
to ten options, vote once per poll, and like polls. This client talks to the
QuickPoll REST API and keeps the signed-in session in a local store.

# Running

	quickpoll login -u alice
	quickpoll polls
	quickpoll vote 12 "Tacos"
	quickpoll create -title "Lunch?" pizza tacos sushi
	quickpoll watch -interval 2s 12

Run quickpoll with no command for the full list.

# Configuration

Flags win over environment variables, which win over defaults. A .env file
in the working directory is loaded if present.

  - QUICKPOLL_API_URL (-api): API base URL
  - QUICKPOLL_STORE_TYPE (-store-type): sqlite (default) or postgres
  - QUICKPOLL_STORE_URL (-store): session store; defaults to ~/.quickpoll/session.db
  - QUICKPOLL_TIMEOUT (-timeout): per-request timeout (default: 15s)
  - QUICKPOLL_LOG_LEVEL (-v): debug, info, warn (default) or error
  - QUICKPOLL_METRICS_ADDR (-metrics-addr): serve /metrics during watch

-y answers yes to confirmation prompts.

# Exit Codes

	0    success
	1    command failed, or login required
	2    bad flags or arguments
	130  interrupted

# Architecture

  - router: command dispatch and navigation hints
  - handlers: one handler per command group
  - views: screen state (home, dashboard, poll detail, create form)
  - render: terminal output
  - session: signed-in user, persisted token
  - apiclient: REST client
  - middleware: outbound transport chain (request id, logging, metrics, auth)
  - tally: totals and percentages
  - metrics: prometheus client metrics
  - db: local session storage (sqlite or postgres)
  - auth: bearer token helpers
  - models: API types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
