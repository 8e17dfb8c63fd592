// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings, plus the command and its
arguments:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-api          API base URL
	-store        Session store URL
	-store-type   sqlite (default) or postgres
	-timeout      Per-request timeout (default: 15s)
	-v            Log level (default: warn)
	-metrics-addr Address for /metrics while watching
	-y            Skip confirmation prompts

# Environment Variables

Flags fall back to environment variables. A .env file in the working
directory is loaded first if present:

	QUICKPOLL_API_URL      → -api
	QUICKPOLL_STORE_URL    → -store
	QUICKPOLL_STORE_TYPE   → -store-type
	QUICKPOLL_TIMEOUT      → -timeout
	QUICKPOLL_LOG_LEVEL    → -v
	QUICKPOLL_METRICS_ADDR → -metrics-addr

CLI flags take precedence over environment variables.

# Defaults

With no store configured, the session lives in ~/.quickpoll/session.db.
A postgres store has no default and must be given explicitly.
*/
package cliparse
