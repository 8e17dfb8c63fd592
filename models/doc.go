// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types exchanged with the
QuickPoll API.

# Request Types

Types encoded into outgoing requests:

  - Credentials: username, password (sent form-encoded to /auth/login)
  - RegisterRequest: username, email, password
  - CreatePollRequest: title, description (nullable), options [{text}]
  - VoteRequest: poll_id, option_id
  - LikeRequest: poll_id

# Response Types

  - TokenResponse: access_token, token_type
  - ErrorResponse: detail (string or validation list)

# Domain Types

  - User: account identity, owner of polls
  - Poll: title, options, owner, like and vote state for the caller
  - Option: selectable answer with its running vote count
  - VoteResult: per-option count from /votes/results/{id}

VoteMark accepts every shape the API uses for user_voted:

	"user_voted": true    → Voted
	"user_voted": 42      → Voted, OptionID 42
	"user_voted": null    → not voted

# Constants

Polls carry between MinOptions (2) and MaxOptions (10) options. Draft field
limits mirror the create form: MaxTitleLen, MaxDescriptionLen, MaxOptionLen.
*/
package models
