// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielhkuo/quickpoll/models"
)

var ErrUnauthorized = errors.New("not authenticated")

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Detail)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Message returns the server-provided detail for err, or fallback when there is none
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// StatusCode returns the HTTP status behind err, or 0 if err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseDetail pulls a human readable message out of an error body.
// detail is a string for HTTPException and a list of {msg} for validation errors.
func parseDetail(body []byte) string {
	var resp models.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(resp.Detail, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Detail, &list); err == nil && len(list) > 0 {
		return list[0].Msg
	}

	return ""
}
