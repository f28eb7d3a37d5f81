package domain

import "errors"

var (
	// ErrConnectionReset is returned when the retailer resets the connection mid-run.
	// Repeated resets mean the API is rate limiting us, so the run stops.
	ErrConnectionReset = errors.New("connection reset by retailer")

	// ErrHTTPFailure is returned when a retailer answers with a non-404 error status
	ErrHTTPFailure = errors.New("retailer API request failed")

	// ErrAuthFailed is returned when the OAuth token endpoint rejects the credentials
	ErrAuthFailed = errors.New("access token request failed")

	// ErrUnauthorized is returned when a request is still rejected after re-authenticating
	ErrUnauthorized = errors.New("request unauthorized after re-authentication")

	// ErrMissingCredentials is returned when CLIENT_ID or CLIENT_SECRET is not set
	ErrMissingCredentials = errors.New("missing client credentials")

	// ErrTokenMiss is returned when no unexpired access token is stored
	ErrTokenMiss = errors.New("token not found")

	// ErrInvalidIdentifier is returned for an empty product identifier
	ErrInvalidIdentifier = errors.New("invalid product identifier")
)
