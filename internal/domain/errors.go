package domain

import "errors"

var (
	// ErrUsernameTaken is returned when registering a username that
	// already has a User record.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStoreUnavailable wraps store failures on read paths where the
	// caller is expected to degrade rather than abort.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSessionNotFound is returned when a token does not resolve to a
	// live session.
	ErrSessionNotFound = errors.New("session not found")
)
