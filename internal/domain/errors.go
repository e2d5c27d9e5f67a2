package domain

import "errors"

var (
	// ErrInvalidInput is returned for empty signup fields or unknown option labels.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUser is returned when signing up with a taken username.
	ErrDuplicateUser = errors.New("username already exists")
	// ErrInvalidCredentials is returned when no account matches a login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidTransition is returned when an action does not fit the current game mode.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrSessionNotFound is returned for unknown or logged-out session ids.
	ErrSessionNotFound = errors.New("session not found")
)
