// Package common defines sentinel errors shared by the client and server
// layers of Memorylane. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Input errors. Wrapped together with the offending field messages.
	ErrorValidation = errors.New("validation error")

	// Session cookie errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
