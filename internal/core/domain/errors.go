package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the bearer token is missing, malformed,
	// wrongly signed, or expired.
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidInput      = errors.New("invalid input")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
