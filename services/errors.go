package services

import "errors"

// Sentinel errors shared by all services. Handlers map these onto the
// HTTP envelope; anything else is an internal store failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrExpired      = errors.New("expired")
	ErrForbidden    = errors.New("forbidden")
)
