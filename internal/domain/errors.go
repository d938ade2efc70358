package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrInvalidInput indicates missing or empty required input
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates configuration that cannot work, such as overlap >= chunk size
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates the requested document was not found
	ErrNotFound = errors.New("not found")

	// ErrGeneratorUnavailable indicates the hosted generator could not produce an answer
	ErrGeneratorUnavailable = errors.New("generator unavailable")
)
