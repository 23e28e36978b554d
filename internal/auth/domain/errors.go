package domain

import (
	"github.com/cuacalab/forecast-api/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrCapabilityNotFound indicates a capability with the specified id was not found.
	ErrCapabilityNotFound = errors.Wrap(errors.ErrNotFound, "capability not found")
)
