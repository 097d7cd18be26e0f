package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrRunNotFound occurs when a lookup matches no analysis run
	ErrRunNotFound = errors.New("analysis run not found")
)
