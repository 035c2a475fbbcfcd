package bench

import "errors"

var (
	// ErrConfig is returned by Validate and LoadConfig for unusable settings.
	ErrConfig = errors.New("bench: invalid configuration")

	// ErrMismatch is returned by Verify when a result differs from the
	// sequential product.
	ErrMismatch = errors.New("bench: result mismatch")
)
