package registry

import "errors"

// Error definitions for the registry package.
var (
	ErrInvalidResourceName = errors.New("invalid model resource name")
	ErrMissingScope        = errors.New("project and location are required")
	ErrDuplicateModel      = errors.New("model is already registered in the fixture")
)
