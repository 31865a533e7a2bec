package lookup

import "errors"

// Error definitions for the lookup package.
var (
	ErrModelNotFound       = errors.New("model was not found")
	ErrMultipleModelsFound = errors.New("multiple models were found")
	ErrInvalidRequest      = errors.New("invalid lookup request")
)
