package kfp

import "errors"

// Error definitions for the kfp package.
var (
	ErrInvalidExecutorInput = errors.New("invalid executor input")
	ErrMissingOutput        = errors.New("output artifact not provided by the launcher")
)
