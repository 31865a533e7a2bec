package artifact

import "errors"

// Error definitions for the artifact package.
var (
	ErrInvalidDataset = errors.New("training dataset metadata is not a JSON object")
	ErrNotGCSURI      = errors.New("artifact URI is not a gs:// URI")
)
