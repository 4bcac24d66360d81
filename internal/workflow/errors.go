package workflow

import "errors"

var (
	ErrMissingApplication = errors.New("application data is required")
	ErrMissingDocuments   = errors.New("a storage key is required for every document kind")
	ErrEmptyMessage       = errors.New("message must not be empty")
	ErrReservedMessage    = errors.New("message uses a reserved control token")
)
