package workflow

import "errors"

// Sentinel errors for workflow infrastructure failures. These are fatal to
// the current invocation and surface to the entry-point caller; they are
// never converted into workflow state.
var (
	ErrStoreUnavailable = errors.New("checkpoint store unavailable")
	ErrUnknownStep      = errors.New("unknown step")
	ErrStepLimit        = errors.New("step limit exceeded")
)
