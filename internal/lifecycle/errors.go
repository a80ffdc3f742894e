package lifecycle

import "errors"

var (
	// ErrForbidden: authenticated but lacking the capability, e.g. a
	// non-admin approving or a non-owner resubmitting.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: tool id absent from the collection.
	ErrNotFound = errors.New("tool not found")
	// ErrInvalidInput: malformed or out-of-range request values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState: the transition is not legal from the tool's
	// current status, e.g. resubmitting a tool that was never rejected.
	ErrInvalidState = errors.New("invalid state for this operation")
)
