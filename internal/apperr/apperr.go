package apperr

import (
	"errors"
	"fmt"
)

// Sentinels for the failure modes the planner core distinguishes. Callers
// match with errors.Is and wrap with fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound marks a thread, path, or graph key that was assumed to exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks user-correctable bad input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingTopic marks a workflow started or resumed without a topic.
	ErrMissingTopic = errors.New("missing topic")
	// ErrExtraction marks model output with no parseable structured payload.
	ErrExtraction = errors.New("extraction failed")
	// ErrCorruptGraph marks a persisted graph file that exists but cannot be
	// parsed. Never conflated with an absent file.
	ErrCorruptGraph = errors.New("corrupt graph")
	// ErrStorage marks an underlying I/O failure.
	ErrStorage = errors.New("storage failure")
)

// Error carries an HTTP status and machine-readable code alongside the cause,
// for handlers that translate core failures into API responses.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
