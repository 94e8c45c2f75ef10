package runner

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNoSelections is returned for a batch without any request text.
var ErrNoSelections = errors.New("no requests selected")

// SpawnError means the subprocess could not be started.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// TimeoutError means the deadline elapsed before the subprocess exited.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s seconds", strconv.FormatFloat(e.Timeout.Seconds(), 'f', -1, 64))
}

// ExecError wraps any other fault raised while running a command.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execution failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// EmptySelectionError reports a blank request block. Index is 1-based.
type EmptySelectionError struct {
	Index int
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("selection %d is empty", e.Index)
}

// TranslationError wraps a failure of the command translator.
type TranslationError struct {
	Err error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed: %v", e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
