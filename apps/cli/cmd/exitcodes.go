package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/restmd/packages/core/runner"
)

// Exit codes for restmd CLI
const (
	// ExitSuccess indicates all requests ran
	ExitSuccess = 0

	// ExitRequestFailure indicates a request timed out or failed to execute
	ExitRequestFailure = 1

	// ExitParseError indicates a request could not be translated or was empty
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitSpawnError indicates the shell could not be started
	ExitSpawnError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code out of a command. reported is set
// when the error was already shown to the user.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCodeFor maps an execution error to an exit code.
func exitCodeFor(err error) int {
	var (
		spawnErr *runner.SpawnError
		transErr *runner.TranslationError
		emptyErr *runner.EmptySelectionError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &spawnErr):
		return ExitSpawnError
	case errors.As(err, &transErr), errors.As(err, &emptyErr), errors.Is(err, runner.ErrNoSelections):
		return ExitParseError
	default:
		return ExitRequestFailure
	}
}
