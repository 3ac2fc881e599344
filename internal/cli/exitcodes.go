package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotat/pkg/runner"
)

// Exit codes for gotat.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitChangesPending indicates that check found files that would change.
	ExitChangesPending = 1

	// ExitFilesFailed indicates that at least one file could not be rewritten.
	ExitFilesFailed = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrChangesPending is returned by check when files would change.
	ErrChangesPending = errors.New("changes pending")

	// ErrFilesFailed is returned when some files were not rewritten.
	ErrFilesFailed = errors.New("some files failed")
)

// ExitError carries the exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error  { return &ExitError{Code: ExitInvalidUsage, Err: err} }
func configError(err error) error { return &ExitError{Code: ExitConfigError, Err: err} }

// usageArgs makes the errors of an argument validator usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// ExitCodeFromResult determines the exit code of a run. In check mode
// pending changes are reported as ExitChangesPending.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitFilesFailed
	case check && result.HasChanges():
		return ExitChangesPending
	default:
		return ExitSuccess
	}
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, ErrChangesPending):
		return ExitChangesPending
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	case errors.As(err, &pathErr):
		return ExitIOError
	case strings.HasPrefix(err.Error(), "unknown command "):
		// Cobra reports an unknown subcommand as a plain error.
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}

// IsResultError reports whether err only signals the outcome of a run
// that was already reported.
func IsResultError(err error) bool {
	return errors.Is(err, ErrChangesPending) || errors.Is(err, ErrFilesFailed)
}
