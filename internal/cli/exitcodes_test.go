package cli_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotat/internal/cli"
	"github.com/yaklabco/gotat/pkg/runner"
)

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		check bool
		want  int
	}{
		{name: "unchanged", stats: runner.Stats{FilesProcessed: 3}, want: cli.ExitSuccess},
		{name: "changed", stats: runner.Stats{FilesChanged: 1}, want: cli.ExitSuccess},
		{name: "changed in check", stats: runner.Stats{FilesChanged: 1}, check: true, want: cli.ExitChangesPending},
		{name: "errored", stats: runner.Stats{FilesChanged: 1, FilesErrored: 1}, check: true, want: cli.ExitFilesFailed},
		{name: "skipped", stats: runner.Stats{FilesSkipped: 1}, want: cli.ExitFilesFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(&runner.Result{Stats: tt.stats}, tt.check))
		})
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: cli.ExitSuccess},
		{name: "pending", err: cli.ErrChangesPending, want: cli.ExitChangesPending},
		{name: "failed", err: fmt.Errorf("run: %w", cli.ErrFilesFailed), want: cli.ExitFilesFailed},
		{name: "explicit", err: &cli.ExitError{Code: cli.ExitConfigError, Err: errors.New("bad")}, want: cli.ExitConfigError},
		{name: "path", err: fmt.Errorf("read: %w", &fs.PathError{Op: "open", Path: "a.py", Err: fs.ErrNotExist}), want: cli.ExitIOError},
		{name: "unknown command", err: errors.New(`unknown command "lint" for "gotat"`), want: cli.ExitInvalidUsage},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromError(tt.err))
		})
	}

	assert.True(t, cli.IsResultError(cli.ErrChangesPending))
	assert.False(t, cli.IsResultError(errors.New("boom")))
}
