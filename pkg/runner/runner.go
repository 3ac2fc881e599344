package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

// Runner rewrites many files through a rewrite.Pipeline.
type Runner struct {
	Pipeline *rewrite.Pipeline
}

// New creates a Runner with the given pipeline.
func New(pipeline *rewrite.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files and processes up to opts.Jobs of them at a time.
// A failing file is recorded in its outcome and never stops the run.
// Outcomes are in path order regardless of completion order. When ctx is
// cancelled, files not yet started are left out and an error is returned
// along with the partial result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]FileOutcome, len(files))
	started := make([]bool, len(files))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Pipeline)
			if err != nil {
				logger.Debug("file failed", logging.FieldPath, path,
					logging.FieldCategory, rewrite.Category(err), logging.FieldError, err)
			}
			outcomes[i] = FileOutcome{Path: path, Result: pr, Error: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, outcome := range outcomes {
		if started[i] {
			result.accumulate(outcome)
		}
	}
	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
