package rewrite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/fix"
	"github.com/yaklabco/gotat/pkg/fsutil"
	"github.com/yaklabco/gotat/pkg/markdown"
)

// Pipeline errors for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrFileModified indicates the file changed on disk while it was
	// being rewritten. Such a file is skipped, never overwritten.
	ErrFileModified = errors.New("file modified during processing")
)

// PipelineResult is the outcome of one file.
type PipelineResult struct {
	// FileResult holds the rewrite of the whole file. For a Markdown file
	// Original and Output are the documents and Stats sums the blocks.
	*FileResult

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Diff is set when the file changed.
	Diff *fix.Diff

	// Markdown is true when the file was processed as Markdown.
	Markdown bool

	// BlockErrors lists Markdown code blocks that were left unchanged.
	BlockErrors []*markdown.BlockError

	// Skipped is true when a changed file was not written.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a short description of the outcome.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "rewritten (backup created)"
	case pr.Written:
		return "rewritten"
	case pr.Changed:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// PipelineOptions controls a pipeline run.
type PipelineOptions struct {
	// Write rewrites changed files in place. Without it the pipeline only
	// computes diffs.
	Write bool

	// Backup configures backups of rewritten files.
	Backup fsutil.BackupConfig

	// StrictRaceDetection compares content hashes, not only modification
	// time and size, before writing.
	StrictRaceDetection bool

	// Markdown enables rewriting of code blocks in Markdown files.
	Markdown bool

	// Languages are the Markdown fence languages treated as Python.
	Languages []string
}

// DefaultPipelineOptions returns the defaults: dry run, strict race
// detection, Markdown enabled.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		Markdown:            true,
		Languages:           config.DefaultMarkdownLanguages(),
	}
}

// Pipeline runs the engine over files on disk.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline around engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile rewrites the file at path:
//  1. Read the file and record its state.
//  2. Rewrite the content, or the Python blocks of a Markdown file.
//  3. Compute the diff.
//  4. Unless writing, stop.
//  5. Skip the file if it changed on disk meanwhile.
//  6. Create a backup if enabled.
//  7. Replace the file atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info
	if !result.Changed || !opts.Write {
		return result, nil
	}

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		logger.Warn("file changed on disk, not writing")
		result.Skipped = true
		result.SkipReason = ErrFileModified.Error()
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("%w: create backup: %w", ErrWriteFailure, err)
		}
		result.BackupCreated = created
		logger.Debug("backup", logging.FieldCreated, created)
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Output, info.Mode); err != nil {
		if result.BackupCreated {
			// Nothing was written; drop the backup taken for this attempt.
			if _, rmErr := fsutil.RemoveBackup(path, opts.Backup.Mode); rmErr != nil {
				logger.Warn("remove backup", logging.FieldError, rmErr)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("file written")
	return result, nil
}

// ProcessContent rewrites content in memory. Nothing is written.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{}

	if opts.Markdown && markdown.IsMarkdown(path) {
		md, err := markdown.Rewrite(ctx, path, content, markdown.Options{Languages: opts.Languages}, p.Engine.Source)
		if err != nil {
			return nil, err
		}
		for _, be := range md.Skipped {
			logging.FromContext(ctx).Debug("code block skipped", logging.FieldPath, path, logging.FieldError, be)
		}
		result.Markdown = true
		result.BlockErrors = md.Skipped
		result.FileResult = &FileResult{
			Path:     path,
			Original: content,
			Output:   md.Output,
			Stats:    md.Stats,
			Changed:  md.Rewritten > 0,
		}
	} else {
		res, err := p.Engine.Process(ctx, path, content)
		if err != nil {
			return nil, err
		}
		result.FileResult = res
	}

	if result.Changed {
		result.Diff = fix.GenerateDiff(path, content, result.Output)
	}
	return result, nil
}

func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	check := fsutil.CheckModifiedQuick
	if strict {
		check = fsutil.CheckModified
	}
	modified, err := check(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps a read error with the pipeline error it belongs to.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// Category names the kind of a pipeline error: "parse", "regenerate",
// "verify", "io" or "internal".
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrRegenerate):
		return "regenerate"
	case errors.Is(err, ErrVerify):
		return "verify"
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrWriteFailure), errors.Is(err, fsutil.ErrIsDirectory):
		return "io"
	default:
		return "internal"
	}
}

// IsPipelineError reports whether err is one of the categorized errors.
func IsPipelineError(err error) bool {
	return Category(err) != "" && Category(err) != "internal"
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		Write:               cfg.Write && !cfg.DryRun,
		Backup:              BackupConfigFromConfig(cfg),
		StrictRaceDetection: true,
		Markdown:            cfg.Markdown.Enabled,
		Languages:           cfg.Markdown.Languages,
	}
}
