// Package rewrite applies a rule table to Python files and regenerates
// them with their original formatting.
package rewrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/pkg/emit"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

// Engine errors, matched with errors.Is.
var (
	// ErrParse indicates the input does not parse.
	ErrParse = errors.New("parse failure")

	// ErrRegenerate indicates the rewritten tree could not be turned back
	// into text.
	ErrRegenerate = errors.New("regenerate failure")

	// ErrVerify indicates the regenerated text does not parse.
	ErrVerify = errors.New("verify failure")
)

// EngineOptions controls an Engine.
type EngineOptions struct {
	// Emit is passed to the emitter.
	Emit emit.Options

	// Verify re-parses every changed output.
	Verify bool
}

// Engine rewrites source text with a rule table.
type Engine struct {
	table *pattern.Table
	opts  EngineOptions
}

// NewEngine creates an engine for table.
func NewEngine(table *pattern.Table, opts EngineOptions) *Engine {
	return &Engine{table: table, opts: opts}
}

// Table returns the engine's rule table.
func (e *Engine) Table() *pattern.Table { return e.table }

// FileResult is the outcome of rewriting one source text.
type FileResult struct {
	Path     string
	Original []byte

	// Output is the rewritten text. It is Original when nothing matched.
	Output []byte

	// Stats counts the rewrites per rule.
	Stats pattern.Stats

	// Changed is true when Output differs from Original.
	Changed bool
}

// Process parses content, applies the rule table and regenerates the
// text. Content that no rule matches is returned untouched without being
// regenerated.
func (e *Engine) Process(ctx context.Context, path string, content []byte) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	file := source.NewFile(path, content)
	root, err := pyparse.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	session, err := emit.NewSession(file, root, e.opts.Emit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegenerate, err)
	}

	stats, err := e.table.Rewrite(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegenerate, err)
	}

	result := &FileResult{Path: path, Original: content, Output: content, Stats: stats}
	if stats.Total() == 0 {
		logger.Debug("no rule matched")
		return result, nil
	}
	logger.Debug("rules applied", logging.FieldReplaced, stats.Replaced, logging.FieldDeleted, stats.Deleted)

	text, err := session.Regenerate(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegenerate, err)
	}

	if e.opts.Verify {
		if _, err := pyparse.Parse(source.NewFileString(path, text)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVerify, err)
		}
	}

	result.Output = []byte(text)
	result.Changed = !bytes.Equal(result.Output, content)
	return result, nil
}

// Source adapts Process to code embedded in another document.
func (e *Engine) Source(ctx context.Context, path string, content []byte) ([]byte, pattern.Stats, error) {
	res, err := e.Process(ctx, path, content)
	if err != nil {
		return nil, pattern.Stats{}, err
	}
	return res.Output, res.Stats, nil
}
