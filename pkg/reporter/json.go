package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gotat/pkg/rewrite"
	"github.com/yaklabco/gotat/pkg/runner"
)

// jsonSchemaVersion is bumped on incompatible changes to the output.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Status      string           `json:"status"`
	Markdown    bool             `json:"markdown,omitempty"`
	Changed     bool             `json:"changed"`
	Written     bool             `json:"written,omitempty"`
	Skipped     bool             `json:"skipped,omitempty"`
	Replaced    int              `json:"replaced"`
	Deleted     int              `json:"deleted"`
	Rules       map[string]int   `json:"rules,omitempty"`
	BlockErrors []JSONBlockError `json:"blockErrors,omitempty"`
	Diff        string           `json:"diff,omitempty"`
	Error       string           `json:"error,omitempty"`
	Category    string           `json:"category,omitempty"`
}

// JSONBlockError is a Markdown code block that was left unchanged.
type JSONBlockError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered  int            `json:"filesDiscovered"`
	FilesProcessed   int            `json:"filesProcessed"`
	FilesChanged     int            `json:"filesChanged"`
	FilesWritten     int            `json:"filesWritten"`
	FilesSkipped     int            `json:"filesSkipped"`
	FilesErrored     int            `json:"filesErrored"`
	BlocksSkipped    int            `json:"blocksSkipped"`
	Replaced         int            `json:"replaced"`
	Deleted          int            `json:"deleted"`
	Rules            map[string]int `json:"rules"`
	ErrorsByCategory map[string]int `json:"errorsByCategory"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			Rules:            make(map[string]int),
			ErrorsByCategory: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesProcessed = stats.FilesProcessed
	output.Summary.FilesChanged = stats.FilesChanged
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.BlocksSkipped = stats.BlocksSkipped
	output.Summary.Replaced = stats.Rewrites.Replaced
	output.Summary.Deleted = stats.Rewrites.Deleted
	for name, n := range stats.Rewrites.ByRule {
		output.Summary.Rules[name] = n
	}
	for category, n := range stats.ErrorsByCategory {
		output.Summary.ErrorsByCategory[category] = n
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{Path: r.opts.displayPath(file.Path)}

	if file.Error != nil {
		out.Status = "error"
		out.Error = file.Error.Error()
		out.Category = rewrite.Category(file.Error)
		return out
	}

	res := file.Result
	if res == nil || res.FileResult == nil {
		return out
	}
	out.Status = res.Summary()
	out.Markdown = res.Markdown
	out.Changed = res.Changed
	out.Written = res.Written
	out.Skipped = res.Skipped
	out.Replaced = res.Stats.Replaced
	out.Deleted = res.Stats.Deleted
	if len(res.Stats.ByRule) > 0 {
		out.Rules = res.Stats.ByRule
	}
	for _, blockErr := range res.BlockErrors {
		out.BlockErrors = append(out.BlockErrors, JSONBlockError{Line: blockErr.Line, Message: blockErr.Err.Error()})
	}
	if res.Diff.HasChanges() {
		out.Diff = res.Diff.String()
	}
	return out
}
