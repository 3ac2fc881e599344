package runner

import (
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

// FileOutcome is the result of one file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *rewrite.PipelineResult

	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int

	// ErrorsByCategory counts failed files per rewrite.Category.
	ErrorsByCategory map[string]int

	// BlocksSkipped counts Markdown code blocks left unchanged.
	BlocksSkipped int

	// Rewrites sums the rule statistics of every file.
	Rewrites pattern.Stats
}

// Result is the outcome of a run.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file changed.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasFailures reports whether any file failed or was skipped.
func (r *Result) HasFailures() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || r.Stats.FilesSkipped > 0)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		if r.Stats.ErrorsByCategory == nil {
			r.Stats.ErrorsByCategory = make(map[string]int)
		}
		r.Stats.ErrorsByCategory[rewrite.Category(outcome.Error)]++
		return
	}
	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.BlocksSkipped += len(res.BlockErrors)
	if res.FileResult != nil {
		r.Stats.Rewrites.Add(res.Stats)
	}
	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
}
