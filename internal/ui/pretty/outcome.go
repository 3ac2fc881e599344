package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/gotat/pkg/markdown"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

// FormatOutcome formats the one-line status of a processed file, followed by
// one indented line per Markdown block that was left unchanged.
func (s *Styles) FormatOutcome(path string, res *rewrite.PipelineResult) string {
	var builder strings.Builder

	builder.WriteString(s.FilePath.Render(path))
	builder.WriteString("  ")
	builder.WriteString(s.formatStatus(res))
	if res.FileResult != nil && res.Stats.Total() > 0 {
		builder.WriteString("  ")
		builder.WriteString(s.FormatRuleCounts(res.Stats))
	}
	builder.WriteString("\n")

	for _, blockErr := range res.BlockErrors {
		builder.WriteString(s.FormatBlockError(path, blockErr))
	}
	return builder.String()
}

func (s *Styles) formatStatus(res *rewrite.PipelineResult) string {
	summary := res.Summary()
	switch {
	case res.Skipped:
		return s.Warning.Render(summary)
	case res.Changed:
		return s.Changed.Render(summary)
	default:
		return s.Unchanged.Render(summary)
	}
}

// FormatRuleCounts formats per-rule match counts, sorted by rule name.
// Example: "(2 replaced, 1 deleted: noop(_1) => _1 x2, delete debug(...) x1)".
func (s *Styles) FormatRuleCounts(stats pattern.Stats) string {
	var counts []string
	if stats.Replaced > 0 {
		counts = append(counts, fmt.Sprintf("%d replaced", stats.Replaced))
	}
	if stats.Deleted > 0 {
		counts = append(counts, fmt.Sprintf("%d deleted", stats.Deleted))
	}

	var rules []string
	for _, name := range slices.Sorted(maps.Keys(stats.ByRule)) {
		rules = append(rules, s.RuleName.Render(name)+s.Count.Render(fmt.Sprintf(" x%d", stats.ByRule[name])))
	}

	out := strings.Join(counts, ", ")
	if len(rules) > 0 {
		out += ": " + strings.Join(rules, ", ")
	}
	return s.Dim.Render("(") + out + s.Dim.Render(")")
}

// FormatBlockError formats a Markdown block that was left unchanged.
func (s *Styles) FormatBlockError(path string, blockErr *markdown.BlockError) string {
	location := s.Location.Render(fmt.Sprintf("%s:%d", path, blockErr.Line))
	return fmt.Sprintf("  %s  %s  %s\n", location, s.Warning.Render("block skipped"), blockErr.Err)
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path, category string, err error) string {
	label := "error"
	if category != "" {
		label = category + " error"
	}
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("%s: %v", label, err)))
}
