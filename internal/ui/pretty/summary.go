package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gotat/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 rewrites in 2 of 12 files, 2 written, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	total := stats.Rewrites.Total()
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 && stats.FilesSkipped == 0 {
		return s.Success.Render("No changes") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) + "\n"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d %s in %d of %d %s",
		total, plural(total, "rewrite", "rewrites"),
		stats.FilesChanged, stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.BlocksSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s skipped",
			stats.BlocksSkipped, plural(stats.BlocksSkipped, "block", "blocks"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesChanged > 0 {
		row("Files changed", s.Changed.Render(strconv.Itoa(stats.FilesChanged)))
	}
	if stats.FilesWritten > 0 {
		row("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
		for _, category := range slices.Sorted(maps.Keys(stats.ErrorsByCategory)) {
			row("  "+category, s.Error.Render(strconv.Itoa(stats.ErrorsByCategory[category])))
		}
	}
	if stats.BlocksSkipped > 0 {
		row("Blocks skipped", s.Warning.Render(strconv.Itoa(stats.BlocksSkipped)))
	}

	builder.WriteString("\n")

	row("Replaced", s.SummaryValue.Render(strconv.Itoa(stats.Rewrites.Replaced)))
	row("Deleted", s.SummaryValue.Render(strconv.Itoa(stats.Rewrites.Deleted)))
	for _, name := range slices.Sorted(maps.Keys(stats.Rewrites.ByRule)) {
		builder.WriteString(fmt.Sprintf("    %s %s\n",
			s.RuleName.Render(name), s.Count.Render(strconv.Itoa(stats.Rewrites.ByRule[name]))))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Rewrite failed for some files"))
	case stats.FilesSkipped > 0:
		builder.WriteString(s.Warning.Render("Rewrite completed with skipped files"))
	case stats.FilesChanged > 0 && stats.FilesWritten == 0:
		builder.WriteString(s.Changed.Render("Changes pending"))
	default:
		builder.WriteString(s.Success.Render("Rewrite complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
