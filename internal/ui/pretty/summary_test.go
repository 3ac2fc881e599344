package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name:     "no changes",
			stats:    runner.Stats{FilesProcessed: 1},
			contains: []string{"No changes", "(1 file checked)"},
		},
		{
			name: "pending",
			stats: runner.Stats{
				FilesProcessed: 12,
				FilesChanged:   2,
				Rewrites:       pattern.Stats{Replaced: 2, Deleted: 1},
			},
			contains: []string{"3 rewrites in 2 of 12 files"},
			excludes: []string{"written", "failed"},
		},
		{
			name: "written with failures",
			stats: runner.Stats{
				FilesProcessed: 3,
				FilesChanged:   1,
				FilesWritten:   1,
				FilesErrored:   1,
				BlocksSkipped:  1,
				Rewrites:       pattern.Stats{Replaced: 1},
			},
			contains: []string{"1 rewrite in 1 of 3 files", "1 written", "1 block skipped", "1 failed"},
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := styles.FormatSummaryOneLine(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("complete", func(t *testing.T) {
		t.Parallel()

		got := styles.FormatSummary(runner.Stats{
			FilesProcessed: 10,
			FilesChanged:   3,
			FilesWritten:   3,
			Rewrites: pattern.Stats{
				Replaced: 4,
				Deleted:  1,
				ByRule:   map[string]int{"noop(_1) => _1": 4, "delete debug(...)": 1},
			},
		})

		assert.Contains(t, got, "Summary")
		assert.Contains(t, got, "Files checked:     10")
		assert.Contains(t, got, "Files written:     3")
		assert.Contains(t, got, "Replaced:          4")
		assert.Contains(t, got, "noop(_1) => _1 4")
		assert.Contains(t, got, "Rewrite complete")
		assert.NotContains(t, got, "Files failed")
	})

	t.Run("failures", func(t *testing.T) {
		t.Parallel()

		got := styles.FormatSummary(runner.Stats{
			FilesProcessed:   2,
			FilesErrored:     2,
			ErrorsByCategory: map[string]int{"parse": 2},
		})

		assert.Contains(t, got, "Files failed:      2")
		assert.Contains(t, got, "parse:")
		assert.Contains(t, got, "Rewrite failed for some files")
	})

	t.Run("pending", func(t *testing.T) {
		t.Parallel()

		got := styles.FormatSummary(runner.Stats{FilesProcessed: 2, FilesChanged: 1})
		assert.Contains(t, got, "Changes pending")
	})
}
