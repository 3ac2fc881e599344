package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/fix"
	"github.com/yaklabco/gotat/pkg/markdown"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/reporter"
	"github.com/yaklabco/gotat/pkg/rewrite"
	"github.com/yaklabco/gotat/pkg/runner"
)

const workDir = "/work"

// sampleResult has one changed file, one unchanged Markdown file with a
// skipped block, and one file that failed to parse.
func sampleResult() *runner.Result {
	original, modified := []byte("x = noop(1)\n"), []byte("x = 1\n")
	stats := pattern.Stats{Replaced: 1, ByRule: map[string]int{"unwrap": 1}}

	changed := &rewrite.PipelineResult{
		FileResult: &rewrite.FileResult{
			Path:     workDir + "/a.py",
			Original: original,
			Output:   modified,
			Stats:    stats,
			Changed:  true,
		},
		Diff: fix.GenerateDiff(workDir+"/a.py", original, modified),
	}
	unchanged := &rewrite.PipelineResult{
		FileResult:  &rewrite.FileResult{Path: workDir + "/doc.md"},
		Markdown:    true,
		BlockErrors: []*markdown.BlockError{{Line: 3, Err: errors.New("invalid syntax")}},
	}
	parseErr := fmt.Errorf("%w: unexpected indent", rewrite.ErrParse)

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: workDir + "/a.py", Result: changed},
			{Path: workDir + "/b.py", Error: parseErr},
			{Path: workDir + "/doc.md", Result: unchanged},
		},
		Stats: runner.Stats{
			FilesDiscovered:  3,
			FilesProcessed:   2,
			FilesChanged:     1,
			FilesErrored:     1,
			ErrorsByCategory: map[string]int{"parse": 1},
			BlocksSkipped:    1,
			Rewrites:         stats,
		},
	}
}

func report(t *testing.T, format reporter.Format, result *runner.Result) (string, string, int) {
	t.Helper()

	var out, errOut bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Format:      format,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return out.String(), errOut.String(), n
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatDiff},
		{input: "text", want: reporter.FormatText},
		{input: "diff", want: reporter.FormatDiff},
		{input: "json", want: reporter.FormatJSON},
		{input: "summary", want: reporter.FormatSummary},
		{input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "valid formats: text, diff, json, summary")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	out, errOut, n := report(t, reporter.FormatDiff, sampleResult())

	assert.Equal(t, 1, n)
	assert.Equal(t, `diff --git a/a.py b/a.py
--- a/a.py
+++ b/a.py
@@ -1,1 +1,1 @@
-x = noop(1)
+x = 1
1 file changed, 1 insertion(+), 1 deletion(-)
`, out)
	assert.Contains(t, errOut, "b.py: parse error: ")
	assert.Contains(t, errOut, "doc.md:3  block skipped  invalid syntax")
}

func TestDiffReporter_NoChanges(t *testing.T) {
	t.Parallel()

	out, _, n := report(t, reporter.FormatDiff, &runner.Result{})
	assert.Zero(t, n)
	assert.Empty(t, out)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	out, errOut, n := report(t, reporter.FormatText, sampleResult())

	assert.Equal(t, 1, n)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "a.py  changes pending  (1 replaced: unwrap x1)\n")
	assert.Contains(t, out, "b.py: parse error: ")
	assert.Contains(t, out, "doc.md  unchanged\n  doc.md:3  block skipped  invalid syntax\n")
	assert.Contains(t, out, "1 rewrite in 1 of 2 files")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	out, _, _ := report(t, reporter.FormatText, nil)
	assert.Equal(t, "No files to rewrite.\n", out)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, _, n := report(t, reporter.FormatJSON, sampleResult())
	assert.Equal(t, 1, n)

	var got reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Files, 3)
	assert.Equal(t, reporter.JSONFileResult{
		Path:     "a.py",
		Status:   "changes pending",
		Changed:  true,
		Replaced: 1,
		Rules:    map[string]int{"unwrap": 1},
		Diff:     "--- a/work/a.py\n+++ b/work/a.py\n@@ -1,1 +1,1 @@\n-x = noop(1)\n+x = 1\n",
	}, got.Files[0])
	assert.Equal(t, "error", got.Files[1].Status)
	assert.Equal(t, "parse", got.Files[1].Category)
	assert.Equal(t, []reporter.JSONBlockError{{Line: 3, Message: "invalid syntax"}}, got.Files[2].BlockErrors)

	assert.Equal(t, 1, got.Summary.FilesChanged)
	assert.Equal(t, 1, got.Summary.BlocksSkipped)
	assert.Equal(t, map[string]int{"parse": 1}, got.Summary.ErrorsByCategory)
	assert.Equal(t, map[string]int{"unwrap": 1}, got.Summary.Rules)
}

func TestJSONReporter_Nil(t *testing.T) {
	t.Parallel()

	out, _, _ := report(t, reporter.FormatJSON, nil)

	var got reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Files)
	assert.NotNil(t, got.Files)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	out, _, n := report(t, reporter.FormatSummary, sampleResult())

	assert.Equal(t, 1, n)
	for _, want := range []string{"b.py: parse error", "Rules", "unwrap", "Files", "a.py", "Summary", "Rewrite failed for some files"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "doc.md ")
}
