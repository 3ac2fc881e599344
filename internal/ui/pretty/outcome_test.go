package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/markdown"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

func TestFormatOutcome(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		res  *rewrite.PipelineResult
		want string
	}{
		{
			name: "unchanged",
			res:  &rewrite.PipelineResult{FileResult: &rewrite.FileResult{Path: "a.py"}},
			want: "a.py  unchanged\n",
		},
		{
			name: "written",
			res: &rewrite.PipelineResult{
				FileResult: &rewrite.FileResult{
					Path:    "a.py",
					Changed: true,
					Stats:   pattern.Stats{Replaced: 2, ByRule: map[string]int{"noop": 2}},
				},
				Written: true,
			},
			want: "a.py  rewritten  (2 replaced: noop x2)\n",
		},
		{
			name: "skipped block",
			res: &rewrite.PipelineResult{
				FileResult:  &rewrite.FileResult{Path: "a.py"},
				Markdown:    true,
				BlockErrors: []*markdown.BlockError{{Line: 7, Err: errors.New("bad syntax")}},
			},
			want: "a.py  unchanged\n  a.py:7  block skipped  bad syntax\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatOutcome("a.py", tt.res))
		})
	}
}

func TestFormatRuleCounts(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatRuleCounts(pattern.Stats{
		Replaced: 1,
		Deleted:  2,
		ByRule:   map[string]int{"b": 2, "a": 1},
	})
	assert.Equal(t, "(1 replaced, 2 deleted: a x1, b x2)", got)
}

func TestFormatFileError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "x.py: parse error: boom\n", styles.FormatFileError("x.py", "parse", errors.New("boom")))
	assert.Equal(t, "x.py: error: boom\n", styles.FormatFileError("x.py", "", errors.New("boom")))
}
