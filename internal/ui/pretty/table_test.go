package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/pattern"
)

func TestRuleRows(t *testing.T) {
	t.Parallel()

	replace, err := pattern.NewRule("", "noop(_1)", "_1")
	require.NoError(t, err)
	del, err := pattern.NewDeleteRule("", "debug(...)")
	require.NoError(t, err)

	rows := pretty.RuleRows([]pattern.Rule{replace, del})
	assert.Equal(t, []pretty.RuleRow{
		{Name: "noop(_1) => _1", Match: "noop(_1)", Action: "_1"},
		{Name: "delete debug(...)", Match: "debug(...)", Action: "delete", Delete: true},
	}, rows)
}

func TestTableFormatter_FormatRules(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "No rules configured.\n", formatter.FormatRules(nil))
	})

	t.Run("rows", func(t *testing.T) {
		t.Parallel()

		got := formatter.FormatRules([]pretty.RuleRow{
			{Name: "unwrap", Match: "noop(_1)", Action: "_1"},
			{Name: "strip", Match: "debug(...)", Action: "delete", Delete: true},
		})
		for _, want := range []string{"NAME", "MATCH", "ACTION", "unwrap", "noop(_1)", "strip", "delete"} {
			assert.Contains(t, got, want)
		}
	})

	t.Run("truncates", func(t *testing.T) {
		t.Parallel()

		narrow := pretty.NewTableFormatter(pretty.NewStyles(false), 40)
		long := "very_long_function_name(_1, _2, _3)"
		got := narrow.FormatRules([]pretty.RuleRow{{Name: "n", Match: long, Action: "_1"}})
		assert.NotContains(t, got, long)
		assert.Contains(t, got, "very_long...")
	})
}
