package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/emit"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

func newEngine(t *testing.T, verify bool, rules ...pattern.Rule) *rewrite.Engine {
	t.Helper()
	table, err := pattern.NewTable(rules...)
	require.NoError(t, err)
	return rewrite.NewEngine(table, rewrite.EngineOptions{Verify: verify})
}

func mustRule(t *testing.T, match, replace string) pattern.Rule {
	t.Helper()
	r, err := pattern.NewRule("", match, replace)
	require.NoError(t, err)
	return r
}

func mustDelete(t *testing.T, match string) pattern.Rule {
	t.Helper()
	r, err := pattern.NewDeleteRule("", match)
	require.NoError(t, err)
	return r
}

func TestEngine_Process(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rules   func(t *testing.T) []pattern.Rule
		input   string
		want    string
		changed bool
	}{
		{
			name:  "unwrap call",
			rules: func(t *testing.T) []pattern.Rule { t.Helper(); return []pattern.Rule{mustRule(t, "noop(_1)", "_1")} },
			input: "x = noop(1)\nprint(y)  # keep\n",
			want:  "x = 1\nprint(y)  # keep\n",
		},
		{
			name:  "variadic to list",
			rules: func(t *testing.T) []pattern.Rule { t.Helper(); return []pattern.Rule{mustRule(t, "print(__1)", "[__1]")} },
			input: "# header\nprint(a, b)\n",
			want:  "# header\n[a, b]\n",
		},
		{
			name:  "delete statement",
			rules: func(t *testing.T) []pattern.Rule { t.Helper(); return []pattern.Rule{mustDelete(t, "debug(__1)")} },
			input: "x = 1\ndebug(x)\ny = 2\n",
			want:  "x = 1\ny = 2\n",
		},
		{
			name:  "no match keeps bytes",
			rules: func(t *testing.T) []pattern.Rule { t.Helper(); return []pattern.Rule{mustRule(t, "noop(_1)", "_1")} },
			input: "x = op(1)   # spacing\n\n\n",
			want:  "x = op(1)   # spacing\n\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := newEngine(t, true, tt.rules(t)...)
			res, err := engine.Process(context.Background(), "a.py", []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(res.Output))
			assert.Equal(t, tt.input, string(res.Original))
			assert.Equal(t, tt.input != tt.want, res.Changed)
			assert.Equal(t, "a.py", res.Path)
		})
	}
}

func TestEngine_ProcessStats(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, true,
		mustRule(t, "noop(_1)", "_1"),
		mustDelete(t, "debug(__1)"),
	)
	res, err := engine.Process(context.Background(), "a.py",
		[]byte("debug(1)\nx = noop(noop(2))\ndebug()\nkeep()\n"))
	require.NoError(t, err)

	assert.Equal(t, "x = 2\nkeep()\n", string(res.Output))
	assert.Equal(t, 2, res.Stats.Replaced)
	assert.Equal(t, 2, res.Stats.Deleted)
	assert.Equal(t, map[string]int{"noop(_1) => _1": 2, "delete debug(__1)": 2}, res.Stats.ByRule)
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("parse", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine(t, true).Process(ctx, "a.py", []byte("x = (\n"))
		require.ErrorIs(t, err, rewrite.ErrParse)
		var perr *pyparse.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "parse", rewrite.Category(err))
	})

	t.Run("rule cannot delete", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine(t, true, mustDelete(t, "noop(_1)")).Process(ctx, "a.py", []byte("x = noop(1)\n"))
		require.ErrorIs(t, err, rewrite.ErrRegenerate)
		var rerr *pattern.RuleError
		require.ErrorAs(t, err, &rerr)
	})

	broken := pattern.Rule{
		Name:  "broken",
		Match: pattern.MustCompile("f()"),
		Func: func(pattern.Captures) (pyast.Expr, error) {
			return &pyast.Name{Ident: "a b"}, nil
		},
	}

	t.Run("verify", func(t *testing.T) {
		t.Parallel()
		_, err := newEngine(t, true, broken).Process(ctx, "a.py", []byte("x = f()\n"))
		require.ErrorIs(t, err, rewrite.ErrVerify)
		assert.Equal(t, "verify", rewrite.Category(err))
	})

	t.Run("verify disabled", func(t *testing.T) {
		t.Parallel()
		res, err := newEngine(t, false, broken).Process(ctx, "a.py", []byte("x = f()\n"))
		require.NoError(t, err)
		assert.Equal(t, "x = a b\n", string(res.Output))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newEngine(t, true).Process(cctx, "a.py", []byte("x\n"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_Mark(t *testing.T) {
	t.Parallel()

	table, err := pattern.NewTable(mustRule(t, "print(__1)", "log(__1)"))
	require.NoError(t, err)
	engine := rewrite.NewEngine(table, rewrite.EngineOptions{Emit: emit.Options{Mark: true}})

	res, err := engine.Process(context.Background(), "a.py", []byte("x = 1\nprint(x)\n"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\nlog(x)\n", string(res.Output), "an edited statement is not generated")
}

func TestNewEngineFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules = []config.RuleSpec{
		{Name: "unwrap", Match: "noop(_1)", Replace: "_1"},
		{Match: "debug(__1)", Delete: true},
	}
	extra, err := pattern.ParseRuleSpec("old(_1) => new(_1)")
	require.NoError(t, err)

	engine, err := rewrite.NewEngineFromConfig(cfg, extra)
	require.NoError(t, err)

	names := make([]string, 0, engine.Table().Len())
	for _, r := range engine.Table().Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"unwrap", "delete debug(__1)", "old(_1) => new(_1)"}, names)

	cfg.Rules = append(cfg.Rules, config.RuleSpec{Match: "f(", Replace: "g"}, config.RuleSpec{Match: "f()", Replace: "_1"})
	_, err = rewrite.NewEngineFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules[2]")
	assert.Contains(t, err.Error(), "rules[3]")
}
