package cli_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/internal/cli"
	"github.com/yaklabco/gotat/internal/configloader"
	"github.com/yaklabco/gotat/pkg/config"
)

func TestInspect(t *testing.T) {
	workspace(t, map[string]string{
		"a.py": "x = noop(1)\ny = 2\n",
	})

	tests := []struct {
		name     string
		arg      string
		want     []string
		notWant  []string
		wantCode int
	}{
		{
			name: "outline",
			arg:  "a.py",
			want: []string{"Module", "Assign", "Call", "1:5-1:12  noop(1)", "2:1-2:6  y = 2"},
		},
		{
			name:    "position",
			arg:     "a.py:1:5",
			want:    []string{"Assign", "Call", "Name"},
			notWant: []string{"y = 2"},
		},
		{
			name: "line only",
			arg:  "a.py:2",
			want: []string{"y = 2"},
		},
		{name: "line out of range", arg: "a.py:9", wantCode: cli.ExitInvalidUsage},
		{name: "zero column", arg: "a.py:1:0", wantCode: cli.ExitInvalidUsage},
		{name: "missing file", arg: "nope.py", wantCode: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := execute(t, "--color", "never", "inspect", tt.arg)
			require.Equal(t, tt.wantCode, code)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, stdout, notWant)
			}
		})
	}
}

func TestInspect_ParseError(t *testing.T) {
	workspace(t, map[string]string{"bad.py": "def (\n"})

	_, _, code := execute(t, "inspect", "bad.py")
	assert.Equal(t, cli.ExitFilesFailed, code)
}

func TestInspect_NestedIndentation(t *testing.T) {
	workspace(t, map[string]string{"a.py": "f(g(1))\n"})

	stdout, _, code := execute(t, "--color", "never", "inspect", "a.py:1:3")
	require.Equal(t, cli.ExitSuccess, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	for i := 1; i < len(lines); i++ {
		prev := len(lines[i-1]) - len(strings.TrimLeft(lines[i-1], " "))
		cur := len(lines[i]) - len(strings.TrimLeft(lines[i], " "))
		assert.Equal(t, prev+2, cur, "line %d is nested one level deeper: %q", i, lines[i])
	}
}

func TestRules(t *testing.T) {
	workspace(t, map[string]string{
		".gotat.yml": `rules:
  - name: unwrap
    match: noop(_1)
    replace: _1
  - match: debug(__1)
    delete: true
`,
	})

	t.Run("table", func(t *testing.T) {
		stdout, _, code := execute(t, "--color", "never", "rules")
		require.Equal(t, cli.ExitSuccess, code)
		for _, want := range []string{"NAME", "MATCH", "unwrap", "noop(_1)", "delete debug(__1)"} {
			assert.Contains(t, stdout, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, code := execute(t, "rules", "--format", "json")
		require.Equal(t, cli.ExitSuccess, code)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, []map[string]any{
			{"name": "unwrap", "match": "noop(_1)", "replace": "_1"},
			{"name": "delete debug(__1)", "match": "debug(__1)", "delete": true},
		}, got)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, code := execute(t, "rules", "--format", "yaml")
		assert.Equal(t, cli.ExitInvalidUsage, code)
	})
}

func TestRules_Empty(t *testing.T) {
	workspace(t, nil)

	stdout, _, code := execute(t, "--color", "never", "rules")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "No rules configured.\n", stdout)
}

func TestInit(t *testing.T) {
	dir := workspace(t, nil)
	path := filepath.Join(dir, configloader.ProjectConfigName)

	_, _, code := execute(t, "init")
	require.Equal(t, cli.ExitSuccess, code)

	cfg, err := config.FromYAML([]byte(readFile(t, path)))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Rules)

	_, _, code = execute(t, "init", "--full")
	assert.Equal(t, cli.ExitInvalidUsage, code, "an existing file is kept without --force")

	_, _, code = execute(t, "init", "--full", "--force")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, readFile(t, path), "verify: true")
}
