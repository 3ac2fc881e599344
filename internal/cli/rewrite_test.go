package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/internal/cli"
	"github.com/yaklabco/gotat/pkg/fsutil"
	"github.com/yaklabco/gotat/pkg/reporter"
)

const unwrapConfig = `rules:
  - name: unwrap
    match: noop(_1)
    replace: _1
`

func TestRewrite_DryRunPrintsDiff(t *testing.T) {
	dir := workspace(t, map[string]string{
		".gotat.yml": unwrapConfig,
		"a.py":       "x = noop(1)\n",
		"b.py":       "y = 2\n",
	})

	stdout, _, code := execute(t, "--color", "never", "rewrite")
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "--- a/a.py\n+++ b/a.py\n")
	assert.Contains(t, stdout, "-x = noop(1)\n+x = 1\n")
	assert.NotContains(t, stdout, "b.py")
	assert.Equal(t, "x = noop(1)\n", readFile(t, filepath.Join(dir, "a.py")))
}

func TestRewrite_Write(t *testing.T) {
	dir := workspace(t, map[string]string{
		".gotat.yml": unwrapConfig,
		"src/a.py":   "x = noop(1)  # keep\n",
		"README.md":  "Intro\n\n```python\nnoop(2)\n```\n",
	})

	_, _, code := execute(t, "--color", "never", "rewrite", "--write", "--backups", "--format", "text")
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "x = 1  # keep\n", readFile(t, filepath.Join(dir, "src", "a.py")))
	assert.Equal(t, "Intro\n\n```python\n2\n```\n", readFile(t, filepath.Join(dir, "README.md")))
	assert.FileExists(t, filepath.Join(dir, "src", "a.py")+fsutil.BackupSuffix)
}

func TestRewrite_FlagRules(t *testing.T) {
	dir := workspace(t, map[string]string{
		"a.py": "debug(x)\ny = noop(2)\n",
	})

	_, _, code := execute(t, "rewrite", "--write",
		"--rule", "noop(_1) => _1",
		"--delete", "debug(__1)",
		"--format", "summary",
	)
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "y = 2\n", readFile(t, filepath.Join(dir, "a.py")))
}

func TestRewrite_NoMarkdown(t *testing.T) {
	dir := workspace(t, map[string]string{
		".gotat.yml": unwrapConfig,
		"doc.md":     "```python\nnoop(2)\n```\n",
	})

	_, _, code := execute(t, "rewrite", "--write", "--no-markdown")
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "```python\nnoop(2)\n```\n", readFile(t, filepath.Join(dir, "doc.md")))
}

func TestRewrite_JSON(t *testing.T) {
	workspace(t, map[string]string{
		".gotat.yml": unwrapConfig,
		"a.py":       "x = noop(noop(1))\n",
	})

	stdout, _, code := execute(t, "rewrite", "--format", "json")
	require.Equal(t, cli.ExitSuccess, code)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Files, 1)
	assert.Equal(t, "a.py", out.Files[0].Path)
	assert.True(t, out.Files[0].Changed)
	assert.False(t, out.Files[0].Written)
	assert.Equal(t, 1, out.Summary.FilesChanged)
	assert.Equal(t, map[string]int{"unwrap": 2}, out.Summary.Rules)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode int
	}{
		{name: "clean", content: "x = 1\n", wantCode: cli.ExitSuccess},
		{name: "pending", content: "x = noop(1)\n", wantCode: cli.ExitChangesPending},
		{name: "parse failure", content: "def (\n", wantCode: cli.ExitFilesFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := workspace(t, map[string]string{
				".gotat.yml": unwrapConfig,
				"a.py":       tt.content,
			})

			_, _, code := execute(t, "check", "--format", "text")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.content, readFile(t, filepath.Join(dir, "a.py")), "check never writes")
		})
	}
}

func TestRewrite_Errors(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		args     []string
		wantCode int
	}{
		{name: "no rules", args: []string{"rewrite"}, wantCode: cli.ExitInvalidUsage},
		{name: "malformed rule flag", args: []string{"rewrite", "--rule", "noop(_1)"}, wantCode: cli.ExitInvalidUsage},
		{name: "invalid rule pattern", args: []string{"rewrite", "--delete", "noop("}, wantCode: cli.ExitInvalidUsage},
		{name: "invalid format", config: unwrapConfig, args: []string{"rewrite", "--format", "sarif"}, wantCode: cli.ExitInvalidUsage},
		{name: "invalid config", config: "flavor: gfm\n", args: []string{"rewrite"}, wantCode: cli.ExitConfigError},
		{name: "missing path", config: unwrapConfig, args: []string{"rewrite", "nope.py"}, wantCode: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{"a.py": "x = noop(1)\n"}
			if tt.config != "" {
				files[".gotat.yml"] = tt.config
			}
			workspace(t, files)

			_, _, code := execute(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRewrite_ExplicitConfig(t *testing.T) {
	dir := workspace(t, map[string]string{
		"a.py":         "x = noop(1)\n",
		"ci/rules.yml": unwrapConfig,
	})

	_, _, code := execute(t, "--config", filepath.Join(dir, "ci", "rules.yml"), "rewrite", "--write", "a.py")
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "x = 1\n", readFile(t, filepath.Join(dir, "a.py")))
}
