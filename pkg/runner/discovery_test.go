package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/runner"
)

// tree creates files under a new temp directory and returns it.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"main.py":                    "x = 1\n",
		"stubs/mod.pyi":              "def f() -> int: ...\n",
		"README.md":                  "# readme\n",
		"notes.txt":                  "text\n",
		"cmds/tool":                   "#!/usr/bin/env python3\nprint(1)\n",
		"cmds/deploy":                 "#!/bin/sh\necho hi\n",
		"cmds/plain":                  "def main():\n    pass\n",
		".hidden/secret.py":          "x\n",
		"pkg/.dot.py":                "x\n",
		"pkg/__pycache__/a.py":       "x\n",
		"pkg/proto/api_pb2.py":         "x\n",
		"pkg/core.py":                "x\n",
		"legacy/out.py":               "x\n",
		"node_modules/lib/index.py":  "x\n",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			opts: runner.Options{},
			want: []string{
				"legacy/out.py", "main.py", "node_modules/lib/index.py", "pkg/core.py",
				"pkg/proto/api_pb2.py", "stubs/mod.pyi",
			},
		},
		{
			name: "markdown, scripts and vendored",
			opts: runner.Options{Markdown: true, DetectScripts: true, SkipVendored: true},
			want: []string{
				"README.md", "cmds/plain", "cmds/tool", "legacy/out.py", "main.py", "pkg/core.py",
				"pkg/proto/api_pb2.py", "stubs/mod.pyi",
			},
		},
		{
			name: "ignore globs",
			opts: runner.Options{ExcludeGlobs: []string{"legacy/**", "*_pb2.py", "node_modules"}},
			want: []string{"main.py", "pkg/core.py", "stubs/mod.pyi"},
		},
		{
			name: "explicit paths",
			opts: runner.Options{Paths: []string{"pkg", "main.py", "notes.txt", "main.py"}},
			want: []string{"main.py", "pkg/core.py", "pkg/proto/api_pb2.py"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".pyi"}},
			want: []string{"stubs/mod.pyi"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := tt.opts
			opts.WorkingDir = root
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()
	root := tree(t, map[string]string{"a.py": "x\n"})

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, Paths: []string{"missing"}})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, ExcludeGlobs: []string{"[a-"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsPythonScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"env shebang", "#!/usr/bin/env python3\nx = 1\n", true},
		{"direct shebang", "#!/usr/bin/python\n", true},
		{"shell shebang", "#!/bin/bash\ndef x():\n", false},
		{"main guard", "if __name__ == '__main__':\n    run()\n", true},
		{"from import", "from os import path\n", true},
		{"class", "class A:\n    pass\n", true},
		{"prose", "Copyright the authors.\nAll rights reserved.\n", false},
		{"empty", "", false},
		{"binary", "\x00\x01\x02def f():", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, runner.IsPythonScript([]byte(tt.content)))
		})
	}
}
