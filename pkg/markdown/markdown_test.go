package markdown_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/markdown"
	"github.com/yaklabco/gotat/pkg/pattern"
)

var languages = []string{"python", "py", "python3"} //nolint:gochecknoglobals // test fixture

// rename replaces old with new in every block and counts one rewrite per
// changed block.
func rename(old, replacement string) markdown.Func {
	return func(_ context.Context, _ string, src []byte) ([]byte, pattern.Stats, error) {
		out := bytes.ReplaceAll(src, []byte(old), []byte(replacement))
		var stats pattern.Stats
		if !bytes.Equal(out, src) {
			stats.Replaced = 1
		}
		return out, stats, nil
	}
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"# Title",
		"",
		"```python",
		"x = 1",
		"```",
		"",
		"```go",
		"x := 1",
		"```",
		"",
		"~~~ PY title=demo",
		"y = 2",
		"z = 3",
		"~~~",
		"",
		"```py",
		"```",
		"",
		"- item",
		"",
		"  ```python",
		"  nested()",
		"  ```",
		"",
	}, "\n")

	blocks := markdown.Blocks([]byte(doc), languages)
	require.Len(t, blocks, 3)

	assert.Equal(t, "python", blocks[0].Language)
	assert.Equal(t, 4, blocks[0].Line)
	assert.Equal(t, "x = 1\n", doc[blocks[0].Start:blocks[0].End])
	assert.True(t, blocks[0].Contiguous)

	assert.Equal(t, "py", blocks[1].Language)
	assert.Equal(t, 12, blocks[1].Line)
	assert.Equal(t, "y = 2\nz = 3\n", doc[blocks[1].Start:blocks[1].End])

	assert.Equal(t, 22, blocks[2].Line)
	assert.False(t, blocks[2].Contiguous)
}

func TestRewrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("document without python blocks is identical", func(t *testing.T) {
		t.Parallel()
		doc := []byte("# old\n\n```go\nold()\n```\n\nText with `old` code.\n")
		res, err := markdown.Rewrite(ctx, "a.md", doc, markdown.Options{Languages: languages}, rename("old", "new"))
		require.NoError(t, err)
		assert.Equal(t, doc, res.Output)
		assert.Zero(t, res.Blocks)
		assert.Zero(t, res.Stats.Total())
	})

	t.Run("only code blocks change", func(t *testing.T) {
		t.Parallel()
		doc := "old text\n\n```python\nold(1)\n```\n\n```python\nkeep()\n```\n\n```py\nold(2)  # old\n```\n"
		res, err := markdown.Rewrite(ctx, "a.md", []byte(doc), markdown.Options{Languages: languages}, rename("old", "new"))
		require.NoError(t, err)
		assert.Equal(t,
			"old text\n\n```python\nnew(1)\n```\n\n```python\nkeep()\n```\n\n```py\nnew(2)  # new\n```\n",
			string(res.Output))
		assert.Equal(t, 3, res.Blocks)
		assert.Equal(t, 2, res.Rewritten)
		assert.Equal(t, 2, res.Stats.Replaced)
	})

	t.Run("failing block is skipped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		fn := func(_ context.Context, path string, src []byte) ([]byte, pattern.Stats, error) {
			if bytes.Contains(src, []byte("bad")) {
				return nil, pattern.Stats{}, boom
			}
			assert.Equal(t, "a.md:12", path)
			return []byte("good()\n"), pattern.Stats{Replaced: 1}, nil
		}
		doc := "```python\nbad(\n```\n\n- list\n\n  ```python\n  x\n  ```\n\n```python\nx\n```\n"
		res, err := markdown.Rewrite(ctx, "a.md", []byte(doc), markdown.Options{Languages: languages}, fn)
		require.NoError(t, err)
		require.Len(t, res.Skipped, 2)
		require.ErrorIs(t, res.Skipped[0], boom)
		assert.Equal(t, 2, res.Skipped[0].Line)
		require.ErrorIs(t, res.Skipped[1], markdown.ErrNested)
		assert.True(t, strings.HasSuffix(string(res.Output), "```python\ngood()\n```\n"))
		assert.True(t, strings.HasPrefix(string(res.Output), "```python\nbad(\n```\n"))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := markdown.Rewrite(cctx, "a.md", []byte("```python\nx\n```\n"), markdown.Options{Languages: languages}, rename("x", "y"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsMarkdown(t *testing.T) {
	t.Parallel()
	assert.True(t, markdown.IsMarkdown("docs/README.md"))
	assert.True(t, markdown.IsMarkdown("guide.Markdown"))
	assert.False(t, markdown.IsMarkdown("main.py"))
}
