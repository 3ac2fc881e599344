// Package markdown rewrites the Python code blocks of Markdown documents
// and leaves every other byte of the document alone.
package markdown

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gotat/pkg/fix"
	"github.com/yaklabco/gotat/pkg/pattern"
)

// Extensions are the file extensions treated as Markdown.
func Extensions() []string {
	return []string{".md", ".markdown"}
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	return slices.Contains(Extensions(), strings.ToLower(filepath.Ext(path)))
}

// Func rewrites the source of one code block.
type Func func(ctx context.Context, path string, src []byte) ([]byte, pattern.Stats, error)

// Block is a fenced code block.
type Block struct {
	// Language is the first word of the info string.
	Language string

	// Start and End delimit the block content in the document.
	Start, End int

	// Line is the 1-based line of the first content line.
	Line int

	// Contiguous is false when content lines do not start at the start of
	// their source line, as under a list indent or a block quote marker.
	Contiguous bool
}

// Blocks returns the fenced code blocks of src whose language is one of
// languages, in document order. Empty blocks are omitted.
func Blocks(src []byte, languages []string) []Block {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		code, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(string(code.Language(src)))
		lines := code.Lines()
		if lines.Len() == 0 || !slices.Contains(languages, lang) {
			return ast.WalkSkipChildren, nil
		}

		b := Block{Language: lang, Start: lines.At(0).Start, Contiguous: true}
		for i := range lines.Len() {
			seg := lines.At(i)
			if seg.Padding > 0 || (seg.Start > 0 && src[seg.Start-1] != '\n') {
				b.Contiguous = false
			}
			b.End = seg.Stop
		}
		b.Line = 1 + strings.Count(string(src[:b.Start]), "\n")
		blocks = append(blocks, b)
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// BlockError reports a code block that was left unchanged.
type BlockError struct {
	Line int
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("code block at line %d: %v", e.Line, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// Result is the outcome of rewriting a document.
type Result struct {
	Output []byte
	Stats  pattern.Stats

	// Blocks is the number of code blocks found; Rewritten counts those
	// whose text changed.
	Blocks    int
	Rewritten int

	// Skipped holds the blocks that could not be rewritten. A block that
	// does not parse or is nested in container markup is skipped rather
	// than failing the document.
	Skipped []*BlockError
}

// Options controls Rewrite.
type Options struct {
	// Languages are the fence languages treated as Python.
	Languages []string
}

// Rewrite runs fn over the Python blocks of src and splices the results
// back in. A document without Python blocks comes back unchanged.
func Rewrite(ctx context.Context, path string, src []byte, opts Options, fn Func) (*Result, error) {
	res := &Result{Output: src}
	edits := fix.NewEditBuilder()

	for _, b := range Blocks(src, opts.Languages) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", path, err)
		}
		res.Blocks++
		if !b.Contiguous {
			res.Skipped = append(res.Skipped, &BlockError{Line: b.Line, Err: ErrNested})
			continue
		}

		code := src[b.Start:b.End]
		out, stats, err := fn(ctx, fmt.Sprintf("%s:%d", path, b.Line), code)
		if err != nil {
			res.Skipped = append(res.Skipped, &BlockError{Line: b.Line, Err: err})
			continue
		}
		res.Stats.Add(stats)
		if string(out) == string(code) {
			continue
		}
		res.Rewritten++
		edits.ReplaceRange(b.Start, b.End, string(out))
	}

	if edits.Len() == 0 {
		return res, nil
	}
	out, err := edits.Apply(src)
	if err != nil {
		return nil, fmt.Errorf("splice code blocks: %w", err)
	}
	res.Output = out
	return res, nil
}
