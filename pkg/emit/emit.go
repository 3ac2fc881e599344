// Package emit regenerates source text for a transformed syntax tree.
//
// Every node takes one of three paths. Nodes whose subtree is intact are
// copied from the original text; nodes that have no original are rendered
// by pygen; modified originals are spliced, keeping the original text
// between their children and recursing into the children themselves. The
// gaps between statements and list elements are reconciled by package
// trivia, so comments and blank lines survive wherever their neighbours do.
package emit

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/provenance"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pygen"
	"github.com/yaklabco/gotat/pkg/source"
)

// MarkPrefix starts the comment written above generated statements when
// Options.Mark is set.
const MarkPrefix = "#=# generated code from line "

// Options controls regeneration.
type Options struct {
	// DefaultIndent is the block indentation for generated code when the
	// file has no indented block to learn it from. Defaults to four spaces.
	DefaultIndent string

	// Mark writes a MarkPrefix comment above every generated statement.
	Mark bool
}

// Session holds the index of one original tree. Create it before the
// transformation runs when the transformation mutates nodes in place.
type Session struct {
	file *source.File
	root pyast.Node
	idx  *index.Index
	opts Options
	unit string
}

// NewSession indexes the original tree rooted at root.
func NewSession(file *source.File, root pyast.Node, opts Options) (*Session, error) {
	idx, err := index.Build(file, root)
	if err != nil {
		return nil, err
	}
	if opts.DefaultIndent == "" {
		opts.DefaultIndent = pygen.DefaultUnit
	}
	return &Session{
		file: file,
		root: root,
		idx:  idx,
		opts: opts,
		unit: inferUnit(file, idx, opts.DefaultIndent),
	}, nil
}

// Index returns the index of the original tree.
func (s *Session) Index() *index.Index { return s.idx }

// Unit returns the block indentation inferred for the file.
func (s *Session) Unit() string { return s.unit }

// Regenerate returns the source text of working. Output is only returned
// when the whole tree could be emitted.
func (s *Session) Regenerate(working pyast.Node) (string, error) {
	res, err := provenance.Classify(s.idx, working)
	if err != nil {
		return "", err
	}
	e := &emitter{
		file:     s.file,
		idx:      s.idx,
		res:      res,
		opts:     s.opts,
		nl:       s.file.Newline(),
		base:     s.unit,
		rendered: make(map[pyast.Node]bool),
	}

	text := e.node(working, "", false)
	if e.err != nil {
		return "", e.err
	}
	if root, ok := s.idx.Original(s.root); ok && root.HasSpan {
		text = s.file.Slice(0, root.Span.Start) + text + s.file.Slice(root.Span.End, s.file.Len())
	}
	return text, nil
}

// Regenerate indexes original and returns the source text of working.
// Nodes shared between the two trees are treated as original; working must
// not have been produced by mutating original in place (use a Session).
func Regenerate(file *source.File, original, working pyast.Node, opts Options) (string, error) {
	s, err := NewSession(file, original, opts)
	if err != nil {
		return "", err
	}
	return s.Regenerate(working)
}

// inferUnit returns the indentation step of the first indented block in
// the file.
func inferUnit(file *source.File, idx *index.Index, fallback string) string {
	for entry := range idx.All() {
		if !isBlock(entry.Node) {
			continue
		}
		body := entry.FieldNodes("Body")
		if len(body) == 0 {
			continue
		}
		first, ok := idx.Original(body[0])
		if !ok || !first.HasSpan || first.Pos.Line == entry.Pos.Line {
			continue
		}
		outer, inner := file.Indentation(entry.Span.Start), file.Indentation(first.Span.Start)
		if len(inner) > len(outer) && strings.HasPrefix(inner, outer) {
			return inner[len(outer):]
		}
	}
	return fallback
}

type emitter struct {
	file *source.File
	idx  *index.Index
	res  *provenance.Result
	opts Options
	nl   string // line terminator of the file

	base  string   // unit of the file
	units []string // units of the enclosing original blocks

	// rendered records originals that went through the generator.
	rendered map[pyast.Node]bool

	// err is the first failure. Once it is set the emitter produces no
	// more text and Regenerate discards what was produced.
	err error
}

func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *emitter) unit() string {
	if n := len(e.units); n > 0 {
		return e.units[n-1]
	}
	return e.base
}

// node returns the text of n, whose first line is indented by indent.
// Statements come without their own leading indentation. elif is set for
// the if statement that continues an elif chain.
func (e *emitter) node(n pyast.Node, indent string, elif bool) string {
	if e.err != nil {
		return ""
	}
	info := e.res.Info(n)

	var text string
	switch {
	case info.Class == provenance.Synthetic:
		text = e.render(n, indent)
	case isBlock(n) && info.Entry.HasSpan && e.file.Indentation(info.Entry.Span.Start) != indent:
		e.rendered[n] = true
		text = e.render(n, indent)
	case info.Class == provenance.Unchanged:
		text = info.Entry.Span.Text()
	default:
		text = e.modified(n, info, indent)
	}

	if _, ok := n.(*pyast.If); ok {
		text = ifKeyword(text, elif)
	}
	return text
}

func (e *emitter) modified(n pyast.Node, info provenance.Info, indent string) string {
	entry := info.Entry
	if !entry.HasSpan {
		e.rendered[n] = true
		return e.render(n, indent)
	}
	if m, ok := n.(*pyast.Module); ok {
		return e.module(m, entry)
	}
	if isBlock(n) {
		return e.compound(n, info, indent)
	}
	fields := pyast.Fields(n)
	if info.Dirty || !e.spliceable(entry, fields) {
		e.rendered[n] = true
		return e.render(n, indent)
	}
	return e.splice(n, entry, fields, entry.Span.Start, entry.Span.End, indent)
}

func (e *emitter) style(indent string) pygen.Style {
	return pygen.Style{Indent: indent, Unit: e.unit(), Newline: e.nl, Embed: e.embed}
}

func (e *emitter) render(n pyast.Node, indent string) string {
	text, err := pygen.Render(n, e.style(indent))
	if err != nil {
		e.fail(err)
		return ""
	}
	return text
}

// embed supplies original text to the generator for every child that has
// an original and can keep its layout at indent.
func (e *emitter) embed(n pyast.Node, indent string) (string, bool) {
	info := e.res.Info(n)
	if e.err != nil || info.Class == provenance.Synthetic {
		return "", false
	}
	if isBlock(n) && info.Entry.HasSpan && e.file.Indentation(info.Entry.Span.Start) != indent {
		return "", false
	}
	elif := false
	if s, ok := n.(*pyast.If); ok {
		elif = s.IsElif
	}
	text := e.node(n, indent, elif)
	if x, ok := n.(pyast.Expr); ok && !x.Base().Paren && wrappable(x) && bareNewline(text) {
		text = "(" + text + ")"
	}
	return text, true
}

// stmt returns the text of a statement written as an item of a block.
func (e *emitter) stmt(n pyast.Node, indent string, elif bool, anchor int) string {
	text := e.node(n, indent, elif)
	if !e.opts.Mark {
		return text
	}
	info := e.res.Info(n)
	if info.Class != provenance.Synthetic && !e.rendered[n] {
		return text
	}
	line := anchor
	if info.Entry != nil && !info.Entry.Pos.IsZero() {
		line = info.Entry.Pos.Line
	}
	return MarkPrefix + strconv.Itoa(line) + e.nl + indent + text
}

// tailKept reports whether the last line of the text written for n is the
// original last line of n, so that the comment trailing that line still
// belongs after it.
func (e *emitter) tailKept(n pyast.Node) bool {
	info := e.res.Info(n)
	switch {
	case info.Entry == nil:
		return false
	case !isBlock(n):
		return true
	case e.rendered[n]:
		return false
	case info.Class == provenance.Unchanged:
		return true
	}
	last := lastItem(pyast.Fields(n))
	return last != nil && last == lastItem(info.Entry.Children) && e.tailKept(last)
}

func lastItem(fields []pyast.Field) pyast.Node {
	for i := len(fields) - 1; i >= 0; i-- {
		if f := fields[i]; f.Role == pyast.RoleSuite && len(f.Nodes) > 0 {
			return f.Nodes[len(f.Nodes)-1]
		}
	}
	return nil
}

// isBlock reports whether n owns indented blocks.
func isBlock(n pyast.Node) bool {
	k := n.Kind()
	return k.IsCompound() || k == pyast.KindExceptHandler
}

// ifKeyword makes an if statement's text start with the keyword its
// position requires.
func ifKeyword(text string, elif bool) string {
	switch {
	case elif && strings.HasPrefix(text, "if"):
		return "el" + text
	case !elif && strings.HasPrefix(text, "elif"):
		return text[2:]
	default:
		return text
	}
}
