package emit

import (
	"strings"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/provenance"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pygen"
	"github.com/yaklabco/gotat/pkg/trivia"
)

// layout is the original text of one suite field of a compound statement.
type layout struct {
	present bool

	// elif is set for an orelse that was written as an elif clause.
	elif bool

	// prefix is the text from the end of the previous suite's trailing
	// comment through the colon of the clause keyword ("else:").
	prefix string

	// gaps are the block gaps of the items. The last one is empty: the
	// comment trailing the last item is in outer.
	gaps []string

	// inline is set when the first item shares the line of the header.
	inline bool

	// indent is the indentation of the line of the first item.
	indent string

	// outer is the rest of the line of the last item.
	outer string

	// final is set on the last suite of the original. Its outer lies past
	// the end of the compound, in the gap of the enclosing block.
	final bool
}

func (e *emitter) module(m *pyast.Module, entry *index.Entry) string {
	orig := entry.FieldNodes("Body")
	spans, ok := e.spans(orig)
	if !ok {
		e.rendered[m] = true
		return e.render(m, "")
	}
	start, end := entry.Span.Start, entry.Span.End

	var b strings.Builder
	if len(orig) == 0 {
		text := e.file.Slice(start, end)
		b.WriteString(text)
		if text != "" && !strings.HasSuffix(text, "\n") && len(m.Body) > 0 {
			b.WriteString(e.nl)
		}
		for _, s := range m.Body {
			b.WriteString(e.stmt(s, "", false, 1))
			b.WriteString(e.nl)
		}
		return b.String()
	}

	gaps := make([]string, len(orig)+1)
	gaps[0] = e.file.Slice(start, spans[0].Span.Start)
	for i := 1; i < len(orig); i++ {
		gaps[i] = e.file.Slice(spans[i-1].Span.End, spans[i].Span.Start)
	}
	gaps[len(orig)] = e.file.Slice(spans[len(orig)-1].Span.End, end)

	if len(m.Body) == 0 {
		return gaps[0] + strings.TrimPrefix(trivia.WithoutTrail(gaps[len(orig)]), e.nl)
	}

	items := make([]pyast.Node, len(m.Body))
	for i, s := range m.Body {
		items[i] = s
	}
	blk := trivia.Block{Gaps: gaps, AtLineStart: true, Newline: e.nl}
	e.block(&b, blk, items, orig, "", false, 1, "", true)
	return b.String()
}

// compound splices a modified compound statement: its header is spliced
// or, when its own attributes changed, re-rendered; its suites go through
// the block reconciler.
func (e *emitter) compound(n pyast.Node, info provenance.Info, indent string) string {
	entry := info.Entry
	fields := pyast.Fields(n)
	if len(fields) != len(entry.Children) || !e.suitesSpliceable(entry) {
		e.rendered[n] = true
		return e.render(n, indent)
	}
	if err := validate(n); err != nil {
		e.fail(err)
		return ""
	}

	colon := e.headerEnd(entry)
	if e.err != nil {
		return ""
	}
	var header string
	if info.Dirty || !e.spliceable(entry, fields) {
		h, err := pygen.RenderHeader(n, e.style(indent))
		if err != nil {
			e.fail(err)
			return ""
		}
		header = h
	} else {
		header = e.splice(n, entry, fields, entry.Span.Start, colon, indent)
	}

	layouts := e.layouts(entry, colon)
	if e.err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(header)
	e.suites(&b, n, entry, fields, layouts, indent)
	return b.String()
}

func (e *emitter) suitesSpliceable(entry *index.Entry) bool {
	for _, f := range entry.Children {
		if f.Role != pyast.RoleSuite {
			continue
		}
		if _, ok := e.spans(f.Nodes); !ok {
			return false
		}
	}
	return true
}

func (e *emitter) spans(nodes []pyast.Node) ([]*index.Entry, bool) {
	out := make([]*index.Entry, len(nodes))
	for i, n := range nodes {
		oe, ok := e.idx.Original(n)
		if !ok || !oe.HasSpan {
			return nil, false
		}
		out[i] = oe
	}
	return out, true
}

// validate rejects combinations of clauses the grammar does not allow.
// A try left without handlers and finalbody is not one of them: its
// finally clause is written with pass.
func validate(n pyast.Node) error {
	if t, ok := n.(*pyast.Try); ok && len(t.Handlers) == 0 && len(t.Orelse) > 0 {
		return &pygen.GenerationError{Node: n, Msg: "try with else but without except"}
	}
	return nil
}

// layouts recovers the original text of every suite field of entry.
// colon is the offset just after the header.
func (e *emitter) layouts(entry *index.Entry, colon int) []layout {
	out := make([]layout, len(entry.Children))
	prevEnd := colon
	var prev *layout
	for i, f := range entry.Children {
		if f.Role != pyast.RoleSuite || len(f.Nodes) == 0 {
			continue
		}
		spans, _ := e.spans(f.Nodes)
		l := &out[i]
		l.present = true

		gap0 := e.file.Slice(prevEnd, spans[0].Span.Start)
		if prev != nil {
			trail, _, _ := trivia.Split(gap0)
			prev.outer = trail
			gap0 = gap0[len(trail):]
			switch {
			case f.Clause == "":
			case strings.HasPrefix(spans[0].Span.Text(), "elif"):
				l.elif = true
			default:
				kw := clauseStart(gap0)
				c := -1
				if kw >= 0 {
					c = strings.IndexByte(gap0[kw:], ':')
				}
				if c < 0 {
					e.fail(&index.PositioningError{
						Node:   f.Nodes[0],
						Pos:    spans[0].Pos,
						Reason: "no " + f.Clause + " clause before block",
					})
					return nil
				}
				l.prefix = gap0[:kw+c+1]
				gap0 = gap0[kw+c+1:]
			}
		}

		l.gaps = make([]string, len(spans)+1)
		l.gaps[0] = gap0
		for k := 1; k < len(spans); k++ {
			l.gaps[k] = e.file.Slice(spans[k-1].Span.End, spans[k].Span.Start)
		}
		l.inline = !strings.Contains(gap0, "\n")
		l.indent = e.file.Indentation(spans[0].Span.Start)

		prevEnd = spans[len(spans)-1].Span.End
		prev = l
	}
	if prev != nil {
		prev.outer = e.lineTrail(prevEnd)
		prev.final = true
	}
	return out
}

// lineTrail returns the text from offset to the end of its line, or to the
// end of the file.
func (e *emitter) lineTrail(offset int) string {
	rest := e.file.Slice(offset, e.file.Len())
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = strings.TrimSuffix(rest[:i], "\r")
	}
	return rest
}

// suites writes the blocks of compound n at indent.
func (e *emitter) suites(b *strings.Builder, n pyast.Node, entry *index.Entry, fields []pyast.Field, layouts []layout, indent string) {
	anchor := entry.Pos.Line
	last := lastSuite(n, fields)
	for i, f := range fields {
		if f.Role != pyast.RoleSuite {
			continue
		}
		items := f.Nodes
		if len(items) == 0 {
			if !required(n, f) {
				continue
			}
			items = []pyast.Node{&pyast.Pass{}}
		}
		l := layouts[i]
		elif := isElifChain(n, f, items)
		_, handlers := items[0].(*pyast.ExceptHandler)
		headed := handlers || elif

		orig := entry.Children[i].Nodes
		keep := l.present && l.elif == elif && !(l.inline && !sameNodes(items, orig))

		blockIndent := indent
		if !headed {
			blockIndent = indent + e.unit()
			if keep && !l.inline {
				blockIndent = l.indent
			}
		}

		var blk trivia.Block
		if keep {
			b.WriteString(l.prefix)
			blk = trivia.Block{Gaps: l.gaps, Indent: blockIndent, Newline: e.nl}
		} else {
			if !headed && f.Clause != "" {
				b.WriteString(e.nl + indent + f.Clause + ":")
			}
			blk = trivia.Block{Gaps: []string{""}, Indent: blockIndent, Newline: e.nl}
			orig = nil
		}

		pushed := false
		if keep && !headed && !l.inline && len(blockIndent) > len(indent) && strings.HasPrefix(blockIndent, indent) {
			e.units = append(e.units, blockIndent[len(indent):])
			pushed = true
		}
		outer := ""
		if keep {
			outer = l.outer
		}
		e.block(b, blk, items, orig, blockIndent, elif, anchor, outer, i == last && l.final)
		if pushed {
			e.units = e.units[:len(e.units)-1]
		}
	}
}

// block writes the items of one statement sequence with reconciled gaps.
// orig holds the original items the gaps of blk belong to. outer is the
// rest of the line of the last original item. It is written after that
// item, except at the very end when closing is set: the gap of the
// enclosing block then holds it.
func (e *emitter) block(b *strings.Builder, blk trivia.Block, items, orig []pyast.Node, indent string, elif bool, anchor int, outer string, closing bool) {
	pos := make(map[pyast.Node]int, len(orig))
	for i, o := range orig {
		pos[o] = i
	}
	lastOrig := len(orig) - 1
	prev := trivia.Synthetic
	for j, item := range items {
		idx, ok := pos[item]
		if !ok {
			idx = trivia.Synthetic
		}
		var gap string
		if j == 0 {
			gap = blk.Leading(idx)
		} else {
			gap = blk.Between(prev, idx)
			switch {
			case !e.tailKept(items[j-1]):
				gap = trivia.WithoutTrail(gap)
			case prev >= 0 && prev == lastOrig:
				gap = outer + gap
			}
		}
		b.WriteString(gap)
		b.WriteString(e.stmt(item, indent, elif, anchor))
		if entry, ok := e.idx.Original(item); ok && !entry.Pos.IsZero() {
			anchor = entry.Pos.Line
		}
		prev = idx
	}
	tail := blk.Trailing(prev)
	switch {
	case !e.tailKept(items[len(items)-1]):
		tail = trivia.WithoutTrail(tail)
		if !strings.Contains(tail, "\n") {
			// Nothing but the trail is left before the end of the file.
			tail = ""
		}
	case prev >= 0 && prev == lastOrig && !closing:
		tail = outer + tail
	}
	b.WriteString(tail)
}

// required reports whether suite f of n is written even when empty.
func required(n pyast.Node, f pyast.Field) bool {
	if t, ok := n.(*pyast.Try); ok && f.Name == "Finalbody" && len(t.Handlers) == 0 {
		return true
	}
	return f.Required
}

// lastSuite returns the index in fields of the last suite written for n.
func lastSuite(n pyast.Node, fields []pyast.Field) int {
	for i := len(fields) - 1; i >= 0; i-- {
		if f := fields[i]; f.Role == pyast.RoleSuite && (len(f.Nodes) > 0 || required(n, f)) {
			return i
		}
	}
	return -1
}

// isElifChain reports whether items, the orelse of n, form an elif clause.
func isElifChain(n pyast.Node, f pyast.Field, items []pyast.Node) bool {
	if _, ok := n.(*pyast.If); !ok || f.Name != "Orelse" || len(items) != 1 {
		return false
	}
	s, ok := items[0].(*pyast.If)
	return ok && s.IsElif
}

func sameNodes(a, b []pyast.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
