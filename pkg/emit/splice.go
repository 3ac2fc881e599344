package emit

import (
	"strings"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pygen"
	"github.com/yaklabco/gotat/pkg/trivia"
)

// spliceable reports whether the inline fields of a modified node can be
// spliced into its original text: every original child has a span, single
// and rigid fields kept their length, and no list became empty or stopped
// being empty.
func (e *emitter) spliceable(entry *index.Entry, fields []pyast.Field) bool {
	if len(fields) != len(entry.Children) {
		return false
	}
	for i, f := range fields {
		old := entry.Children[i].Nodes
		switch f.Role {
		case pyast.RoleSuite:
			continue
		case pyast.RoleSingle, pyast.RoleRigid:
			if len(old) != len(f.Nodes) {
				return false
			}
		case pyast.RoleList:
			if (len(old) == 0) != (len(f.Nodes) == 0) {
				return false
			}
		}
		for _, o := range old {
			if oe, ok := e.idx.Original(o); !ok || !oe.HasSpan {
				return false
			}
		}
	}
	return true
}

// splice returns the original text in [from, to) with the children of the
// inline fields of n replaced by their current text.
func (e *emitter) splice(n pyast.Node, entry *index.Entry, fields []pyast.Field, from, to int, indent string) string {
	var b strings.Builder
	cur := from
	var fixTail func(string) string
	write := func(upTo int) {
		gap := e.file.Slice(cur, upTo)
		if fixTail != nil {
			gap = fixTail(gap)
			fixTail = nil
		}
		b.WriteString(gap)
	}

	for i, f := range fields {
		if f.Role == pyast.RoleSuite {
			continue
		}
		old := entry.Children[i].Nodes
		if f.Role == pyast.RoleList {
			if len(old) == 0 {
				continue
			}
			start, end, text := e.list(n, f, old, cur, e.nextStart(entry, i, to), indent)
			write(start)
			b.WriteString(text)
			cur = end
			fixTail = listTail(n, f)
			continue
		}
		for j, c := range f.Nodes {
			oe, _ := e.idx.Original(old[j])
			write(oe.Span.Start)
			b.WriteString(e.slotted(n, f.Name, c, old[j], oe.Paren, indent))
			cur = oe.Span.End
		}
	}
	write(to)
	return b.String()
}

// nextStart returns the start of the first original child after field i,
// or limit.
func (e *emitter) nextStart(entry *index.Entry, field, limit int) int {
	for _, f := range entry.Children[field+1:] {
		for _, c := range f.Nodes {
			if ce, ok := e.idx.Original(c); ok && ce.HasSpan {
				return min(ce.Span.Start, limit)
			}
		}
	}
	return limit
}

// slotted returns the text of child c placed where old was. The original
// parentheses of the slot stay in the surrounding text; new ones are only
// added when the generator requires them and the slot had none.
func (e *emitter) slotted(parent pyast.Node, field string, c, old pyast.Node, slotParen bool, indent string) string {
	text := e.node(c, indent, false)
	x, ok := c.(pyast.Expr)
	if !ok || slotParen {
		return text
	}
	var wrap bool
	if c == old {
		wrap = e.res.Info(c).Dirty && pygen.NeedsParens(parent, field, c)
	} else {
		wrap = pygen.NeedsParens(parent, field, c) || (wrappable(x) && bareNewline(text))
	}
	if wrap {
		return "(" + text + ")"
	}
	return text
}

// list returns the reconciled text of a list field together with the
// original range it replaces. lo and hi bound the search for grouping
// parentheses around the first and last elements.
func (e *emitter) list(parent pyast.Node, f pyast.Field, old []pyast.Node, lo, hi int, indent string) (int, int, string) {
	entries := make([]*index.Entry, len(old))
	starts := make([]int, len(old))
	ends := make([]int, len(old))
	pos := make(map[pyast.Node]int, len(old))
	for k, o := range old {
		entries[k], _ = e.idx.Original(o)
		pos[o] = k
	}
	prevEnd := lo
	for k, oe := range entries {
		next := hi
		if k+1 < len(entries) {
			next = entries[k+1].Span.Start
		}
		starts[k], ends[k] = e.grouped(oe, prevEnd, next)
		prevEnd = ends[k]
	}

	gaps := make([]string, len(old)-1)
	for k := range gaps {
		gaps[k] = e.file.Slice(ends[k], starts[k+1])
	}
	inline := trivia.Inline{Gaps: gaps, Sep: pygen.Separator(parent, f.Name)}

	var b strings.Builder
	prev := trivia.Synthetic
	for j, c := range f.Nodes {
		k, ok := pos[c]
		if !ok {
			k = trivia.Synthetic
		}
		if j > 0 {
			b.WriteString(inline.Between(prev, k))
		}
		if ok {
			oe := entries[k]
			b.WriteString(e.file.Slice(starts[k], oe.Span.Start))
			b.WriteString(e.slotted(parent, f.Name, c, c, oe.Paren, indent))
			b.WriteString(e.file.Slice(oe.Span.End, ends[k]))
		} else {
			b.WriteString(e.slotted(parent, f.Name, c, nil, false, indent))
		}
		prev = k
	}
	return starts[0], ends[len(ends)-1], b.String()
}

// listTail returns the fix applied to the text following a list whose
// elements changed.
func listTail(parent pyast.Node, f pyast.Field) func(string) string {
	switch p := parent.(type) {
	case *pyast.Tuple:
		if len(p.Elts) == 1 {
			return func(tail string) string {
				if trivia.HasLeadingComma(tail) {
					return tail
				}
				return "," + tail
			}
		}
	case *pyast.Call:
		if f.Name == "Args" && len(p.Args) == 1 && isBareGenerator(p.Args[0]) {
			return trivia.TrimLeadingSeparator
		}
	}
	return nil
}

func isBareGenerator(x pyast.Expr) bool {
	c, ok := x.(*pyast.Comp)
	return ok && c.Form == pyast.CompGen && !c.Parens
}

// wrappable reports whether x may be enclosed in grouping parentheses.
func wrappable(x pyast.Expr) bool {
	switch x.(type) {
	case *pyast.Keyword, *pyast.Starred, *pyast.Slice:
		return false
	default:
		return true
	}
}

// grouped extends the span of entry over its own grouping parentheses,
// staying within [lo, hi).
func (e *emitter) grouped(entry *index.Entry, lo, hi int) (int, int) {
	start, end := entry.Span.Start, entry.Span.End
	if !entry.Paren {
		return start, end
	}
	text := e.file.Text()
	for {
		s := skipBack(text, lo, start)
		t := skipForward(text, end, hi)
		if s <= lo || t >= hi || text[s-1] != '(' || text[t] != ')' || callParen(text, s-1) {
			return start, end
		}
		start, end = s-1, t+1
	}
}
