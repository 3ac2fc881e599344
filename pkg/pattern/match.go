package pattern

import (
	"github.com/yaklabco/gotat/pkg/pyast"
)

// CaptureKind tells which field of a Capture is set.
type CaptureKind uint8

const (
	// CaptureExpr is the capture of a _N placeholder.
	CaptureExpr CaptureKind = iota

	// CaptureList is the capture of a __N placeholder.
	CaptureList

	// CaptureAttr is the capture of an x._N attribute name.
	CaptureAttr
)

// Capture is what one placeholder matched. Captured nodes belong to the
// matched tree.
type Capture struct {
	Kind CaptureKind
	Expr pyast.Expr
	List []pyast.Expr
	Attr string
}

// Captures maps placeholder names to their captures.
type Captures map[string]Capture

// Expr returns the expression captured by name.
func (c Captures) Expr(name string) (pyast.Expr, bool) {
	capture, ok := c[name]
	if !ok || capture.Kind != CaptureExpr {
		return nil, false
	}
	return capture.Expr, true
}

// Match reports whether n matches the pattern and returns the captures.
func (p *Pattern) Match(n pyast.Node) (Captures, bool) {
	if n == nil {
		return nil, false
	}
	m := matcher{caps: make(Captures)}
	if !m.match(p.expr, n) {
		return nil, false
	}
	return m.caps, true
}

type matcher struct {
	caps Captures
}

func (m *matcher) match(p, n pyast.Node) bool {
	if name, ok := simpleName(p); ok {
		x, ok := n.(pyast.Expr)
		return ok && m.bind(name, Capture{Kind: CaptureExpr, Expr: x})
	}
	if p.Kind() != n.Kind() {
		return false
	}
	if name, ok := attrName(p); ok {
		if !m.bind(name, Capture{Kind: CaptureAttr, Attr: n.(*pyast.Attribute).Attr}) {
			return false
		}
	} else if !sameAttrs(p, n) {
		return false
	}

	pf, nf := pyast.Fields(p), pyast.Fields(n)
	for i := range pf {
		if !m.items(pf[i].Nodes, nf[i].Nodes) {
			return false
		}
	}
	return true
}

// items matches the children of one field.
func (m *matcher) items(ps, ns []pyast.Node) bool {
	v := variadicIndex(ps)
	if v < 0 {
		if len(ps) != len(ns) {
			return false
		}
		for i := range ps {
			if !m.match(ps[i], ns[i]) {
				return false
			}
		}
		return true
	}

	before, after := ps[:v], ps[v+1:]
	if len(ns) < len(before)+len(after) {
		return false
	}
	mid := ns[len(before) : len(ns)-len(after)]
	list := make([]pyast.Expr, len(mid))
	for i, n := range mid {
		x, ok := n.(pyast.Expr)
		if !ok {
			return false
		}
		if _, kw := x.(*pyast.Keyword); kw {
			return false
		}
		list[i] = x
	}
	for i := range before {
		if !m.match(before[i], ns[i]) {
			return false
		}
	}
	for i := range after {
		if !m.match(after[i], ns[len(ns)-len(after)+i]) {
			return false
		}
	}
	name, _ := variadicName(ps[v])
	return m.bind(name, Capture{Kind: CaptureList, List: list})
}

// bind records a capture. A placeholder that is already bound only
// accepts an equal capture.
func (m *matcher) bind(name string, c Capture) bool {
	prev, ok := m.caps[name]
	if !ok {
		m.caps[name] = c
		return true
	}
	if prev.Kind != c.Kind {
		return false
	}
	switch c.Kind {
	case CaptureExpr:
		return pyast.Equal(prev.Expr, c.Expr)
	case CaptureList:
		if len(prev.List) != len(c.List) {
			return false
		}
		for i := range c.List {
			if !pyast.Equal(prev.List[i], c.List[i]) {
				return false
			}
		}
		return true
	default:
		return prev.Attr == c.Attr
	}
}

// sameAttrs compares the scalar attributes of a pattern node and a
// candidate of the same kind. Literals compare by value, so quoting does
// not matter, and tuples match with or without parentheses.
func sameAttrs(p, n pyast.Node) bool {
	switch p := p.(type) {
	case *pyast.Constant:
		c := n.(*pyast.Constant)
		return p.Type == c.Type && p.Value == c.Value
	case *pyast.Tuple:
		return true
	case *pyast.Comp:
		return p.Form == n.(*pyast.Comp).Form
	default:
		return pyast.Fingerprint(p) == pyast.Fingerprint(n)
	}
}
