package pattern

import (
	"fmt"

	"github.com/yaklabco/gotat/pkg/pyast"
)

// Substitute instantiates the template with captures. The result is a
// fresh tree except for the captured nodes: the first use of a capture
// places the captured node itself, so its original text can be kept, and
// later uses place clones.
func Substitute(template *Pattern, caps Captures) (pyast.Expr, error) {
	s := substitution{caps: caps, used: make(map[pyast.Node]bool)}
	root := pyast.Apply(pyast.Clone(template.expr), s.visit, nil)
	if s.err != nil {
		return nil, fmt.Errorf("template %q: %w", template.src, s.err)
	}
	x, ok := root.(pyast.Expr)
	if !ok || x == nil {
		return nil, fmt.Errorf("template %q: substitution left no expression", template.src)
	}
	return x, nil
}

type substitution struct {
	caps Captures
	used map[pyast.Node]bool
	err  error
}

// take returns x for its first use and a clone afterwards.
func (s *substitution) take(x pyast.Expr) pyast.Expr {
	if s.used[x] {
		return pyast.Clone(x)
	}
	s.used[x] = true
	return x
}

func (s *substitution) lookup(name string) (Capture, bool) {
	c, ok := s.caps[name]
	if !ok {
		s.err = fmt.Errorf("placeholder %s is not captured", name)
	}
	return c, ok
}

func (s *substitution) visit(c *pyast.Cursor) bool {
	if s.err != nil {
		return false
	}
	switch n := c.Node().(type) {
	case *pyast.Name:
		if name, ok := simpleName(n); ok {
			s.single(c, name)
			return false
		}
		if name, ok := variadicName(n); ok {
			s.splice(c, name)
			return false
		}
	case *pyast.Attribute:
		if name, ok := attrName(n); ok {
			capture, ok := s.lookup(name)
			if !ok {
				return false
			}
			switch {
			case capture.Kind == CaptureAttr:
				n.Attr = capture.Attr
			case capture.Kind == CaptureExpr && isName(capture.Expr):
				n.Attr = capture.Expr.(*pyast.Name).Ident
			default:
				s.err = fmt.Errorf("placeholder %s cannot name an attribute", name)
				return false
			}
		}
	}
	return true
}

func (s *substitution) single(c *pyast.Cursor, name string) {
	capture, ok := s.lookup(name)
	if !ok {
		return
	}
	switch capture.Kind {
	case CaptureExpr:
		c.Replace(s.take(capture.Expr))
	case CaptureAttr:
		c.Replace(&pyast.Name{Ident: capture.Attr})
	case CaptureList:
		s.err = fmt.Errorf("placeholder %s captured a list", name)
	}
}

func (s *substitution) splice(c *pyast.Cursor, name string) {
	capture, ok := s.lookup(name)
	if !ok {
		return
	}
	if capture.Kind != CaptureList || c.Role() != pyast.RoleList {
		s.err = fmt.Errorf("placeholder %s must be spliced into a list", name)
		return
	}
	for _, x := range capture.List {
		c.InsertBefore(s.take(x))
	}
	c.Delete()
}

func isName(x pyast.Expr) bool {
	_, ok := x.(*pyast.Name)
	return ok
}
