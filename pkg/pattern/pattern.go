// Package pattern matches and rewrites expressions using patterns written
// in Python syntax.
//
// A pattern is an ordinary expression in which some names are
// placeholders:
//
//	_1      matches any single expression
//	__1     inside a list, matches zero or more elements that are not
//	        keyword arguments
//	x._1    captures an attribute name
//
// A placeholder used twice in one pattern only matches structurally equal
// nodes. Replacement templates use the same placeholders to refer to what
// the match captured.
package pattern

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

var (
	simpleRe   = regexp.MustCompile(`^_\d+$`)  //nolint:gochecknoglobals // compiled once
	variadicRe = regexp.MustCompile(`^__\d+$`) //nolint:gochecknoglobals // compiled once
)

// Pattern is a compiled expression pattern.
type Pattern struct {
	src  string
	expr pyast.Expr
	vars []string
}

// Compile parses src as an expression pattern.
func Compile(src string) (*Pattern, error) {
	expr, err := pyparse.ParseExpr(source.NewFileString("<pattern>", src))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", src, err)
	}
	p := &Pattern{src: src, expr: expr}
	if err := p.check(); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", src, err)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source of the pattern.
func (p *Pattern) String() string { return p.src }

// Expr returns the parsed pattern. It must not be modified.
func (p *Pattern) Expr() pyast.Expr { return p.expr }

// Placeholders returns the distinct placeholder names of the pattern in
// order of first appearance.
func (p *Pattern) Placeholders() []string { return slices.Clone(p.vars) }

// check validates variadic placeholders and collects placeholder names.
func (p *Pattern) check() error {
	if name, ok := variadicName(p.expr); ok {
		return fmt.Errorf("variadic placeholder %s must be a list element", name)
	}
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			p.vars = append(p.vars, name)
		}
	}
	var err error
	pyast.Inspect(p.expr, func(n pyast.Node) bool {
		if err != nil {
			return false
		}
		if name, ok := simpleName(n); ok {
			add(name)
		}
		if name, ok := variadicName(n); ok {
			add(name)
		}
		if name, ok := attrName(n); ok {
			add(name)
		}
		for _, f := range pyast.Fields(n) {
			count := 0
			for _, c := range f.Nodes {
				name, ok := variadicName(c)
				if !ok {
					continue
				}
				count++
				switch {
				case f.Role != pyast.RoleList:
					err = fmt.Errorf("variadic placeholder %s must be a list element", name)
				case count > 1:
					err = fmt.Errorf("only one variadic placeholder is allowed in %s.%s", n.Kind(), f.Name)
				}
			}
		}
		return err == nil
	})
	return err
}

func simpleName(n pyast.Node) (string, bool) {
	if x, ok := n.(*pyast.Name); ok && simpleRe.MatchString(x.Ident) {
		return x.Ident, true
	}
	return "", false
}

func variadicName(n pyast.Node) (string, bool) {
	if x, ok := n.(*pyast.Name); ok && variadicRe.MatchString(x.Ident) {
		return x.Ident, true
	}
	return "", false
}

func attrName(n pyast.Node) (string, bool) {
	if x, ok := n.(*pyast.Attribute); ok && simpleRe.MatchString(x.Attr) {
		return x.Attr, true
	}
	return "", false
}

// variadicIndex returns the position of the variadic placeholder in
// items, or -1.
func variadicIndex(items []pyast.Node) int {
	for i, n := range items {
		if _, ok := variadicName(n); ok {
			return i
		}
	}
	return -1
}
