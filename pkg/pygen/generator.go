// Package pygen renders pyast trees as Python source text.
//
// Output is canonical rather than pretty: single spaces around binary
// operators, ", " between list elements, single-quoted strings when a
// constant carries no raw text, and parentheses only where precedence
// requires them. Children may be supplied as ready-made text through
// Style.Embed, which is how original formatting survives inside generated
// code.
package pygen

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gotat/pkg/pyast"
)

// DefaultUnit is the block indentation used when Style.Unit is empty.
const DefaultUnit = "    "

// Style controls the layout of rendered text.
type Style struct {
	// Indent is the indentation of the line on which the rendered node
	// starts. Nested blocks are indented relative to it.
	Indent string

	// Unit is one level of block indentation.
	Unit string

	// Newline ends every generated line. Defaults to "\n".
	Newline string

	// Embed is consulted for every child before it is rendered. indent is
	// the indentation of the line on which the child starts. If Embed
	// returns false the child is rendered. Embed is never called for the
	// node passed to Render itself.
	Embed func(n pyast.Node, indent string) (string, bool)
}

// GenerationError reports a node that cannot be rendered as valid source.
type GenerationError struct {
	Node pyast.Node
	Msg  string
}

func (e *GenerationError) Error() string {
	if e.Node == nil {
		return "cannot generate source: " + e.Msg
	}
	return fmt.Sprintf("cannot generate %s: %s", e.Node.Kind(), e.Msg)
}

// Render returns the source text of n. A statement is rendered without
// leading indentation and without a trailing newline; lines of nested
// blocks carry their full indentation. A Module ends with a newline.
func Render(n pyast.Node, style Style) (_ string, err error) {
	g := &gen{style: style, cur: style.Indent}
	defer g.handle(&err)

	if n == nil {
		g.fail(nil, "nil node")
	}
	switch n := n.(type) {
	case pyast.Stmt:
		return g.stmt(n, style.Indent), nil
	case pyast.Expr:
		return g.expr(n), nil
	default:
		return g.helper(n, style.Indent), nil
	}
}

// RenderHeader returns the header of a compound statement or except
// handler: everything up to and including the colon that opens its first
// block. Decorators are part of the header of functions and classes.
func RenderHeader(n pyast.Node, style Style) (_ string, err error) {
	g := &gen{style: style, cur: style.Indent}
	defer g.handle(&err)

	if !n.Kind().IsCompound() && n.Kind() != pyast.KindExceptHandler {
		g.fail(n, "not a compound statement")
	}
	elif := false
	if s, ok := n.(*pyast.If); ok {
		elif = s.IsElif
	}
	return g.header(n, style.Indent, elif), nil
}

type gen struct {
	style Style
	cur   string // indentation of the statement being rendered
}

func (g *gen) handle(err *error) {
	if r := recover(); r != nil {
		ge, ok := r.(*GenerationError)
		if !ok {
			panic(r)
		}
		*err = ge
	}
}

func (g *gen) fail(n pyast.Node, format string, args ...any) {
	panic(&GenerationError{Node: n, Msg: fmt.Sprintf(format, args...)})
}

func (g *gen) unit() string {
	if g.style.Unit == "" {
		return DefaultUnit
	}
	return g.style.Unit
}

func (g *gen) nl() string {
	if g.style.Newline == "" {
		return "\n"
	}
	return g.style.Newline
}

func (g *gen) embed(n pyast.Node, indent string) (string, bool) {
	if g.style.Embed == nil {
		return "", false
	}
	return g.style.Embed(n, indent)
}

// child returns the text of the expression c in the given field of parent.
func (g *gen) child(parent pyast.Node, field string, c pyast.Expr) string {
	if c == nil {
		g.fail(parent, "missing %s", field)
	}
	text, embedded := g.embed(c, g.cur)
	if !embedded {
		text = g.expr(c)
	}
	if NeedsParens(parent, field, c) || (embedded && c.Base().Paren) {
		return "(" + text + ")"
	}
	return text
}

// optional is child for a field that may be nil; prefix is written before
// a present child.
func (g *gen) optional(parent pyast.Node, field string, c pyast.Expr, prefix string) string {
	if c == nil {
		return ""
	}
	return prefix + g.child(parent, field, c)
}

// node returns the text of any child: expressions go through child,
// helper nodes through helper.
func (g *gen) node(parent pyast.Node, field string, n pyast.Node) string {
	if e, ok := n.(pyast.Expr); ok {
		return g.child(parent, field, e)
	}
	if text, ok := g.embed(n, g.cur); ok {
		return text
	}
	return g.helper(n, g.cur)
}

func join[T pyast.Node](g *gen, parent pyast.Node, field string, items []T) string {
	sep := Separator(parent, field)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = g.node(parent, field, item)
	}
	return strings.Join(parts, sep)
}

// ----------------------------------------------------------------------------
// Statements

func (g *gen) stmt(s pyast.Stmt, indent string) string {
	saved := g.cur
	g.cur = indent
	defer func() { g.cur = saved }()

	switch s := s.(type) {
	case *pyast.Module:
		parts := make([]string, len(s.Body))
		for i, st := range s.Body {
			parts[i] = indent + g.stmtChild(st, indent)
		}
		return strings.Join(parts, g.nl()) + g.nl()
	case *pyast.ExprStmt:
		return g.child(s, "Value", s.Value)
	case *pyast.Assign:
		if len(s.Targets) == 0 {
			g.fail(s, "assignment without targets")
		}
		return join(g, s, "Targets", s.Targets) + " = " + g.child(s, "Value", s.Value)
	case *pyast.AugAssign:
		if !isAugOp(s.Op) {
			g.fail(s, "unknown operator %q", s.Op)
		}
		return g.child(s, "Target", s.Target) + " " + s.Op + " " + g.child(s, "Value", s.Value)
	case *pyast.AnnAssign:
		return g.child(s, "Target", s.Target) + ": " + g.child(s, "Annotation", s.Annotation) +
			g.optional(s, "Value", s.Value, " = ")
	case *pyast.Pass:
		return "pass"
	case *pyast.Break:
		return "break"
	case *pyast.Continue:
		return "continue"
	case *pyast.Return:
		return "return" + g.optional(s, "Value", s.Value, " ")
	case *pyast.Raise:
		if s.Exc == nil && s.Cause != nil {
			g.fail(s, "cause without exception")
		}
		return "raise" + g.optional(s, "Exc", s.Exc, " ") + g.optional(s, "Cause", s.Cause, " from ")
	case *pyast.Assert:
		return "assert " + g.child(s, "Test", s.Test) + g.optional(s, "Msg", s.Msg, ", ")
	case *pyast.Del:
		if len(s.Targets) == 0 {
			g.fail(s, "del without targets")
		}
		return "del " + join(g, s, "Targets", s.Targets)
	case *pyast.Global:
		if len(s.Names) == 0 {
			g.fail(s, "declaration without names")
		}
		kw := "global "
		if s.Nonlocal {
			kw = "nonlocal "
		}
		return kw + strings.Join(s.Names, ", ")
	case *pyast.Import:
		if len(s.Names) == 0 {
			g.fail(s, "import without names")
		}
		return "import " + join(g, s, "Names", s.Names)
	case *pyast.ImportFrom:
		if len(s.Names) == 0 {
			g.fail(s, "import without names")
		}
		from := strings.Repeat(".", s.Level) + s.Module
		if from == "" {
			g.fail(s, "import from without module")
		}
		return "from " + from + " import " + join(g, s, "Names", s.Names)
	case *pyast.If:
		return g.ifStmt(s, indent, false)
	case *pyast.While:
		return g.header(s, indent, false) + g.suite(s.Body, indent) + g.orelse(s, s.Orelse, indent)
	case *pyast.For:
		return g.header(s, indent, false) + g.suite(s.Body, indent) + g.orelse(s, s.Orelse, indent)
	case *pyast.FunctionDef:
		return g.header(s, indent, false) + g.suite(s.Body, indent)
	case *pyast.ClassDef:
		return g.header(s, indent, false) + g.suite(s.Body, indent)
	case *pyast.With:
		return g.header(s, indent, false) + g.suite(s.Body, indent)
	case *pyast.Try:
		return g.tryStmt(s, indent)
	default:
		g.fail(s, "unsupported statement")
		return ""
	}
}

// stmtChild renders a statement placed in a block at indent. An elif
// clause moved out of an else chain is rendered as a plain if.
func (g *gen) stmtChild(s pyast.Stmt, indent string) string {
	if n, ok := s.(*pyast.If); ok && n.IsElif {
		return g.stmt(s, indent)
	}
	if text, ok := g.embed(s, indent); ok {
		return text
	}
	return g.stmt(s, indent)
}

// suite renders a block after a header colon: each statement on its own
// line one unit deeper than indent. An empty block renders as pass.
func (g *gen) suite(body []pyast.Stmt, indent string) string {
	inner := indent + g.unit()
	if len(body) == 0 {
		return g.nl() + inner + "pass"
	}
	var b strings.Builder
	for _, s := range body {
		b.WriteString(g.nl())
		b.WriteString(inner)
		b.WriteString(g.stmtChild(s, inner))
	}
	return b.String()
}

func (g *gen) ifStmt(s *pyast.If, indent string, elif bool) string {
	return g.header(s, indent, elif) + g.suite(s.Body, indent) + g.orelse(s, s.Orelse, indent)
}

func (g *gen) orelse(parent pyast.Stmt, orelse []pyast.Stmt, indent string) string {
	if len(orelse) == 0 {
		return ""
	}
	if _, isIf := parent.(*pyast.If); isIf && len(orelse) == 1 {
		if elif, ok := orelse[0].(*pyast.If); ok && elif.IsElif {
			if text, ok := g.embed(elif, indent); ok {
				return g.nl() + indent + text
			}
			return g.nl() + indent + g.ifStmt(elif, indent, true)
		}
	}
	return g.nl() + indent + "else:" + g.suite(orelse, indent)
}

func (g *gen) tryStmt(s *pyast.Try, indent string) string {
	if len(s.Handlers) == 0 && len(s.Orelse) > 0 {
		g.fail(s, "try with else but without except")
	}
	var b strings.Builder
	b.WriteString("try:")
	b.WriteString(g.suite(s.Body, indent))
	for _, h := range s.Handlers {
		b.WriteString(g.nl())
		b.WriteString(indent)
		if text, ok := g.embed(h, indent); ok {
			b.WriteString(text)
		} else {
			b.WriteString(g.helper(h, indent))
		}
	}
	if len(s.Orelse) > 0 {
		b.WriteString(g.nl() + indent + "else:" + g.suite(s.Orelse, indent))
	}
	// A try needs a handler or a finally clause; an empty finally is pass.
	if len(s.Finalbody) > 0 || len(s.Handlers) == 0 {
		b.WriteString(g.nl() + indent + "finally:" + g.suite(s.Finalbody, indent))
	}
	return b.String()
}

func (g *gen) header(n pyast.Node, indent string, elif bool) string {
	saved := g.cur
	g.cur = indent
	defer func() { g.cur = saved }()

	switch n := n.(type) {
	case *pyast.If:
		kw := "if "
		if elif {
			kw = "elif "
		}
		return kw + g.child(n, "Test", n.Test) + ":"
	case *pyast.While:
		return "while " + g.child(n, "Test", n.Test) + ":"
	case *pyast.For:
		return "for " + g.child(n, "Target", n.Target) + " in " + g.child(n, "Iter", n.Iter) + ":"
	case *pyast.FunctionDef:
		if n.Name == "" {
			g.fail(n, "function without name")
		}
		return g.decorators(n, n.Decorators, indent) + "def " + n.Name +
			"(" + join(g, n, "Params", n.Params) + ")" + g.optional(n, "Returns", n.Returns, " -> ") + ":"
	case *pyast.ClassDef:
		if n.Name == "" {
			g.fail(n, "class without name")
		}
		bases := ""
		if len(n.Bases) > 0 {
			bases = "(" + join(g, n, "Bases", n.Bases) + ")"
		}
		return g.decorators(n, n.Decorators, indent) + "class " + n.Name + bases + ":"
	case *pyast.Try:
		return "try:"
	case *pyast.With:
		if len(n.Items) == 0 {
			g.fail(n, "with without items")
		}
		return "with " + join(g, n, "Items", n.Items) + ":"
	case *pyast.ExceptHandler:
		if n.Type == nil && n.Name != "" {
			g.fail(n, "handler name without type")
		}
		head := "except" + g.optional(n, "Type", n.Type, " ")
		if n.Name != "" {
			head += " as " + n.Name
		}
		return head + ":"
	default:
		g.fail(n, "no header")
		return ""
	}
}

func (g *gen) decorators(parent pyast.Node, decos []pyast.Expr, indent string) string {
	var b strings.Builder
	for _, d := range decos {
		b.WriteString("@")
		b.WriteString(g.child(parent, "Decorators", d))
		b.WriteString(g.nl())
		b.WriteString(indent)
	}
	return b.String()
}

// ----------------------------------------------------------------------------
// Helper nodes

func (g *gen) helper(n pyast.Node, indent string) string {
	switch n := n.(type) {
	case *pyast.Alias:
		if n.Name == "" {
			g.fail(n, "alias without name")
		}
		if n.AsName != "" {
			return n.Name + " as " + n.AsName
		}
		return n.Name
	case *pyast.Param:
		return g.param(n)
	case *pyast.ExceptHandler:
		return g.header(n, indent, false) + g.suite(n.Body, indent)
	case *pyast.WithItem:
		return g.child(n, "Context", n.Context) + g.optional(n, "Vars", n.Vars, " as ")
	case *pyast.DictItem:
		if n.Key == nil {
			return "**" + g.child(n, "Value", n.Value)
		}
		return g.child(n, "Key", n.Key) + ": " + g.child(n, "Value", n.Value)
	case *pyast.Comprehension:
		var b strings.Builder
		b.WriteString("for " + g.child(n, "Target", n.Target) + " in " + g.child(n, "Iter", n.Iter))
		for _, cond := range n.Ifs {
			b.WriteString(" if " + g.child(n, "Ifs", cond))
		}
		return b.String()
	default:
		g.fail(n, "unsupported node")
		return ""
	}
}

func (g *gen) param(n *pyast.Param) string {
	switch n.Star {
	case "/":
		return "/"
	case "*":
		if n.Name == "" {
			return "*"
		}
	case "", "**":
	default:
		g.fail(n, "unknown parameter marker %q", n.Star)
	}
	if n.Name == "" {
		g.fail(n, "parameter without name")
	}
	out := n.Star + n.Name + g.optional(n, "Annotation", n.Annotation, ": ")
	if n.Default != nil {
		if n.Star != "" {
			g.fail(n, "default on a starred parameter")
		}
		sep := "="
		if n.Annotation != nil {
			sep = " = "
		}
		out += sep + g.child(n, "Default", n.Default)
	}
	return out
}
