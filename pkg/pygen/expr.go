package pygen

import (
	"strings"

	"github.com/yaklabco/gotat/pkg/pyast"
)

var compareOps = map[string]bool{ //nolint:gochecknoglobals // lookup table
	"<": true, ">": true, "==": true, ">=": true, "<=": true, "!=": true,
	"in": true, "not in": true, "is": true, "is not": true,
}

func isAugOp(op string) bool {
	if !strings.HasSuffix(op, "=") {
		return false
	}
	p, ok := binaryPrec[strings.TrimSuffix(op, "=")]
	return ok && p >= precBitOr
}

func (g *gen) expr(e pyast.Expr) string {
	switch e := e.(type) {
	case *pyast.Name:
		if e.Ident == "" {
			g.fail(e, "empty name")
		}
		return e.Ident
	case *pyast.Constant:
		return g.constant(e)
	case *pyast.Attribute:
		if e.Attr == "" {
			g.fail(e, "empty attribute name")
		}
		return g.child(e, "Value", e.Value) + "." + e.Attr
	case *pyast.Call:
		return g.child(e, "Func", e.Func) + "(" + join(g, e, "Args", e.Args) + ")"
	case *pyast.Keyword:
		if e.Arg == "" {
			g.fail(e, "keyword without name")
		}
		return e.Arg + "=" + g.child(e, "Value", e.Value)
	case *pyast.Starred:
		star := "*"
		if e.Double {
			star = "**"
		}
		return star + g.child(e, "Value", e.Value)
	case *pyast.Subscript:
		return g.child(e, "Value", e.Value) + "[" + g.child(e, "Index", e.Index) + "]"
	case *pyast.Slice:
		out := g.optional(e, "Lower", e.Lower, "") + ":" + g.optional(e, "Upper", e.Upper, "")
		if e.Step != nil {
			out += ":" + g.child(e, "Step", e.Step)
		}
		return out
	case *pyast.BinOp:
		if _, ok := binaryPrec[e.Op]; !ok {
			g.fail(e, "unknown operator %q", e.Op)
		}
		return g.child(e, "Left", e.Left) + " " + e.Op + " " + g.child(e, "Right", e.Right)
	case *pyast.UnaryOp:
		switch e.Op {
		case "not":
			return "not " + g.child(e, "Operand", e.Operand)
		case "-", "+", "~":
			return e.Op + g.child(e, "Operand", e.Operand)
		default:
			g.fail(e, "unknown operator %q", e.Op)
		}
	case *pyast.Compare:
		return g.compare(e)
	case *pyast.IfExp:
		return g.child(e, "Body", e.Body) + " if " + g.child(e, "Test", e.Test) +
			" else " + g.child(e, "Orelse", e.Orelse)
	case *pyast.Lambda:
		for _, p := range e.Params {
			if p.Annotation != nil {
				g.fail(p, "annotation on a lambda parameter")
			}
		}
		params := join(g, e, "Params", e.Params)
		if params != "" {
			params = " " + params
		}
		return "lambda" + params + ": " + g.child(e, "Body", e.Body)
	case *pyast.List:
		return "[" + join(g, e, "Elts", e.Elts) + "]"
	case *pyast.Tuple:
		if len(e.Elts) == 0 {
			return "()"
		}
		inner := join(g, e, "Elts", e.Elts)
		if len(e.Elts) == 1 {
			inner += ","
		}
		if e.Parens {
			return "(" + inner + ")"
		}
		return inner
	case *pyast.Set:
		if len(e.Elts) == 0 {
			return "set()"
		}
		return "{" + join(g, e, "Elts", e.Elts) + "}"
	case *pyast.Dict:
		return "{" + join(g, e, "Items", e.Items) + "}"
	case *pyast.Comp:
		return g.comp(e)
	case *pyast.Yield:
		if e.From {
			if e.Value == nil {
				g.fail(e, "yield from without value")
			}
			return "yield from " + g.child(e, "Value", e.Value)
		}
		return "yield" + g.optional(e, "Value", e.Value, " ")
	}
	g.fail(e, "unsupported expression")
	return ""
}

func (g *gen) compare(e *pyast.Compare) string {
	if len(e.Ops) == 0 || len(e.Ops) != len(e.Comparators) {
		g.fail(e, "%d operators for %d comparators", len(e.Ops), len(e.Comparators))
	}
	var b strings.Builder
	b.WriteString(g.child(e, "Left", e.Left))
	for i, op := range e.Ops {
		if !compareOps[op] {
			g.fail(e, "unknown operator %q", op)
		}
		b.WriteString(" " + op + " ")
		b.WriteString(g.child(e, "Comparators", e.Comparators[i]))
	}
	return b.String()
}

func (g *gen) comp(e *pyast.Comp) string {
	if len(e.Generators) == 0 {
		g.fail(e, "comprehension without generators")
	}
	if (e.Form == pyast.CompDict) != (e.Value != nil) {
		g.fail(e, "value must be set exactly for dict comprehensions")
	}
	inner := g.child(e, "Elt", e.Elt)
	if e.Form == pyast.CompDict {
		inner += ": " + g.child(e, "Value", e.Value)
	}
	inner += " " + join(g, e, "Generators", e.Generators)

	switch e.Form {
	case pyast.CompList:
		return "[" + inner + "]"
	case pyast.CompSet, pyast.CompDict:
		return "{" + inner + "}"
	default:
		if e.Parens {
			return "(" + inner + ")"
		}
		return inner
	}
}

func (g *gen) constant(e *pyast.Constant) string {
	if e.Raw != "" {
		if isImplicitMultiline(e) {
			return "(" + e.Raw + ")"
		}
		return e.Raw
	}
	switch e.Type {
	case pyast.ConstNone:
		return "None"
	case pyast.ConstTrue:
		return "True"
	case pyast.ConstFalse:
		return "False"
	case pyast.ConstEllipsis:
		return "..."
	case pyast.ConstString:
		return quote(e.Value)
	case pyast.ConstBytes:
		return "b" + quote(e.Value)
	default:
		if e.Value == "" {
			g.fail(e, "number without digits")
		}
		return e.Value
	}
}

func constText(e *pyast.Constant) string {
	if e.Raw != "" {
		return e.Raw
	}
	return e.Value
}

// isImplicitMultiline reports whether the raw text of a string constant
// spans lines outside a triple-quoted literal, which is only valid inside
// brackets.
func isImplicitMultiline(e *pyast.Constant) bool {
	if e.Type != pyast.ConstString && e.Type != pyast.ConstBytes {
		return false
	}
	if !strings.Contains(e.Raw, "\n") {
		return false
	}
	return !strings.Contains(e.Raw, `'''`) && !strings.Contains(e.Raw, `"""`)
}

// quote wraps s, given in source form, in single quotes, escaping bare
// single quotes and line breaks.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '\'':
			b.WriteString(`\'`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	b.WriteByte('\'')
	return b.String()
}
