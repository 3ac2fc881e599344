package pygen

import (
	"strings"

	"github.com/yaklabco/gotat/pkg/pyast"
)

// Binding strength of expression forms, loosest first.
const (
	precYield   = -1
	precTuple   = 0
	precLambda  = 1
	precIfExp   = 2
	precOr      = 3
	precAnd     = 4
	precNot     = 5
	precCompare = 6
	precBitOr   = 7
	precBitXor  = 8
	precBitAnd  = 9
	precShift   = 10
	precArith   = 11
	precTerm    = 12
	precUnary   = 13
	precPower   = 14
	precAtom    = 16
)

var binaryPrec = map[string]int{ //nolint:gochecknoglobals // lookup table
	"or": precOr, "and": precAnd,
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"<<": precShift, ">>": precShift,
	"+": precArith, "-": precArith,
	"*": precTerm, "/": precTerm, "//": precTerm, "%": precTerm, "@": precTerm,
	"**": precPower,
}

// precedence returns the binding strength of e as written without
// surrounding parentheses.
func precedence(e pyast.Expr) int {
	switch e := e.(type) {
	case *pyast.Yield:
		return precYield
	case *pyast.Tuple:
		if e.Parens || len(e.Elts) == 0 {
			return precAtom
		}
		return precTuple
	case *pyast.Comp:
		if e.Form == pyast.CompGen && !e.Parens {
			return precTuple
		}
		return precAtom
	case *pyast.Slice:
		// A slice is only valid as a subscript index and is never wrapped.
		return precAtom
	case *pyast.Lambda, *pyast.Keyword, *pyast.Starred:
		return precLambda
	case *pyast.IfExp:
		return precIfExp
	case *pyast.BinOp:
		if p, ok := binaryPrec[e.Op]; ok {
			return p
		}
		return precAtom
	case *pyast.UnaryOp:
		if e.Op == "not" {
			return precNot
		}
		return precUnary
	case *pyast.Compare:
		return precCompare
	case *pyast.Constant:
		if isNumeric(e) && strings.HasPrefix(constText(e), "-") {
			return precUnary
		}
		return precAtom
	default:
		return precAtom
	}
}

// minPrecedence returns the weakest binding strength that child may have
// in the given field of parent without parentheses.
func minPrecedence(parent pyast.Node, field string) int {
	switch parent := parent.(type) {
	case *pyast.ExprStmt, *pyast.Assign, *pyast.AugAssign:
		if field == "Value" {
			return precYield
		}
		if _, ok := parent.(*pyast.AugAssign); ok {
			return precBitOr
		}
		return precTuple
	case *pyast.AnnAssign:
		if field == "Value" {
			return precYield
		}
		return precLambda
	case *pyast.Return, *pyast.For:
		return precTuple
	case *pyast.Del:
		return precBitOr
	case *pyast.WithItem:
		if field == "Vars" {
			return precBitOr
		}
		return precLambda
	case *pyast.Attribute, *pyast.Call, *pyast.Subscript:
		if field == "Index" {
			return precTuple
		}
		if field == "Args" {
			return precLambda
		}
		return precAtom
	case *pyast.Starred:
		return precBitOr
	case *pyast.BinOp:
		p := binaryPrec[parent.Op]
		if parent.Op == "**" {
			if field == "Left" {
				return precPower + 1
			}
			return precUnary
		}
		if field == "Right" {
			return p + 1
		}
		return p
	case *pyast.UnaryOp:
		if parent.Op == "not" {
			return precNot
		}
		return precUnary
	case *pyast.Compare:
		return precBitOr
	case *pyast.IfExp:
		if field == "Orelse" {
			return precIfExp
		}
		return precOr
	case *pyast.DictItem:
		if parent.Key == nil {
			return precBitOr
		}
		return precLambda
	case *pyast.Comprehension:
		if field == "Target" {
			return precTuple
		}
		return precOr
	case *pyast.Yield:
		if parent.From {
			return precLambda
		}
		return precTuple
	default:
		return precLambda
	}
}

// NeedsParens reports whether child must be wrapped in parentheses to
// occupy the given field of parent.
func NeedsParens(parent pyast.Node, field string, child pyast.Node) bool {
	e, ok := child.(pyast.Expr)
	if !ok || parent == nil {
		return false
	}
	if c, ok := e.(*pyast.Comp); ok && c.Form == pyast.CompGen && !c.Parens {
		call, isCall := parent.(*pyast.Call)
		return !isCall || field != "Args" || len(call.Args) != 1
	}
	if c, ok := e.(*pyast.Constant); ok && c.Type == pyast.ConstInt {
		if _, isAttr := parent.(*pyast.Attribute); isAttr {
			return true
		}
	}
	return precedence(e) < minPrecedence(parent, field)
}

// Separator returns the canonical text between two elements of a sequence
// field.
func Separator(parent pyast.Node, field string) string {
	switch parent.(type) {
	case *pyast.Assign:
		if field == "Targets" {
			return " = "
		}
	case *pyast.Comprehension:
		if field == "Ifs" {
			return " if "
		}
	case *pyast.Comp:
		if field == "Generators" {
			return " "
		}
	}
	return ", "
}

func isNumeric(c *pyast.Constant) bool {
	switch c.Type {
	case pyast.ConstInt, pyast.ConstFloat, pyast.ConstImag:
		return true
	default:
		return false
	}
}
