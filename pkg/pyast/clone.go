package pyast

import (
	"reflect"
	"slices"
)

// Clone returns a deep copy of n. The copy and all of its descendants are
// synthetic: their ID, Pos and Paren are cleared. Clone of a nil node
// returns the zero value.
func Clone[T Node](n T) T {
	var zero T
	if isNil(n) {
		return zero
	}
	return deepClone(n).(T)
}

func deepClone(n Node) Node {
	c := shallow(n)
	*c.Base() = NodeBase{}
	for _, r := range refsOf(c) {
		if r.single != nil {
			if *r.single != nil {
				*r.single = deepClone(*r.single).(Expr)
			}
			continue
		}
		r.seq.Detach()
		for i := range r.seq.Len() {
			r.seq.Set(i, deepClone(r.seq.At(i)))
		}
	}
	return c
}

// shallow copies the struct behind n. Scalar slices are copied too; child
// slices are detached by deepClone.
func shallow(n Node) Node {
	switch n := n.(type) {
	case *Module:
		c := *n
		return &c
	case *ExprStmt:
		c := *n
		return &c
	case *Assign:
		c := *n
		return &c
	case *AugAssign:
		c := *n
		return &c
	case *AnnAssign:
		c := *n
		return &c
	case *Pass:
		c := *n
		return &c
	case *Break:
		c := *n
		return &c
	case *Continue:
		c := *n
		return &c
	case *Return:
		c := *n
		return &c
	case *Raise:
		c := *n
		return &c
	case *Assert:
		c := *n
		return &c
	case *Del:
		c := *n
		return &c
	case *Global:
		c := *n
		c.Names = slices.Clone(n.Names)
		return &c
	case *Import:
		c := *n
		return &c
	case *ImportFrom:
		c := *n
		return &c
	case *If:
		c := *n
		return &c
	case *While:
		c := *n
		return &c
	case *For:
		c := *n
		return &c
	case *FunctionDef:
		c := *n
		return &c
	case *ClassDef:
		c := *n
		return &c
	case *Try:
		c := *n
		return &c
	case *With:
		c := *n
		return &c
	case *Alias:
		c := *n
		return &c
	case *Param:
		c := *n
		return &c
	case *ExceptHandler:
		c := *n
		return &c
	case *WithItem:
		c := *n
		return &c
	case *DictItem:
		c := *n
		return &c
	case *Comprehension:
		c := *n
		return &c
	case *Name:
		c := *n
		return &c
	case *Constant:
		c := *n
		return &c
	case *Attribute:
		c := *n
		return &c
	case *Call:
		c := *n
		return &c
	case *Keyword:
		c := *n
		return &c
	case *Starred:
		c := *n
		return &c
	case *Subscript:
		c := *n
		return &c
	case *Slice:
		c := *n
		return &c
	case *BinOp:
		c := *n
		return &c
	case *UnaryOp:
		c := *n
		return &c
	case *Compare:
		c := *n
		c.Ops = slices.Clone(n.Ops)
		return &c
	case *IfExp:
		c := *n
		return &c
	case *Lambda:
		c := *n
		return &c
	case *List:
		c := *n
		return &c
	case *Tuple:
		c := *n
		return &c
	case *Set:
		c := *n
		return &c
	case *Dict:
		c := *n
		return &c
	case *Comp:
		c := *n
		return &c
	case *Yield:
		c := *n
		return &c
	default:
		panic("pyast: clone of unknown node type")
	}
}

// isNil reports whether n is a nil interface or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
