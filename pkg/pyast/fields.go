package pyast

import "slices"

// Role describes how the children of a field are laid out in source.
type Role uint8

const (
	// RoleSingle is one optional or required child.
	RoleSingle Role = iota

	// RoleList is an inline sequence with a uniform separator, such as
	// call arguments or list elements.
	RoleList

	// RoleRigid is an inline sequence whose separators carry syntax of
	// their own (comparison operators, decorators, comprehension clauses).
	RoleRigid

	// RoleSuite is an indented block of statements.
	RoleSuite
)

func (r Role) String() string {
	switch r {
	case RoleSingle:
		return "single"
	case RoleList:
		return "list"
	case RoleRigid:
		return "rigid"
	case RoleSuite:
		return "suite"
	default:
		return "unknown"
	}
}

// Field is a snapshot of one child field of a node.
type Field struct {
	// Name is the Go field name ("Args", "Body", ...).
	Name string

	// Role is the layout of the field.
	Role Role

	// Nodes holds the children in source order. A single field holds zero
	// or one node.
	Nodes []Node

	// Clause is the keyword that opens a suite in source ("else",
	// "finally"). It is empty for the first suite of a statement and for
	// suites whose items carry their own header (except handlers).
	Clause string

	// Required is set when the field must be non-nil (single) or non-empty
	// (sequences) for the node to be valid.
	Required bool
}

// Fields returns a snapshot of the child fields of n in source order.
func Fields(n Node) []Field {
	refs := refsOf(n)
	out := make([]Field, len(refs))
	for i := range refs {
		out[i] = refs[i].snapshot()
	}
	return out
}

// Children returns all direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	for _, f := range Fields(n) {
		out = append(out, f.Nodes...)
	}
	return out
}

// fieldRef gives read/write access to one field of a node.
type fieldRef struct {
	name     string
	role     Role
	clause   string
	required bool

	// Exactly one of single and seq is set.
	single *Expr
	seq    sequence
}

func (r *fieldRef) snapshot() Field {
	f := Field{Name: r.name, Role: r.role, Clause: r.clause, Required: r.required}
	if r.single != nil {
		if *r.single != nil {
			f.Nodes = []Node{*r.single}
		}
		return f
	}
	f.Nodes = make([]Node, r.seq.Len())
	for i := range f.Nodes {
		f.Nodes[i] = r.seq.At(i)
	}
	return f
}

// sequence abstracts over the element type of a slice field.
type sequence interface {
	Len() int
	At(i int) Node
	Set(i int, n Node)
	Insert(i int, n Node)
	Delete(i int)
	Detach()
}

type seq[T Node] struct{ p *[]T }

func (s seq[T]) Len() int             { return len(*s.p) }
func (s seq[T]) At(i int) Node        { return (*s.p)[i] }
func (s seq[T]) Set(i int, n Node)    { (*s.p)[i] = n.(T) }
func (s seq[T]) Insert(i int, n Node) { *s.p = slices.Insert(*s.p, i, n.(T)) }
func (s seq[T]) Delete(i int)         { *s.p = slices.Delete(*s.p, i, i+1) }
func (s seq[T]) Detach()              { *s.p = slices.Clone(*s.p) }

func one(name string, p *Expr) fieldRef {
	return fieldRef{name: name, role: RoleSingle, required: true, single: p}
}

func opt(name string, p *Expr) fieldRef {
	return fieldRef{name: name, role: RoleSingle, single: p}
}

func list[T Node](name string, p *[]T, required bool) fieldRef {
	return fieldRef{name: name, role: RoleList, required: required, seq: seq[T]{p}}
}

func rigid[T Node](name string, p *[]T, required bool) fieldRef {
	return fieldRef{name: name, role: RoleRigid, required: required, seq: seq[T]{p}}
}

func suite[T Node](name, clause string, p *[]T, required bool) fieldRef {
	return fieldRef{name: name, role: RoleSuite, clause: clause, required: required, seq: seq[T]{p}}
}

// refsOf is the schema of the node set: every child field of every kind,
// in source order.
func refsOf(n Node) []fieldRef {
	switch n := n.(type) {
	case *Module:
		return []fieldRef{suite("Body", "", &n.Body, false)}
	case *ExprStmt:
		return []fieldRef{one("Value", &n.Value)}
	case *Assign:
		return []fieldRef{list("Targets", &n.Targets, true), one("Value", &n.Value)}
	case *AugAssign:
		return []fieldRef{one("Target", &n.Target), one("Value", &n.Value)}
	case *AnnAssign:
		return []fieldRef{one("Target", &n.Target), one("Annotation", &n.Annotation), opt("Value", &n.Value)}
	case *Pass, *Break, *Continue, *Global, *Alias, *Name, *Constant:
		return nil
	case *Return:
		return []fieldRef{opt("Value", &n.Value)}
	case *Raise:
		return []fieldRef{opt("Exc", &n.Exc), opt("Cause", &n.Cause)}
	case *Assert:
		return []fieldRef{one("Test", &n.Test), opt("Msg", &n.Msg)}
	case *Del:
		return []fieldRef{list("Targets", &n.Targets, true)}
	case *Import:
		return []fieldRef{list("Names", &n.Names, true)}
	case *ImportFrom:
		return []fieldRef{list("Names", &n.Names, true)}
	case *If:
		return []fieldRef{
			one("Test", &n.Test),
			suite("Body", "", &n.Body, true),
			suite("Orelse", "else", &n.Orelse, false),
		}
	case *While:
		return []fieldRef{
			one("Test", &n.Test),
			suite("Body", "", &n.Body, true),
			suite("Orelse", "else", &n.Orelse, false),
		}
	case *For:
		return []fieldRef{
			one("Target", &n.Target),
			one("Iter", &n.Iter),
			suite("Body", "", &n.Body, true),
			suite("Orelse", "else", &n.Orelse, false),
		}
	case *FunctionDef:
		return []fieldRef{
			rigid("Decorators", &n.Decorators, false),
			list("Params", &n.Params, false),
			opt("Returns", &n.Returns),
			suite("Body", "", &n.Body, true),
		}
	case *ClassDef:
		return []fieldRef{
			rigid("Decorators", &n.Decorators, false),
			list("Bases", &n.Bases, false),
			suite("Body", "", &n.Body, true),
		}
	case *Try:
		return []fieldRef{
			suite("Body", "", &n.Body, true),
			suite("Handlers", "", &n.Handlers, false),
			suite("Orelse", "else", &n.Orelse, false),
			suite("Finalbody", "finally", &n.Finalbody, false),
		}
	case *With:
		return []fieldRef{list("Items", &n.Items, true), suite("Body", "", &n.Body, true)}
	case *Param:
		return []fieldRef{opt("Annotation", &n.Annotation), opt("Default", &n.Default)}
	case *ExceptHandler:
		return []fieldRef{opt("Type", &n.Type), suite("Body", "", &n.Body, true)}
	case *WithItem:
		return []fieldRef{one("Context", &n.Context), opt("Vars", &n.Vars)}
	case *DictItem:
		return []fieldRef{opt("Key", &n.Key), one("Value", &n.Value)}
	case *Comprehension:
		return []fieldRef{one("Target", &n.Target), one("Iter", &n.Iter), rigid("Ifs", &n.Ifs, false)}
	case *Attribute:
		return []fieldRef{one("Value", &n.Value)}
	case *Call:
		return []fieldRef{one("Func", &n.Func), list("Args", &n.Args, false)}
	case *Keyword:
		return []fieldRef{one("Value", &n.Value)}
	case *Starred:
		return []fieldRef{one("Value", &n.Value)}
	case *Subscript:
		return []fieldRef{one("Value", &n.Value), one("Index", &n.Index)}
	case *Slice:
		return []fieldRef{opt("Lower", &n.Lower), opt("Upper", &n.Upper), opt("Step", &n.Step)}
	case *BinOp:
		return []fieldRef{one("Left", &n.Left), one("Right", &n.Right)}
	case *UnaryOp:
		return []fieldRef{one("Operand", &n.Operand)}
	case *Compare:
		return []fieldRef{one("Left", &n.Left), rigid("Comparators", &n.Comparators, true)}
	case *IfExp:
		return []fieldRef{one("Body", &n.Body), one("Test", &n.Test), one("Orelse", &n.Orelse)}
	case *Lambda:
		return []fieldRef{list("Params", &n.Params, false), one("Body", &n.Body)}
	case *List:
		return []fieldRef{list("Elts", &n.Elts, false)}
	case *Tuple:
		return []fieldRef{list("Elts", &n.Elts, false)}
	case *Set:
		return []fieldRef{list("Elts", &n.Elts, false)}
	case *Dict:
		return []fieldRef{list("Items", &n.Items, false)}
	case *Comp:
		return []fieldRef{one("Elt", &n.Elt), opt("Value", &n.Value), rigid("Generators", &n.Generators, true)}
	case *Yield:
		return []fieldRef{opt("Value", &n.Value)}
	default:
		return nil
	}
}
