package pyast

// ----------------------------------------------------------------------------
// Statements

type (
	// Module is the root of a parsed file.
	Module struct {
		NodeBase
		Body []Stmt
	}

	// ExprStmt is an expression evaluated for its side effects.
	ExprStmt struct {
		NodeBase
		Value Expr
	}

	// Assign is "t1 = t2 = value".
	Assign struct {
		NodeBase
		Targets []Expr
		Value   Expr
	}

	// AugAssign is "target op= value"; Op includes the "=".
	AugAssign struct {
		NodeBase
		Target Expr
		Op     string
		Value  Expr
	}

	// AnnAssign is "target: annotation [= value]".
	AnnAssign struct {
		NodeBase
		Target     Expr
		Annotation Expr
		Value      Expr
	}

	Pass     struct{ NodeBase }
	Break    struct{ NodeBase }
	Continue struct{ NodeBase }

	Return struct {
		NodeBase
		Value Expr
	}

	// Raise is "raise [exc [from cause]]".
	Raise struct {
		NodeBase
		Exc   Expr
		Cause Expr
	}

	Assert struct {
		NodeBase
		Test Expr
		Msg  Expr
	}

	Del struct {
		NodeBase
		Targets []Expr
	}

	// Global is a global or, with Nonlocal set, a nonlocal declaration.
	Global struct {
		NodeBase
		Nonlocal bool
		Names    []string
	}

	Import struct {
		NodeBase
		Names []*Alias
	}

	// ImportFrom is "from [.]*module import names". Level counts leading dots.
	ImportFrom struct {
		NodeBase
		Module string
		Level  int
		Names  []*Alias
	}

	// If is an if statement. An "elif" clause is represented as an If with
	// IsElif set, standing alone in the Orelse of its predecessor.
	If struct {
		NodeBase
		IsElif bool
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	While struct {
		NodeBase
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	For struct {
		NodeBase
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// FunctionDef spans from its first decorator to the end of its body.
	FunctionDef struct {
		NodeBase
		Decorators []Expr
		Name       string
		Params     []*Param
		Returns    Expr
		Body       []Stmt
	}

	// ClassDef spans from its first decorator to the end of its body. Bases
	// holds positional bases as well as Keyword and Starred arguments.
	ClassDef struct {
		NodeBase
		Decorators []Expr
		Name       string
		Bases      []Expr
		Body       []Stmt
	}

	Try struct {
		NodeBase
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
	}

	With struct {
		NodeBase
		Items []*WithItem
		Body  []Stmt
	}
)

// ----------------------------------------------------------------------------
// Helpers

type (
	// Alias is one imported name. Name may be dotted or "*".
	Alias struct {
		NodeBase
		Name   string
		AsName string
	}

	// Param is one function or lambda parameter. Star is "", "*" or "**";
	// a bare "*" or "/" marker has Star set and an empty Name.
	Param struct {
		NodeBase
		Star       string
		Name       string
		Annotation Expr
		Default    Expr
	}

	// ExceptHandler spans from "except" to the end of its body.
	ExceptHandler struct {
		NodeBase
		Type Expr
		Name string
		Body []Stmt
	}

	WithItem struct {
		NodeBase
		Context Expr
		Vars    Expr
	}

	// DictItem is "key: value", or "**value" when Key is nil.
	DictItem struct {
		NodeBase
		Key   Expr
		Value Expr
	}

	// Comprehension is one "for target in iter [if cond]*" clause.
	Comprehension struct {
		NodeBase
		Target Expr
		Iter   Expr
		Ifs    []Expr
	}
)

// ----------------------------------------------------------------------------
// Expressions

// ConstKind classifies literal constants.
type ConstKind uint8

// Constant kinds.
const (
	ConstNone ConstKind = iota
	ConstTrue
	ConstFalse
	ConstEllipsis
	ConstInt
	ConstFloat
	ConstImag
	ConstString
	ConstBytes
)

// CompKind selects the bracket form of a comprehension.
type CompKind uint8

// Comprehension kinds.
const (
	CompList CompKind = iota
	CompSet
	CompDict
	CompGen
)

type (
	// Name is an identifier reference.
	Name struct {
		NodeBase
		Ident string
	}

	// Constant is a literal. Raw is the exact source text (for strings this
	// includes prefixes, quotes and implicit concatenation). Value is used
	// when Raw is empty: the digits of a number, or the contents of a string
	// with escape sequences as they would be written in source.
	Constant struct {
		NodeBase
		Type  ConstKind
		Raw   string
		Value string
	}

	Attribute struct {
		NodeBase
		Value Expr
		Attr  string
	}

	// Call holds positional, Keyword and Starred arguments in source order.
	Call struct {
		NodeBase
		Func Expr
		Args []Expr
	}

	// Keyword is "arg=value" inside a call or class bases.
	Keyword struct {
		NodeBase
		Arg   string
		Value Expr
	}

	// Starred is "*value", or "**value" when Double is set.
	Starred struct {
		NodeBase
		Double bool
		Value  Expr
	}

	Subscript struct {
		NodeBase
		Value Expr
		Index Expr
	}

	// Slice is "lower:upper[:step]" inside a subscript.
	Slice struct {
		NodeBase
		Lower Expr
		Upper Expr
		Step  Expr
	}

	// BinOp covers arithmetic, bitwise and boolean ("and", "or") operators.
	BinOp struct {
		NodeBase
		Left  Expr
		Op    string
		Right Expr
	}

	// UnaryOp is "-x", "+x", "~x" or "not x".
	UnaryOp struct {
		NodeBase
		Op      string
		Operand Expr
	}

	// Compare is a (possibly chained) comparison; len(Ops) == len(Comparators).
	Compare struct {
		NodeBase
		Left        Expr
		Ops         []string
		Comparators []Expr
	}

	// IfExp is "body if test else orelse".
	IfExp struct {
		NodeBase
		Body   Expr
		Test   Expr
		Orelse Expr
	}

	Lambda struct {
		NodeBase
		Params []*Param
		Body   Expr
	}

	List struct {
		NodeBase
		Elts []Expr
	}

	// Tuple spans its parentheses when Parens is set.
	Tuple struct {
		NodeBase
		Parens bool
		Elts   []Expr
	}

	Set struct {
		NodeBase
		Elts []Expr
	}

	Dict struct {
		NodeBase
		Items []*DictItem
	}

	// Comp is a list, set, dict or generator comprehension. Value is only
	// used by dict comprehensions. A generator spans its parentheses when
	// Parens is set.
	Comp struct {
		NodeBase
		Form       CompKind
		Parens     bool
		Elt        Expr
		Value      Expr
		Generators []*Comprehension
	}

	// Yield is "yield [value]" or "yield from value".
	Yield struct {
		NodeBase
		From  bool
		Value Expr
	}
)
