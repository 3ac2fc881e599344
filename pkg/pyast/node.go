// Package pyast defines the syntax tree for the Python subset understood by
// gotat.
//
// The node set is closed: Node, Expr and Stmt carry unexported marker
// methods, so only the types in this package implement them. Every
// operation that needs per-kind knowledge (Fields, Fingerprint, Clone,
// Apply) is an exhaustive type switch over that set.
package pyast

import "fmt"

// NodeID is a stable identifier assigned by the parser. IDs are unique
// within one parse and strictly positive; zero marks a node that was never
// produced by a parse.
type NodeID int32

// Pos is the recorded position of a node: 1-based lines, 0-based byte
// columns, exclusive end column. The zero Pos means "no position".
type Pos struct {
	Line, Col       int
	EndLine, EndCol int
}

// IsZero reports whether p carries no position.
func (p Pos) IsZero() bool {
	return p.Line == 0
}

func (p Pos) String() string {
	if p.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d:%d-%d:%d", p.Line, p.Col, p.EndLine, p.EndCol)
}

// NodeBase is embedded in every node.
type NodeBase struct {
	// ID is the parse-time identity of the node.
	ID NodeID

	// Pos is the source position recorded by the parser.
	Pos Pos

	// Paren is set when the parser found the node wrapped in grouping
	// parentheses that lie outside Pos.
	Paren bool
}

// Base returns b itself; it gives uniform access to the embedded NodeBase.
func (b *NodeBase) Base() *NodeBase { return b }

func (*NodeBase) node() {}

// Node is any syntax tree node.
type Node interface {
	Kind() Kind
	Base() *NodeBase
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Kind identifies the concrete type of a Node.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota

	// Statements.
	KindModule
	KindExprStmt
	KindAssign
	KindAugAssign
	KindAnnAssign
	KindPass
	KindBreak
	KindContinue
	KindReturn
	KindRaise
	KindAssert
	KindDel
	KindGlobal
	KindImport
	KindImportFrom
	KindIf
	KindWhile
	KindFor
	KindFunctionDef
	KindClassDef
	KindTry
	KindWith

	// Helpers that are neither statements nor expressions.
	KindAlias
	KindParam
	KindExceptHandler
	KindWithItem
	KindDictItem
	KindComprehension

	// Expressions.
	KindName
	KindConstant
	KindAttribute
	KindCall
	KindKeyword
	KindStarred
	KindSubscript
	KindSlice
	KindBinOp
	KindUnaryOp
	KindCompare
	KindIfExp
	KindLambda
	KindList
	KindTuple
	KindSet
	KindDict
	KindComp
	KindYield
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindModule:        "Module",
	KindExprStmt:      "ExprStmt",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindAnnAssign:     "AnnAssign",
	KindPass:          "Pass",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindReturn:        "Return",
	KindRaise:         "Raise",
	KindAssert:        "Assert",
	KindDel:           "Del",
	KindGlobal:        "Global",
	KindImport:        "Import",
	KindImportFrom:    "ImportFrom",
	KindIf:            "If",
	KindWhile:         "While",
	KindFor:           "For",
	KindFunctionDef:   "FunctionDef",
	KindClassDef:      "ClassDef",
	KindTry:           "Try",
	KindWith:          "With",
	KindAlias:         "Alias",
	KindParam:         "Param",
	KindExceptHandler: "ExceptHandler",
	KindWithItem:      "WithItem",
	KindDictItem:      "DictItem",
	KindComprehension: "Comprehension",
	KindName:          "Name",
	KindConstant:      "Constant",
	KindAttribute:     "Attribute",
	KindCall:          "Call",
	KindKeyword:       "Keyword",
	KindStarred:       "Starred",
	KindSubscript:     "Subscript",
	KindSlice:         "Slice",
	KindBinOp:         "BinOp",
	KindUnaryOp:       "UnaryOp",
	KindCompare:       "Compare",
	KindIfExp:         "IfExp",
	KindLambda:        "Lambda",
	KindList:          "List",
	KindTuple:         "Tuple",
	KindSet:           "Set",
	KindDict:          "Dict",
	KindComp:          "Comp",
	KindYield:         "Yield",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsCompound reports whether k is a statement that owns indented blocks.
func (k Kind) IsCompound() bool {
	switch k {
	case KindIf, KindWhile, KindFor, KindFunctionDef, KindClassDef, KindTry, KindWith:
		return true
	default:
		return false
	}
}
