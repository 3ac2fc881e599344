package pygen_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pygen"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

func name(id string) *pyast.Name { return &pyast.Name{Ident: id} }

func TestRender_CanonicalStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"spacing", "x=a+b*  c\n", "x = a + b * c\n"},
		{"call", "f( a,b ,k = 1 )\n", "f(a, b, k=1)\n"},
		{"keeps raw strings", "s = \"dq\"\n", "s = \"dq\"\n"},
		{"redundant parens dropped", "y = (a) + (b * c)\n", "y = a + b * c\n"},
		{"needed parens kept", "y = (a + b) * c\n", "y = (a + b) * c\n"},
		{"elif chain", "if a:\n  x\nelif b:\n  y\nelse:\n  z\n", "if a:\n    x\nelif b:\n    y\nelse:\n    z\n"},
		{"def", "@d\ndef f(a:int=1,*args,**kw)->None:\n pass\n", "@d\ndef f(a: int = 1, *args, **kw) -> None:\n    pass\n"},
		{"class", "class C(B,metaclass=M): pass\n", "class C(B, metaclass=M):\n    pass\n"},
		{"try", "try:\n x\nexcept E as e:\n y\nfinally:\n z\n", "try:\n    x\nexcept E as e:\n    y\nfinally:\n    z\n"},
		{"single tuple", "t = 1,\n", "t = 1,\n"},
		{"comprehension", "r = [i*2 for i in x if i]\n", "r = [i * 2 for i in x if i]\n"},
		{"genexp argument", "s = sum(i for i in x)\n", "s = sum(i for i in x)\n"},
		{"lambda", "f = lambda a,b=2:a\n", "f = lambda a, b=2: a\n"},
		{"imports", "from .. m import (a as b,c)\nimport os.path\n", "from ..m import a as b, c\nimport os.path\n"},
		{"slices", "a[1:2, ::3]\n", "a[1:2, ::3]\n"},
		{"yield", "def g():\n    x = yield  y\n", "def g():\n    x = yield y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod, err := pyparse.Parse(source.NewFileString("t.py", tt.src))
			require.NoError(t, err)

			got, err := pygen.Render(mod, pygen.Style{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, err = pyparse.Parse(source.NewFileString("out.py", got))
			require.NoError(t, err, "rendered text must parse")
		})
	}
}

func TestRender_SyntheticParens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr pyast.Expr
		want string
	}{
		{
			"lower precedence right operand",
			&pyast.BinOp{Left: name("a"), Op: "-", Right: &pyast.BinOp{Left: name("b"), Op: "-", Right: name("c")}},
			"a - (b - c)",
		},
		{
			"left associative left operand",
			&pyast.BinOp{Left: &pyast.BinOp{Left: name("a"), Op: "-", Right: name("b")}, Op: "-", Right: name("c")},
			"a - b - c",
		},
		{
			"power is right associative",
			&pyast.BinOp{Left: &pyast.BinOp{Left: name("a"), Op: "**", Right: name("b")}, Op: "**", Right: name("c")},
			"(a ** b) ** c",
		},
		{
			"unary under power",
			&pyast.BinOp{Left: &pyast.UnaryOp{Op: "-", Operand: name("a")}, Op: "**", Right: name("b")},
			"(-a) ** b",
		},
		{
			"tuple as call argument",
			&pyast.Call{Func: name("f"), Args: []pyast.Expr{&pyast.Tuple{Elts: []pyast.Expr{name("a"), name("b")}}}},
			"f((a, b))",
		},
		{
			"attribute of int",
			&pyast.Attribute{Value: &pyast.Constant{Type: pyast.ConstInt, Value: "1"}, Attr: "real"},
			"(1).real",
		},
		{
			"ifexp in compare",
			&pyast.Compare{
				Left:        &pyast.IfExp{Body: name("a"), Test: name("b"), Orelse: name("c")},
				Ops:         []string{"<"},
				Comparators: []pyast.Expr{name("d")},
			},
			"(a if b else c) < d",
		},
		{
			"not inside and",
			&pyast.BinOp{Left: name("a"), Op: "and", Right: &pyast.UnaryOp{Op: "not", Operand: name("b")}},
			"a and not b",
		},
		{
			"string quoting",
			&pyast.Constant{Type: pyast.ConstString, Value: "it's\n"},
			`'it\'s\n'`,
		},
		{
			"empty set",
			&pyast.Set{},
			"set()",
		},
		{
			"genexp among arguments",
			&pyast.Call{Func: name("f"), Args: []pyast.Expr{
				&pyast.Comp{Form: pyast.CompGen, Elt: name("x"), Generators: []*pyast.Comprehension{{Target: name("x"), Iter: name("y")}}},
				name("z"),
			}},
			"f((x for x in y), z)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pygen.Render(tt.expr, pygen.Style{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Indentation(t *testing.T) {
	t.Parallel()

	stmt := &pyast.If{
		Test: name("x"),
		Body: []pyast.Stmt{
			&pyast.For{Target: name("i"), Iter: name("r"), Body: []pyast.Stmt{&pyast.Pass{}}},
		},
	}
	got, err := pygen.Render(stmt, pygen.Style{Indent: "\t", Unit: "\t"})
	require.NoError(t, err)
	assert.Equal(t, "if x:\n\t\tfor i in r:\n\t\t\tpass", got)
}

func TestRender_EmptyBodyIsPass(t *testing.T) {
	t.Parallel()

	got, err := pygen.Render(&pyast.While{Test: name("x")}, pygen.Style{})
	require.NoError(t, err)
	assert.Equal(t, "while x:\n    pass", got)
}

func TestRender_TryWithoutHandlersKeepsFinally(t *testing.T) {
	t.Parallel()

	got, err := pygen.Render(&pyast.Try{Body: []pyast.Stmt{&pyast.ExprStmt{Value: name("a")}}}, pygen.Style{})
	require.NoError(t, err)
	assert.Equal(t, "try:\n    a\nfinally:\n    pass", got)
}

func TestRender_Newline(t *testing.T) {
	t.Parallel()

	mod, err := pyparse.Parse(source.NewFileString("t.py", "@d\nclass C:\n    if a:\n        x\n    else:\n        y\n"))
	require.NoError(t, err)

	got, err := pygen.Render(mod, pygen.Style{Newline: "\r\n"})
	require.NoError(t, err)
	assert.Equal(t, "@d\r\nclass C:\r\n    if a:\r\n        x\r\n    else:\r\n        y\r\n", got)
	assert.NotContains(t, strings.ReplaceAll(got, "\r\n", ""), "\n")
}

func TestRender_Embed(t *testing.T) {
	t.Parallel()

	orig := &pyast.Name{NodeBase: pyast.NodeBase{ID: 7, Paren: true}, Ident: "ignored"}
	call := &pyast.Call{Func: name("g"), Args: []pyast.Expr{orig}}

	var indents []string
	style := pygen.Style{
		Indent: "  ",
		Embed: func(n pyast.Node, indent string) (string, bool) {
			if n.Base().ID == 0 {
				return "", false
			}
			indents = append(indents, indent)
			return "a +\n   b", true
		},
	}
	stmt := &pyast.ExprStmt{Value: call}
	got, err := pygen.Render(stmt, style)
	require.NoError(t, err)
	assert.Equal(t, "g((a +\n   b))", got, "embedded text keeps its parentheses")
	assert.Equal(t, []string{"  "}, indents)
}

func TestRender_EmbedStatements(t *testing.T) {
	t.Parallel()

	kept := &pyast.ExprStmt{NodeBase: pyast.NodeBase{ID: 3}, Value: name("x")}
	stmt := &pyast.With{
		Items: []*pyast.WithItem{{Context: name("lock")}},
		Body:  []pyast.Stmt{kept, &pyast.Pass{}},
	}
	style := pygen.Style{
		Indent: "    ",
		Embed: func(n pyast.Node, indent string) (string, bool) {
			if n == pyast.Node(kept) {
				return "x  # kept comment", true
			}
			return "", false
		},
	}
	got, err := pygen.Render(stmt, style)
	require.NoError(t, err)
	assert.Equal(t, "with lock:\n        x  # kept comment\n        pass", got)
}

func TestRenderHeader(t *testing.T) {
	t.Parallel()

	def := &pyast.FunctionDef{
		Decorators: []pyast.Expr{name("cached")},
		Name:       "f",
		Params:     []*pyast.Param{{Name: "a"}, {Star: "*"}, {Name: "b", Default: &pyast.Constant{Type: pyast.ConstNone}}},
		Body:       []pyast.Stmt{&pyast.Pass{}},
	}
	got, err := pygen.RenderHeader(def, pygen.Style{Indent: "    "})
	require.NoError(t, err)
	assert.Equal(t, "@cached\n    def f(a, *, b=None):", got)

	elif := &pyast.If{IsElif: true, Test: name("c")}
	got, err = pygen.RenderHeader(elif, pygen.Style{})
	require.NoError(t, err)
	assert.Equal(t, "elif c:", got)

	_, err = pygen.RenderHeader(&pyast.Pass{}, pygen.Style{})
	require.Error(t, err)
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node pyast.Node
		msg  string
	}{
		{"nil required child", &pyast.BinOp{Left: name("a"), Op: "+"}, "missing Right"},
		{"unknown operator", &pyast.BinOp{Left: name("a"), Op: "<>", Right: name("b")}, "unknown operator"},
		{"empty assign targets", &pyast.Assign{Value: name("v")}, "without targets"},
		{"compare mismatch", &pyast.Compare{Left: name("a"), Ops: []string{"<", "<"}, Comparators: []pyast.Expr{name("b")}}, "operators"},
		{"try else without except", &pyast.Try{
			Body:      []pyast.Stmt{&pyast.Pass{}},
			Orelse:    []pyast.Stmt{&pyast.Pass{}},
			Finalbody: []pyast.Stmt{&pyast.Pass{}},
		}, "without except"},
		{"empty comprehension", &pyast.Comp{Form: pyast.CompList, Elt: name("x")}, "without generators"},
		{"nil node", nil, "nil node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pygen.Render(tt.node, pygen.Style{})
			require.Error(t, err)

			var gerr *pygen.GenerationError
			require.True(t, errors.As(err, &gerr))
			assert.True(t, strings.Contains(err.Error(), tt.msg), "error %q lacks %q", err, tt.msg)
		})
	}
}

func TestNeedsParensAndSeparator(t *testing.T) {
	t.Parallel()

	gen := &pyast.Comp{Form: pyast.CompGen, Elt: name("x")}
	call := &pyast.Call{Func: name("f"), Args: []pyast.Expr{gen}}
	assert.False(t, pygen.NeedsParens(call, "Args", gen))
	assert.True(t, pygen.NeedsParens(&pyast.List{}, "Elts", gen))

	yield := &pyast.Yield{}
	assert.False(t, pygen.NeedsParens(&pyast.Assign{}, "Value", yield))
	assert.True(t, pygen.NeedsParens(call, "Args", yield))

	assert.Equal(t, " = ", pygen.Separator(&pyast.Assign{}, "Targets"))
	assert.Equal(t, ", ", pygen.Separator(call, "Args"))
}
