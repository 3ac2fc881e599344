package pyparse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

func parse(t *testing.T, src string) (*source.File, *pyast.Module) {
	t.Helper()
	file := source.NewFileString("test.py", src)
	mod, err := pyparse.Parse(file)
	require.NoError(t, err)
	return file, mod
}

// text returns the source covered by the Pos of n.
func text(t *testing.T, file *source.File, n pyast.Node) string {
	t.Helper()
	pos := n.Base().Pos
	start, err := file.Offset(pos.Line, pos.Col)
	require.NoError(t, err)
	end, err := file.Offset(pos.EndLine, pos.EndCol)
	require.NoError(t, err)
	return file.Slice(start, end)
}

func TestParse_StatementSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"assign", "x = 1  # one\n", []string{"x = 1"}},
		{"chained assign", "a = b = f(x)\n", []string{"a = b = f(x)"}},
		{"semicolons", "a; b ;c\n", []string{"a", "b", "c"}},
		{"no trailing newline", "pass", []string{"pass"}},
		{"trailing tuple comma", "t = 1,\n", []string{"t = 1,"}},
		{"import", "import os.path as p, sys\n", []string{"import os.path as p, sys"}},
		{"from import parens", "from . import (a,\n  b)\n", []string{"from . import (a,\n  b)"}},
		{"if block", "if x:\n    y()\n# tail\n", []string{"if x:\n    y()"}},
		{"decorated", "@dec\ndef f(a, *, b=1) -> int:\n    return a\n", []string{"@dec\ndef f(a, *, b=1) -> int:\n    return a"}},
		{"inline suite", "while x: x -= 1\nz\n", []string{"while x: x -= 1", "z"}},
		{"continuation", "x = 1 + \\\n    2\n", []string{"x = 1 + \\\n    2"}},
		{"bracket newline", "f(a,\n  b)\n", []string{"f(a,\n  b)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file, mod := parse(t, tt.src)
			var got []string
			for _, stmt := range mod.Body {
				got = append(got, text(t, file, stmt))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ParenFlag(t *testing.T) {
	t.Parallel()

	file, mod := parse(t, "y = (a + b) * (c)\n")
	assign := mod.Body[0].(*pyast.Assign)
	mul := assign.Value.(*pyast.BinOp)

	assert.Equal(t, "(a + b) * (c)", text(t, file, mul))
	assert.Equal(t, "a + b", text(t, file, mul.Left))
	assert.True(t, mul.Left.Base().Paren)
	assert.Equal(t, "c", text(t, file, mul.Right))
	assert.True(t, mul.Right.Base().Paren)
	assert.False(t, mul.Base().Paren)
}

func TestParse_TupleParens(t *testing.T) {
	t.Parallel()

	file, mod := parse(t, "f((a, b), c)\n")
	call := mod.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call)
	require.Len(t, call.Args, 2)

	tup := call.Args[0].(*pyast.Tuple)
	assert.True(t, tup.Parens)
	assert.False(t, tup.Paren)
	assert.Equal(t, "(a, b)", text(t, file, tup))
}

func TestParse_ElifChain(t *testing.T) {
	t.Parallel()

	src := "if a:\n    x\nelif b:\n    y\nelse:\n    z\n"
	file, mod := parse(t, src)
	outer := mod.Body[0].(*pyast.If)
	require.Len(t, outer.Orelse, 1)

	elif := outer.Orelse[0].(*pyast.If)
	assert.True(t, elif.IsElif)
	assert.Equal(t, "elif b:\n    y\nelse:\n    z", text(t, file, elif))
	require.Len(t, elif.Orelse, 1)
}

func TestParse_TryClauses(t *testing.T) {
	t.Parallel()

	src := "try:\n    a\nexcept E as e:\n    b\nelse:\n    c\nfinally:\n    d\n"
	file, mod := parse(t, src)
	try := mod.Body[0].(*pyast.Try)

	require.Len(t, try.Handlers, 1)
	assert.Equal(t, "e", try.Handlers[0].Name)
	assert.Equal(t, "except E as e:\n    b", text(t, file, try.Handlers[0]))
	assert.Len(t, try.Orelse, 1)
	assert.Len(t, try.Finalbody, 1)
}

func TestParse_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		kind pyast.Kind
	}{
		{"a if b else c", pyast.KindIfExp},
		{"lambda x, y=2: x", pyast.KindLambda},
		{"not a", pyast.KindUnaryOp},
		{"a < b <= c", pyast.KindCompare},
		{"a not in b", pyast.KindCompare},
		{"a is not b", pyast.KindCompare},
		{"a and b or c", pyast.KindBinOp},
		{"-x ** 2", pyast.KindUnaryOp},
		{"x[1:2, ::3]", pyast.KindSubscript},
		{"[i for i in r if i]", pyast.KindComp},
		{"{k: v for k, v in d}", pyast.KindComp},
		{"{1, 2}", pyast.KindSet},
		{"{'a': 1, **b}", pyast.KindDict},
		{"f(*a, **k, x=1)", pyast.KindCall},
		{"'a' 'b'", pyast.KindConstant},
		{"...", pyast.KindConstant},
		{"(yield x)", pyast.KindYield},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			expr, err := pyparse.ParseExpr(source.NewFileString("", tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, expr.Kind())
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	t.Parallel()

	expr, err := pyparse.ParseExpr(source.NewFileString("", "a + b * c - d"))
	require.NoError(t, err)

	sub := expr.(*pyast.BinOp)
	assert.Equal(t, "-", sub.Op)
	add := sub.Left.(*pyast.BinOp)
	assert.Equal(t, "+", add.Op)
	assert.Equal(t, "*", add.Right.(*pyast.BinOp).Op)
}

func TestParse_StringConcatenationRaw(t *testing.T) {
	t.Parallel()

	file, mod := parse(t, "s = ('a'\n     \"b\")\n")
	value := mod.Body[0].(*pyast.Assign).Value.(*pyast.Constant)
	assert.Equal(t, "'a'\n     \"b\"", value.Raw)
	assert.Equal(t, "ab", value.Value)
	assert.True(t, value.Paren)
	assert.Equal(t, value.Raw, text(t, file, value))
}

func TestParse_IDsArePreOrder(t *testing.T) {
	t.Parallel()

	_, mod := parse(t, "def f(a):\n    return g(a, 1)\nx = [1, 2]\n")

	var ids []pyast.NodeID
	pyast.Inspect(mod, func(n pyast.Node) bool {
		ids = append(ids, n.Base().ID)
		return true
	})
	require.NotEmpty(t, ids)
	for i, id := range ids {
		assert.Equal(t, pyast.NodeID(i+1), id)
	}
}

func TestParse_ChildSpansNested(t *testing.T) {
	t.Parallel()

	src := "class C(B, metaclass=M):\n    @staticmethod\n    def f(x: int = 3, *args, **kw):\n        with open(p) as fh, lock:\n            for i, j in zip(a, b):\n                yield {i: j}\n"
	file, mod := parse(t, src)

	var check func(n pyast.Node, start, end int)
	check = func(n pyast.Node, start, end int) {
		pos := n.Base().Pos
		s, err := file.Offset(pos.Line, pos.Col)
		require.NoError(t, err)
		e, err := file.Offset(pos.EndLine, pos.EndCol)
		require.NoError(t, err)
		require.LessOrEqual(t, start, s, "%s starts before its parent", n.Kind())
		require.LessOrEqual(t, e, end, "%s ends after its parent", n.Kind())
		prev := s
		for _, c := range pyast.Children(n) {
			cs, _ := file.Offset(c.Base().Pos.Line, c.Base().Pos.Col)
			require.LessOrEqual(t, prev, cs, "%s out of order", c.Kind())
			check(c, s, e)
			prev, _ = file.Offset(c.Base().Pos.EndLine, c.Base().Pos.EndCol)
		}
	}
	check(mod, 0, file.Len())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unexpected indent", "x\n  y\n", 2},
		{"bad dedent", "if x:\n    a\n  b\n", 3},
		{"unterminated string", "s = 'abc\n", 1},
		{"missing colon", "if x\n    y\n", 1},
		{"unmatched bracket", "f(a))\n", 1},
		{"keyword as name", "def = 1\n", 1},
		{"try without handler", "try:\n    a\nx = 1\n", 3},
		{"async", "async def f():\n    pass\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pyparse.Parse(source.NewFileString("bad.py", tt.src))
			require.Error(t, err)

			var perr *pyparse.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Contains(t, err.Error(), "bad.py:")
		})
	}
}

func TestParse_TabsAndComments(t *testing.T) {
	t.Parallel()

	src := "if x:\n\t# comment at odd indent\n\ty = 1\n\n\tz = 2\n"
	_, mod := parse(t, src)
	stmt := mod.Body[0].(*pyast.If)
	assert.Len(t, stmt.Body, 2)
}
