package provenance_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/provenance"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

func setup(t *testing.T, src string) (*pyast.Module, *index.Index) {
	t.Helper()
	file := source.NewFileString("p.py", src)
	mod, err := pyparse.Parse(file)
	require.NoError(t, err)
	ix, err := index.Build(file, mod)
	require.NoError(t, err)
	return mod, ix
}

func TestClassify_IdentityIsUnchanged(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "a = f(b)\nif a:\n    g()\n")
	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)

	pyast.Inspect(mod, func(n pyast.Node) bool {
		assert.Equal(t, provenance.Unchanged, res.Class(n), "%s", n.Kind())
		return true
	})
	assert.Equal(t, ix.Len(), res.Stats().Unchanged)
	assert.Zero(t, res.Stats().Modified)
}

func TestClassify_ReplacementPropagatesUp(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "a = f(b, c)\nx = 1\n")
	assign := mod.Body[0].(*pyast.Assign)
	call := assign.Value.(*pyast.Call)
	kept := call.Args[1]
	call.Args[0] = &pyast.Name{Ident: "fresh"}

	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)

	assert.Equal(t, provenance.Synthetic, res.Class(call.Args[0]))
	assert.Equal(t, provenance.Unchanged, res.Class(kept))

	callInfo := res.Info(call)
	assert.Equal(t, provenance.Modified, callInfo.Class)
	assert.True(t, callInfo.Reshaped)
	assert.False(t, callInfo.Dirty)

	assert.Equal(t, provenance.Modified, res.Class(assign))
	assert.Equal(t, provenance.Modified, res.Class(mod))
	assert.Equal(t, provenance.Unchanged, res.Class(mod.Body[1]))
}

func TestClassify_InPlaceMutationIsDirty(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "a = b\n")
	name := mod.Body[0].(*pyast.Assign).Value.(*pyast.Name)
	name.Ident = "c"

	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)

	info := res.Info(name)
	assert.Equal(t, provenance.Modified, info.Class)
	assert.True(t, info.Dirty)
	assert.False(t, info.Reshaped)
	assert.NotNil(t, info.Entry)
}

func TestClassify_MovedOriginal(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "f(a)\ng(b)\n")
	first := mod.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call)
	second := mod.Body[1].(*pyast.ExprStmt).Value.(*pyast.Call)
	moved := first.Args[0]
	second.Args = append(second.Args, moved)
	first.Args = nil

	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)

	info := res.Info(moved)
	assert.Equal(t, provenance.Unchanged, info.Class)
	assert.True(t, info.Moved)
	assert.True(t, res.Info(second).Reshaped)
}

func TestClassify_ClonesAreSynthetic(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "f(a)\n")
	stmt := mod.Body[0]
	clone := pyast.Clone(stmt)
	mod.Body = append(mod.Body, clone)

	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)

	pyast.Inspect(clone, func(n pyast.Node) bool {
		assert.Equal(t, provenance.Synthetic, res.Class(n))
		return true
	})
	assert.Equal(t, provenance.Unchanged, res.Class(stmt))
}

func TestClassify_SyntheticParentKeepsOriginalChildren(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "x = a + b\n")
	assign := mod.Body[0].(*pyast.Assign)
	orig := assign.Value
	assign.Value = &pyast.Call{Func: &pyast.Name{Ident: "wrap"}, Args: []pyast.Expr{orig}}

	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)
	assert.Equal(t, provenance.Synthetic, res.Class(assign.Value))

	info := res.Info(orig)
	assert.Equal(t, provenance.Unchanged, info.Class)
	assert.True(t, info.Moved)
}

func TestClassify_AbsentSpanIsNeverUnchanged(t *testing.T) {
	t.Parallel()

	file := source.NewFileString("p.py", "f(a)\n")
	mod, err := pyparse.Parse(file)
	require.NoError(t, err)
	arg := mod.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call).Args[0]
	arg.Base().Pos = pyast.Pos{}

	ix, err := index.Build(file, mod)
	require.NoError(t, err)
	res, err := provenance.Classify(ix, mod)
	require.NoError(t, err)
	assert.Equal(t, provenance.Modified, res.Class(arg))
}

func TestClassify_SharedNodeIsTreeError(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "f(a)\n")
	call := mod.Body[0].(*pyast.ExprStmt).Value.(*pyast.Call)
	call.Args = append(call.Args, call.Args[0])

	_, err := provenance.Classify(ix, mod)
	var terr *provenance.TreeError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, err.Error(), "more than once")
}

func TestClassify_CycleIsTreeError(t *testing.T) {
	t.Parallel()

	mod, ix := setup(t, "if x:\n    pass\n")
	stmt := mod.Body[0].(*pyast.If)
	stmt.Body = append(stmt.Body, stmt)

	_, err := provenance.Classify(ix, mod)
	var terr *provenance.TreeError
	require.True(t, errors.As(err, &terr))
}
