package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/ref"
)

func TestMemAddFileIsIdempotent(t *testing.T) {
	m := OpenMem()
	id1, err := m.AddFile("a.h")
	require.NoError(t, err)
	id2, err := m.AddFile("a.h")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	path, err := m.FileLookup(id1)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestMemFileLookupNotFound(t *testing.T) {
	m := OpenMem()
	_, err := m.FileLookup(999)
	assert.True(t, cerr.Is(err, cerr.NotFound))
}

func TestMemTypeInsertAndLookupRoundTrip(t *testing.T) {
	m := OpenMem()
	loc := ref.SourceLocation{Line: 3, Column: 1}
	id, err := m.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)

	got, err := m.TypeLookup(id)
	require.NoError(t, err)
	assert.Equal(t, ref.KindStruct, got.Kind)
	assert.True(t, got.Complete)
	assert.Equal(t, loc, got.Loc)
}

func TestMemTypenameInsertLookupAndFind(t *testing.T) {
	m := OpenMem()
	loc := ref.SourceLocation{Line: 1}
	baseID, err := m.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)

	require.NoError(t, m.TypenameInsert(loc, "point_t", ref.NameTypedef, baseID))

	found, err := m.TypenameLookup(loc, "point_t", ref.NameTypedef)
	require.NoError(t, err)
	assert.Equal(t, baseID, found)

	_, err = m.TypenameLookup(loc, "point_t", ref.NameDirect)
	assert.True(t, cerr.Is(err, cerr.NotFound), "tag and typedef namespaces must be disjoint")

	cur, err := m.TypenameFind("point%")
	require.NoError(t, err)
	defer cur.Free()
	require.True(t, cur.Next())
	assert.Equal(t, "point_t", cur.Peek().Name)
	assert.False(t, cur.Next())
}

func TestMemMemberInsertAndLookup(t *testing.T) {
	m := OpenMem()
	loc := ref.SourceLocation{Line: 5}
	parent, err := m.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	require.NoError(t, m.MemberInsert(loc, parent, ref.None(), "x"))

	got, err := m.MemberLookup(parent, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name.String())
	assert.True(t, got.BaseTypeIsPrimitive())

	_, err = m.MemberLookup(parent, "missing")
	assert.True(t, cerr.Is(err, cerr.NotFound))
}

func TestMemTypeUseInsertDoesNotError(t *testing.T) {
	m := OpenMem()
	loc := ref.SourceLocation{Line: 7}
	id, err := m.TypeInsert(loc, ref.KindEnum, true)
	require.NoError(t, err)
	assert.NoError(t, m.TypeUseInsert(loc, id, ref.UseDecl))
}

func TestMemReadOnlyRejectsMutatingCalls(t *testing.T) {
	m := OpenMemReadOnly()
	assert.True(t, m.ReadOnly())

	loc := ref.SourceLocation{}
	_, err := m.TypeInsert(loc, ref.KindStruct, true)
	assert.True(t, cerr.Is(err, cerr.PermissionDenied))

	err = m.TypenameInsert(loc, "x", ref.NameDirect, 1)
	assert.True(t, cerr.Is(err, cerr.PermissionDenied))

	err = m.MemberInsert(loc, 1, ref.None(), "x")
	assert.True(t, cerr.Is(err, cerr.PermissionDenied))

	err = m.TypeUseInsert(loc, 1, ref.UseDecl)
	assert.True(t, cerr.Is(err, cerr.PermissionDenied))
}

func TestMemTypenameFindLikeWildcardSemantics(t *testing.T) {
	m := OpenMem()
	loc := ref.SourceLocation{}
	baseID, err := m.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	for _, name := range []string{"foo_t", "bar_foo", "xfooy"} {
		require.NoError(t, m.TypenameInsert(loc, name, ref.NameTypedef, baseID))
	}

	cur, err := m.TypenameFind("%foo%")
	require.NoError(t, err)
	var names []string
	for cur.Next() {
		names = append(names, cur.Peek().Name)
	}
	require.NoError(t, cur.Err())
	assert.ElementsMatch(t, []string{"foo_t", "bar_foo", "xfooy"}, names)

	cur2, err := m.TypenameFind("foo_t")
	require.NoError(t, err)
	defer cur2.Free()
	require.True(t, cur2.Next())
	assert.Equal(t, "foo_t", cur2.Peek().Name)
	assert.False(t, cur2.Next(), "the '_' in foo_t matches one character, so no other row fits the pattern")
}

func TestNopDiscardsMutationsAndReportsNotFound(t *testing.T) {
	n := OpenNop()
	assert.False(t, n.ReadOnly())

	id, err := n.AddFile("whatever.c")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = n.FileLookup(id)
	assert.True(t, cerr.Is(err, cerr.NotFound))

	tid, err := n.TypeInsert(ref.SourceLocation{}, ref.KindStruct, true)
	require.NoError(t, err)

	_, err = n.TypeLookup(tid)
	assert.True(t, cerr.Is(err, cerr.NotFound))

	assert.NoError(t, n.TypenameInsert(ref.SourceLocation{}, "x", ref.NameDirect, tid))
	_, err = n.TypenameLookup(ref.SourceLocation{}, "x", ref.NameDirect)
	assert.True(t, cerr.Is(err, cerr.NotFound))

	cur, err := n.TypenameFind("%")
	require.NoError(t, err)
	assert.False(t, cur.Next())
	assert.NoError(t, cur.Err())
	assert.NoError(t, cur.Free())

	assert.NoError(t, n.MemberInsert(ref.SourceLocation{}, tid, ref.None(), "m"))
	_, err = n.MemberLookup(tid, "m")
	assert.True(t, cerr.Is(err, cerr.NotFound))

	assert.NoError(t, n.TypeUseInsert(ref.SourceLocation{}, tid, ref.UseCast))
	assert.NoError(t, n.Close())
}
