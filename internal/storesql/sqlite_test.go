package storesql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/ref"
)

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cf.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestAddFileIsIdempotentAndCanonical(t *testing.T) {
	s, _ := openTemp(t)
	id1, err := s.AddFile("a.c")
	require.NoError(t, err)
	id2, err := s.AddFile("./a.c")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	path, err := s.FileLookup(id1)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestTypeInsertLookupRoundTrip(t *testing.T) {
	s, _ := openTemp(t)
	loc := ref.SourceLocation{Line: 10, Column: 3}
	id, err := s.TypeInsert(loc, ref.KindUnion, true)
	require.NoError(t, err)

	got, err := s.TypeLookup(id)
	require.NoError(t, err)
	assert.Equal(t, ref.KindUnion, got.Kind)
	assert.True(t, got.Complete)
	assert.Equal(t, 10, got.Loc.Line)
	assert.Equal(t, 3, got.Loc.Column)
}

func TestTypeLookupNotFound(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.TypeLookup(999)
	assert.True(t, cerr.Is(err, cerr.NotFound))
}

func TestTypenameInsertLookupDisjointNamespaces(t *testing.T) {
	s, _ := openTemp(t)
	loc := ref.SourceLocation{Line: 1}
	baseID, err := s.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	require.NoError(t, s.TypenameInsert(loc, "foo", ref.NameDirect, baseID))

	found, err := s.TypenameLookup(loc, "foo", ref.NameDirect)
	require.NoError(t, err)
	assert.Equal(t, baseID, found)

	_, err = s.TypenameLookup(loc, "foo", ref.NameTypedef)
	assert.True(t, cerr.Is(err, cerr.NotFound))
}

func TestTypenameFindLikePattern(t *testing.T) {
	s, _ := openTemp(t)
	loc := ref.SourceLocation{Line: 1}
	baseID, err := s.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	for _, name := range []string{"foo_t", "foobar_t", "baz_t"} {
		require.NoError(t, s.TypenameInsert(loc, name, ref.NameTypedef, baseID))
	}

	cur, err := s.TypenameFind("foo%")
	require.NoError(t, err)
	defer cur.Free()
	var got []string
	for cur.Next() {
		got = append(got, cur.Peek().Name)
	}
	require.NoError(t, cur.Err())
	assert.ElementsMatch(t, []string{"foo_t", "foobar_t"}, got)
}

func TestMemberInsertAndLookup(t *testing.T) {
	s, _ := openTemp(t)
	loc := ref.SourceLocation{Line: 4, Column: 9}
	parent, err := s.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	require.NoError(t, s.MemberInsert(loc, parent, ref.None(), "x"))

	m, err := s.MemberLookup(parent, "x")
	require.NoError(t, err)
	assert.True(t, m.BaseTypeIsPrimitive())
	assert.Equal(t, 4, m.Loc.Line)
}

func TestTypeUseInsertSucceeds(t *testing.T) {
	s, _ := openTemp(t)
	loc := ref.SourceLocation{Line: 1}
	id, err := s.TypeInsert(loc, ref.KindEnum, true)
	require.NoError(t, err)
	assert.NoError(t, s.TypeUseInsert(loc, id, ref.UseSizeof))
}

func TestCloseCommitsAndReopenSeesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cf.db")
	s, err := Open(path)
	require.NoError(t, err)
	loc := ref.SourceLocation{Line: 1}
	id, err := s.TypeInsert(loc, ref.KindStruct, true)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.TypeLookup(id)
	require.NoError(t, err)
	assert.Equal(t, ref.KindStruct, got.Kind)
}

func TestReadOnlyRejectsMutatingCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cf.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()
	assert.True(t, ro.ReadOnly())

	loc := ref.SourceLocation{}
	_, err = ro.TypeInsert(loc, ref.KindStruct, true)
	assert.True(t, cerr.Is(err, cerr.PermissionDenied))

	_, err = ro.AddFile("new.c")
	assert.True(t, cerr.Is(err, cerr.PermissionDenied), "a brand-new path must still require writability on insert")
}

func TestAddFileOnReadOnlyStillResolvesExistingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cf.db")
	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.AddFile("known.c")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	got, err := ro.AddFile("known.c")
	require.NoError(t, err, "a read-only store must still be able to resolve an already-known path")
	assert.Equal(t, id, got)
}
