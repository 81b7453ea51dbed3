package qlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cfind/internal/ref"
)

func TestParseTypeDeclByID(t *testing.T) {
	q, err := Parse("td 42")
	require.NoError(t, err)
	assert.Equal(t, CmdTypeDecl, q.Cmd)
	assert.True(t, q.ByID)
	assert.Equal(t, ref.Durable(42), q.ID)
}

func TestParseTypeDeclByKindAndName(t *testing.T) {
	q, err := Parse("td struct foo")
	require.NoError(t, err)
	assert.False(t, q.ByID)
	assert.True(t, q.HasKind)
	assert.Equal(t, ref.KindStruct, q.Kind)
	assert.Equal(t, "foo", q.Name)
}

func TestParseTypeDeclLongForm(t *testing.T) {
	q, err := Parse("typedecl union bar")
	require.NoError(t, err)
	assert.Equal(t, CmdTypeDecl, q.Cmd)
	assert.Equal(t, ref.KindUnion, q.Kind)
}

func TestParseTypeDeclRejectsBadKind(t *testing.T) {
	_, err := Parse("td class foo")
	assert.Error(t, err)
}

func TestParseTypeDeclRejectsTooManyArgs(t *testing.T) {
	_, err := Parse("td struct foo bar")
	assert.Error(t, err)
}

func TestParseTypeNameBareAndWithKind(t *testing.T) {
	q, err := Parse("tn foo_t")
	require.NoError(t, err)
	assert.Equal(t, CmdTypeName, q.Cmd)
	assert.False(t, q.HasKind)
	assert.Equal(t, "foo_t", q.Name)

	q2, err := Parse("typename enum color_t")
	require.NoError(t, err)
	assert.True(t, q2.HasKind)
	assert.Equal(t, ref.KindEnum, q2.Kind)
}

func TestParseMemberDeclByID(t *testing.T) {
	q, err := Parse("md 7 x")
	require.NoError(t, err)
	assert.Equal(t, CmdMemberDecl, q.Cmd)
	assert.True(t, q.ByID)
	assert.Equal(t, ref.Durable(7), q.ID)
	assert.Equal(t, "x", q.Member)
}

func TestParseMemberDeclByName(t *testing.T) {
	q, err := Parse("md foo x")
	require.NoError(t, err)
	assert.False(t, q.ByID)
	assert.Equal(t, "foo", q.Name)
	assert.Equal(t, "x", q.Member)
}

func TestParseMemberDeclByKindAndName(t *testing.T) {
	q, err := Parse("memberdecl struct foo x")
	require.NoError(t, err)
	assert.True(t, q.HasKind)
	assert.Equal(t, ref.KindStruct, q.Kind)
	assert.Equal(t, "foo", q.Name)
	assert.Equal(t, "x", q.Member)
}

func TestParseMemberDeclRequiresAtLeastTwoArgs(t *testing.T) {
	_, err := Parse("md foo")
	assert.Error(t, err)
}

func TestParseRejectsEmptyAndUnknownCommands(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
	_, err = Parse("bogus foo")
	assert.Error(t, err)
}

func TestParseIDRejectsNonPositive(t *testing.T) {
	_, err := Parse("td 0")
	assert.Error(t, err, "an id of 0 is never valid, so td 0 must be rejected rather than read as a name")
	_, err = Parse("td -1")
	assert.Error(t, err)
}
