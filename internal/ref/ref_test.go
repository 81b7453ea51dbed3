package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefZeroValue(t *testing.T) {
	var r Ref
	assert.True(t, r.IsNone())
	assert.False(t, r.IsDurable())
	assert.False(t, r.IsOpaque())
	assert.Equal(t, KindNone, r.Kind())
}

func TestRefFromDurable(t *testing.T) {
	r := FromDurable(42)
	require.True(t, r.IsDurable())
	assert.False(t, r.IsOpaque())
	assert.False(t, r.IsNone())
	id, ok := r.Durable()
	require.True(t, ok)
	assert.Equal(t, Durable(42), id)
	_, ok = r.Opaque()
	assert.False(t, ok)
}

func TestRefFromOpaque(t *testing.T) {
	r := FromOpaque(7)
	require.True(t, r.IsOpaque())
	id, ok := r.Opaque()
	require.True(t, ok)
	assert.Equal(t, Opaque(7), id)
	_, ok = r.Durable()
	assert.False(t, ok)
}

func TestNoneConstructor(t *testing.T) {
	assert.True(t, None().IsNone())
}

func TestTypeKindString(t *testing.T) {
	cases := map[TypeKind]string{
		KindStruct: "struct",
		KindUnion:  "union",
		KindEnum:   "enum",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Equal(t, "<unknown>", TypeKind(99).String())
}

func TestParseTypeKind(t *testing.T) {
	for s, want := range map[string]TypeKind{"struct": KindStruct, "union": KindUnion, "enum": KindEnum} {
		got, ok := ParseTypeKind(s)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ParseTypeKind("class")
	assert.False(t, ok)
}

func TestSourceLocationScopeConstants(t *testing.T) {
	assert.Equal(t, 0, GlobalScope)
	assert.Equal(t, 1, FunctionTopScope)
	loc := SourceLocation{Scope: GlobalScope, Line: 1, Column: 1}
	assert.Equal(t, 0, loc.Scope)
}
