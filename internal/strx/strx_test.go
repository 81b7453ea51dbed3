package strx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNull(t *testing.T) {
	v := Null()
	assert.True(t, v.IsNull())
	assert.False(t, v.IsBorrowed())
	assert.False(t, v.IsOwned())
	assert.Equal(t, "", v.String())
}

func TestBorrowLiteral(t *testing.T) {
	v := BorrowLiteral("foo")
	assert.True(t, v.IsBorrowed())
	assert.Equal(t, "foo", v.String())
	assert.Equal(t, 3, v.Len())
}

func TestBorrowFrom(t *testing.T) {
	buf := []byte("hello world")
	v := BorrowFrom(buf, 0, 5)
	assert.True(t, v.IsBorrowed())
	assert.Equal(t, "hello", v.String())
}

func TestDupIsIndependentCopy(t *testing.T) {
	buf := []byte("mutable")
	v := Dup(string(buf))
	buf[0] = 'X'
	assert.Equal(t, "mutable", v.String(), "Dup must not alias the source bytes")
	assert.True(t, v.IsOwned())
}

func TestOwnedPromotesABorrowedValue(t *testing.T) {
	v := BorrowLiteral("borrowed")
	owned := v.Owned()
	assert.True(t, owned.IsOwned())
	assert.Equal(t, v.String(), owned.String())
}

func TestOwnedIsNoopOnAlreadyOwnedOrNull(t *testing.T) {
	owned := Dup("x")
	assert.Equal(t, owned, owned.Owned())
	n := Null()
	assert.Equal(t, n, n.Owned())
}

func TestBorrowFromEmptySliceIsNotNull(t *testing.T) {
	v := BorrowFrom([]byte("x"), 0, 0)
	assert.False(t, v.IsNull(), "a constructed-but-empty Str is still kind Borrowed, not kind Null")
	assert.Equal(t, "", v.String())
	require.True(t, v.IsBorrowed())
}
