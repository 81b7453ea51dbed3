// Package strx implements the owned-vs-borrowed string contract from the
// Location & Reference Model: a string value is either an owned heap copy
// or a slice borrowed from a buffer the caller does not control the
// lifetime of (a cursor row, a tree-sitter source buffer). The original C
// implementation packs this into the high bit of a 32-bit length field; Go's
// garbage collector makes that representation unsafe, so the distinction is
// carried as an explicit tag instead. The contract is unchanged: construction
// is limited to four operations, and a borrowed value must not outlive the
// buffer it points into.
package strx

import "fmt"

const maxLen = 1<<31 - 1

// kind tags which constructor produced a Str.
type kind uint8

const (
	kindNull kind = iota
	kindBorrowed
	kindOwned
)

// Str is a length-checked string that knows whether it owns its bytes.
type Str struct {
	k kind
	s string
}

// Null returns the zero-value Str (kind Null, empty text). It is neither
// owned nor borrowed and is always safe to keep.
func Null() Str { return Str{} }

// BorrowLiteral wraps a Go string literal (or any caller-guaranteed
// program-lifetime string) without copying.
func BorrowLiteral(s string) Str {
	mustFit(s)
	return Str{k: kindBorrowed, s: s}
}

// BorrowFrom wraps a slice of a buffer whose lifetime the caller controls
// (e.g. a cursor row or a source buffer). Go's string conversion from a
// byte slice always copies the bytes; "borrowed" here is a lifetime
// contract, not a literal zero-copy view — the returned Str's kind says the
// text is only as durable as the buffer it names, so callers must not
// retain it past that buffer's lifetime, and must call Dup to do so.
func BorrowFrom(buf []byte, start, end int) Str {
	s := string(buf[start:end])
	mustFit(s)
	return Str{k: kindBorrowed, s: s}
}

// Dup makes a deep, owned copy of s, safe to keep indefinitely.
func Dup(s string) Str {
	mustFit(s)
	b := make([]byte, len(s))
	copy(b, s)
	return Str{k: kindOwned, s: string(b)}
}

func mustFit(s string) {
	if len(s) > maxLen {
		panic(fmt.Sprintf("strx: string of length %d exceeds contract maximum %d", len(s), maxLen))
	}
}

// IsNull reports whether this is the zero Str.
func (v Str) IsNull() bool { return v.k == kindNull }

// IsBorrowed reports whether the bytes are borrowed from an external buffer.
func (v Str) IsBorrowed() bool { return v.k == kindBorrowed }

// IsOwned reports whether the bytes are an independent heap copy.
func (v Str) IsOwned() bool { return v.k == kindOwned }

// String returns the text. Callers must not retain it past the lifetime of
// the backing buffer when IsBorrowed is true.
func (v Str) String() string { return v.s }

// Len returns the byte length of the text.
func (v Str) Len() int { return len(v.s) }

// Owned returns a deep copy of v that is safe to retain regardless of v's
// own borrowing status.
func (v Str) Owned() Str {
	if v.k == kindOwned || v.k == kindNull {
		return v
	}
	return Dup(v.s)
}
