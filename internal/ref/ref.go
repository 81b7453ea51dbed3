// Package ref defines the durable and transient identifier types shared by
// every other package in cfind. A Ref is a tagged union: either a durable
// integer id assigned by the store, or an opaque pointer-valued id that is
// only meaningful for the lifetime of one translation unit.
package ref

// Opaque is a transient, translation-unit-local identifier handed out by the
// frontend for a type it has not yet (and may never) persist. It is never
// written to the durable store.
type Opaque uintptr

// Durable is a stable integer identifier assigned by the persistent store.
// Zero is never a valid durable id; it is reserved for "no reference" (e.g.
// SourceLocation.Func at global scope).
type Durable int64

// Kind distinguishes the two variants a Ref can hold.
type Kind uint8

const (
	// KindNone marks a zero-value Ref carrying neither id.
	KindNone Kind = iota
	// KindDurable marks a Ref backed by a store-assigned id.
	KindDurable
	// KindOpaque marks a Ref backed by a transient frontend pointer value.
	KindOpaque
)

// Ref is the tagged union described by the Location & Reference Model.
// Exactly one of Durable/Opaque is meaningful, selected by Kind.
type Ref struct {
	kind    Kind
	durable Durable
	opaque  Opaque
}

// None returns the zero Ref, carrying neither a durable nor an opaque id.
func None() Ref { return Ref{kind: KindNone} }

// FromDurable wraps a durable id.
func FromDurable(id Durable) Ref { return Ref{kind: KindDurable, durable: id} }

// FromOpaque wraps an opaque, TU-local id.
func FromOpaque(id Opaque) Ref { return Ref{kind: KindOpaque, opaque: id} }

// IsNone reports whether this is the zero Ref.
func (r Ref) IsNone() bool { return r.kind == KindNone }

// IsDurable reports whether this Ref carries a durable id.
func (r Ref) IsDurable() bool { return r.kind == KindDurable }

// IsOpaque reports whether this Ref carries an opaque id.
func (r Ref) IsOpaque() bool { return r.kind == KindOpaque }

// Kind reports which variant is in effect.
func (r Ref) Kind() Kind { return r.kind }

// Durable returns the durable id and true if this Ref carries one.
func (r Ref) Durable() (Durable, bool) {
	if r.kind != KindDurable {
		return 0, false
	}
	return r.durable, true
}

// Opaque returns the opaque id and true if this Ref carries one.
func (r Ref) Opaque() (Opaque, bool) {
	if r.kind != KindOpaque {
		return 0, false
	}
	return r.opaque, true
}

// TypeKind enumerates the three aggregate kinds the Indexer records.
type TypeKind uint8

const (
	KindStruct TypeKind = iota
	KindUnion
	KindEnum
)

// String renders a TypeKind using the same spellings the query CLI prints.
func (k TypeKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	default:
		return "<unknown>"
	}
}

// ParseTypeKind parses "struct"/"union"/"enum" as used by the query grammar.
func ParseTypeKind(s string) (TypeKind, bool) {
	switch s {
	case "struct":
		return KindStruct, true
	case "union":
		return KindUnion, true
	case "enum":
		return KindEnum, true
	default:
		return 0, false
	}
}

// NameKind enumerates the three ways a Type can be referred to by name.
type NameKind uint8

const (
	// NameDirect is a tag name ("struct foo").
	NameDirect NameKind = iota
	// NameTypedef is a typedef spelling ("typedef struct {...} foo_t;").
	NameTypedef
	// NameVar is a variable declarator spelling for an otherwise-unnamed type.
	NameVar
)

// UseKind enumerates the non-definition mentions of a type that TypeUse
// records capture.
type UseKind uint8

const (
	UseDecl UseKind = iota
	UseInit
	UseParam
	UseCast
	UseSizeof
)

// SourceLocation is the origin of any record: which file, which function
// (0 at global scope), the nesting-scope counter, and 1-based line/column.
type SourceLocation struct {
	File   Ref
	Func   Ref
	Scope  int
	Line   int
	Column int
}

// GlobalScope is the scope-counter value for file-level declarations.
const GlobalScope = 0

// FunctionTopScope is the scope-counter value for a function's top-level
// block, before any nested block is entered.
const FunctionTopScope = 1
