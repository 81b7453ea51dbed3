// Package cursor defines the abstract cursor-visit stream the AST
// Translator drives. The real C compiler frontend is external to this
// repository (spec.md §1); this package is the seam between it and the
// Translator, so the Translator can be exercised against a hand-built fake
// tree in tests and against a real tree-sitter-backed adapter (package
// tscursor) in production.
package cursor

import "github.com/oxhq/cfind/internal/ref"

// Kind enumerates the abstract cursor kinds the Translator dispatches on.
type Kind int

const (
	KindOther Kind = iota
	KindStructDecl
	KindUnionDecl
	KindEnumDecl
	KindTypedefDecl
	KindVarDecl
	KindFieldDecl
	KindEnumConstantDecl
	KindTranslationUnit
)

// DefaultArgs returns the compile flags for the single-source input path,
// where no compilation database supplies them: "-std=c17 -x c". The
// tree-sitter adapter takes no compile flags, so tscursor.ParseFile does not
// use them.
func DefaultArgs() []string {
	return []string{"-std=c17", "-x", "c"}
}

// IsAggregateDecl reports whether k is one of StructDecl/UnionDecl/EnumDecl.
func (k Kind) IsAggregateDecl() bool {
	return k == KindStructDecl || k == KindUnionDecl || k == KindEnumDecl
}

// TypeKind maps an aggregate-decl Kind to the ref.TypeKind the store records.
func (k Kind) TypeKind() ref.TypeKind {
	switch k {
	case KindUnionDecl:
		return ref.KindUnion
	case KindEnumDecl:
		return ref.KindEnum
	default:
		return ref.KindStruct
	}
}

// Cursor is one node in the abstract visitation tree.
type Cursor interface {
	// Kind reports this node's abstract kind.
	Kind() Kind
	// Spelling returns the tag name / declarator spelling, or "" if none.
	Spelling() string
	// IsAnonymousRecord reports whether the frontend flagged this aggregate
	// as an anonymous record: no tag, nested in a parent aggregate, with or
	// without a field declarator after it. Its fields merge into the parent.
	IsAnonymousRecord() bool
	// PrettyPrints returns the frontend's pretty-printed form, used to
	// detect the "struct {"/"union {"/"enum {" unnamed-aggregate pattern.
	PrettyPrints() string
	// ExpansionLocation reports the file/line/column this node expands to.
	ExpansionLocation() (file string, line, col int)
	// OpaqueType returns this node's transient type identifier, or the zero
	// Opaque if it has no type of its own (e.g. a FieldDecl describing a
	// primitive).
	OpaqueType() ref.Opaque
	// IsAggregateType reports whether OpaqueType names a struct/union/enum,
	// as opposed to a primitive or pointer/array of one.
	IsAggregateType() bool
	// CanonicalUnderlyingType resolves a typedef's or variable's declared
	// type through to its canonical form, for matching against a staged
	// aggregate's opaque id during the post-aggregate naming lookahead.
	CanonicalUnderlyingType() ref.Opaque
	// IsIncomplete reports whether an aggregate-kind cursor is a forward
	// declaration without a body.
	IsIncomplete() bool
	// Children returns this node's direct children, in visitation order.
	Children() []Cursor
}

// Stream is one translation unit's cursor-visit stream: the files
// enumerated during inclusion processing, and the root of the visitation
// tree.
type Stream interface {
	// Includes lists files seen during inclusion enumeration, in order.
	Includes() []string
	// Root returns the translation-unit root cursor.
	Root() Cursor
}
