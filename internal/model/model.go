// Package model defines the entity structs of the data model: File, Type,
// Typename, Member, TypeUse, and the SourceLocation they all carry. These
// are plain value types; persistence lives in internal/store and
// internal/storesql.
package model

import (
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/strx"
)

// File is a source-bearing translation unit input, keyed by durable id with
// a canonicalized path.
type File struct {
	ID   ref.Durable
	Path strx.Str
}

// Type is a user-defined struct/union/enum declaration.
type Type struct {
	ID       ref.Durable
	Kind     ref.TypeKind
	Complete bool
	Loc      ref.SourceLocation
}

// Typename is one way of referring to a Type: a tag name, a typedef
// spelling, or a variable-declarator spelling for an otherwise-unnamed type.
type Typename struct {
	Name     strx.Str
	Kind     ref.NameKind
	BaseType ref.Ref // durable once committed; opaque while staged
	Loc      ref.SourceLocation
}

// Member is a field of a struct/union, recorded once per lexical occurrence.
type Member struct {
	Parent   ref.Ref // the owning Type
	BaseType ref.Ref // None for primitive-typed members
	Name     strx.Str
	Loc      ref.SourceLocation
}

// BaseTypeIsPrimitive reports whether this member's type is a primitive
// (no BaseType reference at all), per the data model's "nullable for
// primitives" rule.
func (m Member) BaseTypeIsPrimitive() bool { return m.BaseType.IsNone() }

// TypeUse is a non-definition mention of a type: a declaration, an
// initializer, a parameter, a cast, or a sizeof operand.
type TypeUse struct {
	BaseType ref.Ref
	Kind     ref.UseKind
	Loc      ref.SourceLocation
}
