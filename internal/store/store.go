// Package store defines the Record Store Interface (RSI): the
// capability-oriented boundary the AST Translator and Staging Scoreboard
// use to persist files, types, typenames, members, and type-uses, plus the
// lazy typename-search cursor. Three backends satisfy Store — Nop, Mem, and
// storesql.SQLite — selected once at construction and never type-switched
// on: callers depend on the interface, not a concrete backend.
package store

import (
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/ref"
)

// Store is the full Record Store Interface contract. All of spec.md's
// operations appear here; ReadOnly backends (or Store instances opened
// read-only) fail mutating calls with a PermissionDenied cerr.Error.
type Store interface {
	// AddFile is idempotent: a path that canonicalizes to an existing File
	// returns the existing ref without inserting a new row.
	AddFile(path string) (ref.Durable, error)

	// FileLookup returns the canonical path for a durable file ref.
	FileLookup(id ref.Durable) (string, error)

	// TypeInsert inserts a new Type row and returns its durable id.
	TypeInsert(loc ref.SourceLocation, kind ref.TypeKind, complete bool) (ref.Durable, error)

	// TypeLookup returns a Type and its defining location by durable id.
	TypeLookup(id ref.Durable) (model.Type, error)

	// TypenameLookup matches on file, scope, name bytes, and name kind (tag
	// and typedef namespaces are disjoint). Returns cerr.NotFound if absent.
	TypenameLookup(loc ref.SourceLocation, name string, kind ref.NameKind) (ref.Durable, error)

	// TypenameInsert inserts a Typename referencing an existing, already
	// durable Type.
	TypenameInsert(loc ref.SourceLocation, name string, kind ref.NameKind, base ref.Durable) error

	// TypenameFind produces a lazy, forward-only, single-pass cursor over
	// Typename rows whose name matches (LIKE semantics).
	TypenameFind(namePattern string) (Cursor, error)

	// MemberInsert inserts a Member row. base may be the zero Ref for a
	// primitive-typed field.
	MemberInsert(loc ref.SourceLocation, parent ref.Durable, base ref.Ref, name string) error

	// MemberLookup finds a member of parent by exact or LIKE-pattern name.
	MemberLookup(parent ref.Durable, name string) (model.Member, error)

	// TypeUseInsert inserts a TypeUse row for an already-durable base type.
	TypeUseInsert(loc ref.SourceLocation, base ref.Durable, kind ref.UseKind) error

	// Close releases resources; for a durable read-write store it commits
	// the pending transaction spanning the whole run.
	Close() error

	// ReadOnly reports whether mutating calls will fail with PermissionDenied.
	ReadOnly() bool
}

// TypenameRow is one row yielded by a TypenameFind cursor. Name's value is
// only guaranteed valid until the cursor's next Next/Free call; see
// Cursor.Peek.
type TypenameRow struct {
	Name     string
	Kind     ref.NameKind
	BaseType ref.Durable
	Loc      ref.SourceLocation
}

// Cursor is the lazy, forward-only, single-pass, non-restartable typename
// search cursor. Peek's result is invalidated by the next Next or Free; the
// caller must not issue other mutating Store calls between Next calls.
type Cursor interface {
	// Next advances the cursor, reporting false when exhausted or on error
	// (check Err after a false Next).
	Next() bool
	// Peek returns the current row. Valid only between a true Next and the
	// following Next/Free call.
	Peek() TypenameRow
	// Err returns the first error encountered, if any.
	Err() error
	// Free releases the cursor's resources.
	Free() error
}
