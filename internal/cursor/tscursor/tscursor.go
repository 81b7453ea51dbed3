// Package tscursor is the Frontend Adapter: a cursor.Stream/cursor.Cursor
// implementation backed by github.com/smacker/go-tree-sitter and its C
// grammar. It translates tree-sitter's concrete node types into the
// abstract cursor kinds the AST Translator dispatches on: one adapter per
// concrete grammar, with no DSL-query layer, since none is needed here.
package tscursor

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"

	"github.com/oxhq/cfind/internal/cursor"
	"github.com/oxhq/cfind/internal/ref"
)

// Node wraps a tree-sitter node together with the source bytes, file
// path, and tag registry needed to resolve spellings, locations, and
// opaque type identities.
type Node struct {
	n      *sitter.Node
	source []byte
	file   string
	tags   *tagRegistry
}

// tagRegistry assigns one stable opaque id per (kind, tag) pair seen
// within a translation unit, so that a tagged specifier occurring as a
// fresh definition ("struct foo { ... };") and a later bare reference
// ("struct foo x;") — two distinct tree-sitter nodes — resolve to the
// same transient type id, the way a real frontend's canonical type
// pointer would. Untagged specifiers have no name to key on and fall back
// to plain node-position identity (nodeOpaque), which is correct: each
// untagged aggregate occurrence is its own distinct type in C.
type tagRegistry struct {
	ids  map[string]ref.Opaque
	next ref.Opaque
}

func newTagRegistry() *tagRegistry {
	return &tagRegistry{ids: make(map[string]ref.Opaque)}
}

// taggedOpaqueBit distinguishes tag-registry ids from node-position ids
// so the two numbering spaces never collide.
const taggedOpaqueBit = ref.Opaque(1) << 62

func (r *tagRegistry) opaqueFor(kind, tag string) ref.Opaque {
	key := kind + "|" + tag
	if id, ok := r.ids[key]; ok {
		return id
	}
	r.next++
	id := taggedOpaqueBit | r.next
	r.ids[key] = id
	return id
}

// ParseFile parses path alone with the tree-sitter C grammar, with no
// inclusion resolution: Includes() reports only path itself. Used for the
// single-source CLI path, where cursor.DefaultArgs' "-x c" already implies
// no compilation database is available to resolve headers from.
func ParseFile(path string) (*Stream, error) {
	root, err := parseOne(path, newTagRegistry())
	if err != nil {
		return nil, err
	}
	return &Stream{includes: []string{path}, root: root}, nil
}

// ParseTU parses a primary source file together with every local header it
// transitively #includes, resolved by internal/preproc, and returns a
// single Stream whose root's Children() is the concatenation of each
// file's top-level declarations in file-then-inclusion order. All files
// share one tagRegistry, since a tag defined in an included header and
// referenced back in the primary file names the same transient type
// within this translation unit. Each node retains the file it actually
// came from for location reporting, since tree-sitter has no preprocessor
// to splice their text into one buffer the way a real compiler frontend's
// token stream would.
func ParseTU(files []string) (*Stream, error) {
	tags := newTagRegistry()
	roots := make([]*Node, 0, len(files))
	for _, f := range files {
		root, err := parseOne(f, tags)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return &Stream{includes: files, root: &tuRoot{roots: roots}}, nil
}

func parseOne(path string, tags *tagRegistry) (*Node, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(tsc.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	return &Node{n: tree.RootNode(), source: source, file: path, tags: tags}, nil
}

// tuRoot is the synthetic translation_unit cursor ParseTU returns: it has
// no tree-sitter node of its own, only the per-file roots whose top-level
// declarations it concatenates. Every other Cursor method is unreachable
// (the Translator only ever calls Children() on a KindTranslationUnit
// cursor) and returns a zero value defensively.
type tuRoot struct {
	roots []*Node
}

func (r *tuRoot) Kind() cursor.Kind { return cursor.KindTranslationUnit }
func (r *tuRoot) Children() []cursor.Cursor {
	var out []cursor.Cursor
	for _, root := range r.roots {
		out = append(out, root.Children()...)
	}
	return out
}
func (r *tuRoot) Spelling() string                         { return "" }
func (r *tuRoot) IsAnonymousRecord() bool                  { return false }
func (r *tuRoot) PrettyPrints() string                     { return "" }
func (r *tuRoot) ExpansionLocation() (string, int, int)    { return "", 0, 0 }
func (r *tuRoot) OpaqueType() ref.Opaque                   { return 0 }
func (r *tuRoot) IsAggregateType() bool                    { return false }
func (r *tuRoot) CanonicalUnderlyingType() ref.Opaque      { return 0 }
func (r *tuRoot) IsIncomplete() bool                       { return false }

// Stream implements cursor.Stream over one parsed translation unit.
type Stream struct {
	includes []string
	root     cursor.Cursor
}

func (s *Stream) Includes() []string  { return s.includes }
func (s *Stream) Root() cursor.Cursor { return s.root }

func (n *Node) wrap(child *sitter.Node) *Node {
	return &Node{n: child, source: n.source, file: n.file, tags: n.tags}
}

// specifierOpaque resolves t's opaque id: the tag registry's id if t
// carries a tag, else a position-derived id.
func (n *Node) specifierOpaque(t *sitter.Node) ref.Opaque {
	if name := t.ChildByFieldName("name"); name != nil {
		return n.tags.opaqueFor(t.Type(), name.Content(n.source))
	}
	return nodeOpaque(t)
}

// Kind maps a tree-sitter node type to the abstract cursor.Kind. Node
// shapes outside the seven decl kinds the Translator dispatches on (function
// definitions, statements, expressions — all out of scope per the
// function-body non-goal) report KindOther and are skipped.
func (n *Node) Kind() cursor.Kind {
	switch n.n.Type() {
	case "translation_unit":
		return cursor.KindTranslationUnit
	case "struct_specifier":
		return cursor.KindStructDecl
	case "union_specifier":
		return cursor.KindUnionDecl
	case "enum_specifier":
		return cursor.KindEnumDecl
	case "type_definition":
		return cursor.KindTypedefDecl
	case "field_declaration":
		return cursor.KindFieldDecl
	case "enumerator":
		return cursor.KindEnumConstantDecl
	case "declaration":
		if n.declaratorKind() == declFunction {
			return cursor.KindOther
		}
		return cursor.KindVarDecl
	default:
		return cursor.KindOther
	}
}

type declShape int

const (
	declPlain declShape = iota
	declFunction
	declPointer
	declArray
)

// declaratorKind inspects a declaration/field_declaration/type_definition's
// declarator child to tell a function prototype (out of scope) apart from
// a plain, pointer, or array variable/field declarator.
func (n *Node) declaratorKind() declShape {
	d := n.n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			return declFunction
		case "pointer_declarator":
			return declPointer
		case "array_declarator":
			inner := d.ChildByFieldName("declarator")
			if inner == nil {
				return declArray
			}
			d = inner
			continue
		default:
			return declPlain
		}
	}
	return declPlain
}

// innermostDeclarator walks through pointer/array declarator wrappers down
// to the identifier node naming the declarator.
func innermostDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "pointer_declarator", "array_declarator", "init_declarator":
			inner := d.ChildByFieldName("declarator")
			if inner == nil {
				return d
			}
			d = inner
		default:
			return d
		}
	}
	return nil
}

// Spelling returns the tag name for an aggregate specifier, the new name
// for a typedef, or the declarator identifier for a field/variable
// declaration. It returns "" for an aggregate with no tag.
func (n *Node) Spelling() string {
	switch n.n.Type() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		if name := n.n.ChildByFieldName("name"); name != nil {
			return name.Content(n.source)
		}
		return ""
	case "type_definition":
		d := innermostDeclarator(n.n.ChildByFieldName("declarator"))
		if d == nil {
			return ""
		}
		return d.Content(n.source)
	case "field_declaration", "declaration":
		d := innermostDeclarator(n.n.ChildByFieldName("declarator"))
		if d == nil {
			return ""
		}
		return d.Content(n.source)
	case "enumerator":
		if name := n.n.ChildByFieldName("name"); name != nil {
			return name.Content(n.source)
		}
		return ""
	default:
		return ""
	}
}

// IsAnonymousRecord reports whether this aggregate specifier has no tag
// and is the type of a field declaration, whether or not that field has a
// declarator of its own ("struct { int x; };" and "struct { int x; } u;"
// alike). Its fields merge into the enclosing aggregate.
func (n *Node) IsAnonymousRecord() bool {
	if n.n.Type() != "struct_specifier" && n.n.Type() != "union_specifier" && n.n.Type() != "enum_specifier" {
		return false
	}
	if n.n.ChildByFieldName("name") != nil {
		return false
	}
	parent := n.n.Parent()
	return parent != nil && parent.Type() == "field_declaration"
}

// PrettyPrints renders enough of the node's own text to let the
// Translator detect the "struct {"/"union {"/"enum {" unnamed pattern: the
// specifier keyword followed by its body's opening brace, with the tag
// omitted.
func (n *Node) PrettyPrints() string {
	switch n.n.Type() {
	case "struct_specifier":
		return "struct {"
	case "union_specifier":
		return "union {"
	case "enum_specifier":
		return "enum {"
	default:
		return n.n.Content(n.source)
	}
}

// ExpansionLocation reports this node's start position. tree-sitter points
// are 0-based; the store records 1-based line/column.
func (n *Node) ExpansionLocation() (string, int, int) {
	p := n.n.StartPoint()
	return n.file, int(p.Row) + 1, int(p.Column) + 1
}

// OpaqueType resolves this node's own transient type id. For a
// struct/union/enum specifier, that is the tag registry's id (or a
// position-derived one if untagged). For a FieldDecl, it is the tagged
// specifier its type names — untagged nested specifiers return 0, since
// the nested-anonymous-merge and unnamed-no-declarator forms never
// receive a durable Type to reference (see fieldTypeOpaque). For a
// TypedefDecl/VarDecl, OpaqueType has no meaning of its own; use
// CanonicalUnderlyingType instead.
func (n *Node) OpaqueType() ref.Opaque {
	switch n.n.Type() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		return n.specifierOpaque(n.n)
	case "field_declaration":
		return n.fieldTypeOpaque()
	default:
		return 0
	}
}

// fieldTypeOpaque resolves a field's type to a tagged specifier's opaque
// id. An untagged nested specifier — whether the C11 anonymous-merge form
// or a bare unnamed-no-declarator one — has no durable Type of its own,
// so it yields 0: the field itself still gets a Member row (with a NULL
// base), but no TypeUse and no base reference, since there is nothing
// durable to point at.
func (n *Node) fieldTypeOpaque() ref.Opaque {
	t := n.n.ChildByFieldName("type")
	if t == nil {
		return 0
	}
	switch t.Type() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		if t.ChildByFieldName("name") == nil {
			return 0
		}
		return n.specifierOpaque(t)
	default:
		return 0
	}
}

// IsAggregateType reports whether this field's declared type is a tagged
// struct/union/enum, as opposed to a primitive, an untagged nested
// specifier, a typedef name, or a pointer/array of one. For
// TypedefDecl/VarDecl cursors, which dispatchGlobal also calls this on, it
// reports whether CanonicalUnderlyingType names any struct/union/enum at
// all (tagged or the just-defined untagged form), since both are valid
// typedef/variable targets.
func (n *Node) IsAggregateType() bool {
	switch n.n.Type() {
	case "field_declaration":
		return n.fieldTypeOpaque() != 0
	case "declaration", "type_definition":
		return n.CanonicalUnderlyingType() != 0
	default:
		return false
	}
}

// CanonicalUnderlyingType resolves a typedef's or variable's declared
// type to an aggregate specifier's opaque id, for the post-aggregate
// naming lookahead and for typedef/variable-of-an-already-known-type
// indexing. Unlike fieldTypeOpaque, an untagged specifier is a valid
// result here: it is exactly the aggregate this declarator is about to
// name.
func (n *Node) CanonicalUnderlyingType() ref.Opaque {
	t := n.n.ChildByFieldName("type")
	if t == nil {
		return 0
	}
	switch t.Type() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		return n.specifierOpaque(t)
	default:
		return 0
	}
}

// IsIncomplete reports whether an aggregate specifier is a forward
// declaration (a tag with no body).
func (n *Node) IsIncomplete() bool {
	switch n.n.Type() {
	case "struct_specifier", "union_specifier":
		return n.n.ChildByFieldName("body") == nil
	case "enum_specifier":
		return n.n.ChildByFieldName("body") == nil
	default:
		return false
	}
}

// Children returns the direct children the Translator's visitors care
// about: for an aggregate specifier, its body's field/enumerator
// declarations (and any nested specifiers they introduce); for the
// translation unit, its top-level declarations.
func (n *Node) Children() []cursor.Cursor {
	switch n.n.Type() {
	case "struct_specifier", "union_specifier":
		return n.bodyChildren("field_declaration_list")
	case "enum_specifier":
		return n.bodyChildren("enumerator_list")
	case "translation_unit":
		return n.expandContainer(n.n, "declaration", "type_definition")
	default:
		return nil
	}
}

// bodyChildren flattens an aggregate's body the same way expandContainer
// flattens the translation unit: a member whose type is itself an inline
// struct/union/enum definition ("struct foo { ... } x;" or the tagless
// "struct { ... } x;") yields two children, in order — the nested
// specifier (so the Translator stages or merges it), then the
// field_declaration (so the Translator records the member and, for a
// tagged nested type, its TypeUse). A declaration with no declarator at
// all ("struct { ... };" with no trailing name) yields only the
// specifier, since there is no member name to record.
func (n *Node) bodyChildren(listType string) []cursor.Cursor {
	body := n.n.ChildByFieldName("body")
	if body == nil || body.Type() != listType {
		return nil
	}
	return n.expandContainer(body, "field_declaration")
}

// expandContainer walks container's named children, expanding any child
// whose type is in wrapperTypes and whose "type" field is an inline
// struct/union/enum specifier into (specifier, wrapper) pairs, so that an
// inline-defined aggregate always surfaces as its own StructDecl/
// UnionDecl/EnumDecl cursor ahead of the declaration or field that names
// it — matching the shape a cursor-based frontend (e.g. libclang) reports
// for a combined type-and-declarator statement, which tree-sitter's
// concrete syntax tree instead nests.
func (n *Node) expandContainer(container *sitter.Node, wrapperTypes ...string) []cursor.Cursor {
	count := int(container.NamedChildCount())
	out := make([]cursor.Cursor, 0, count)
	for i := 0; i < count; i++ {
		child := container.NamedChild(i)
		if !isWrapperType(child.Type(), wrapperTypes) {
			out = append(out, n.wrap(child))
			continue
		}
		if t := child.ChildByFieldName("type"); t != nil {
			switch t.Type() {
			case "struct_specifier", "union_specifier", "enum_specifier":
				if t.ChildByFieldName("body") != nil {
					out = append(out, n.wrap(t))
				}
			}
		}
		if child.ChildByFieldName("declarator") != nil {
			out = append(out, n.wrap(child))
		}
	}
	return out
}

func isWrapperType(t string, candidates []string) bool {
	for _, c := range candidates {
		if t == c {
			return true
		}
	}
	return false
}

// nodeOpaque derives a transient id from a tree-sitter node's start byte
// and type, stable across repeated visits within one parse.
func nodeOpaque(n *sitter.Node) ref.Opaque {
	return ref.Opaque(n.StartByte())<<8 ^ ref.Opaque(len(n.Type()))
}
