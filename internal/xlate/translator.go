// Package xlate implements the AST Translator (AT): the cursor-visit driver
// that maintains the current source location, the opaque-to-durable type
// maps, and dispatches visits to the Staging Scoreboard and Record Store.
// It implements the post-declaration lookahead used to name unnamed
// aggregates from a following typedef or variable declarator.
package xlate

import (
	"log"
	"strings"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/cursor"
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/stage"
	"github.com/oxhq/cfind/internal/store"
	"github.com/oxhq/cfind/internal/strx"
)

// lastAggregate records the top-level aggregate most recently staged, not
// yet committed, awaiting the post-declaration naming lookahead.
type lastAggregate struct {
	opaque ref.Opaque
	idx    int
	named  bool
}

// Translator drives one or more translation units against a Store.
type Translator struct {
	st      store.Store
	sb      *stage.Scoreboard
	tuMap   stage.TUMap
	fileMap map[string]ref.Durable
	curLoc  ref.SourceLocation
	last    *lastAggregate

	// Logf receives diagnostics for recoverable errors (Unimplemented,
	// Corruption, skipped nodes). Defaults to log.Printf; tests may
	// substitute a capturing function.
	Logf func(format string, args ...any)
}

// New constructs a Translator writing into st.
func New(st store.Store) *Translator {
	return &Translator{
		st:      st,
		sb:      stage.New(),
		tuMap:   make(stage.TUMap),
		fileMap: make(map[string]ref.Durable),
		Logf:    log.Printf,
	}
}

// IndexTU indexes one translation unit's cursor-visit stream. The type map
// and file map are cleared first; durable tables are unaffected by the
// reset. Only ResourceExhausted and PermissionDenied abort the run; every
// other recoverable error kind is logged and the offending node is skipped.
func (t *Translator) IndexTU(stream cursor.Stream) error {
	t.tuMap = make(stage.TUMap)
	t.fileMap = make(map[string]ref.Durable)
	t.last = nil

	for _, inc := range stream.Includes() {
		id, err := t.st.AddFile(inc)
		if err != nil {
			if abort(err) {
				return err
			}
			t.Logf("xlate: failed to add file %q: %v", inc, err)
			continue
		}
		t.fileMap[inc] = id
	}

	return t.walkTU(stream.Root())
}

func abort(err error) bool {
	return cerr.Is(err, cerr.ResourceExhausted) || cerr.Is(err, cerr.PermissionDenied)
}

func (t *Translator) walkTU(root cursor.Cursor) error {
	for _, child := range root.Children() {
		if !t.updateLocation(child) {
			continue
		}
		if t.last != nil {
			consumed := t.tryConsumeAsName(child)
			if err := t.sb.Commit(t.st, t.tuMap); err != nil {
				if abort(err) {
					return err
				}
				t.Logf("xlate: commit failed: %v", err)
			}
			t.last = nil
			if consumed {
				continue
			}
		}
		if err := t.dispatchGlobal(child); err != nil {
			if abort(err) {
				return err
			}
			t.Logf("xlate: %v", err)
		}
	}
	if t.last != nil {
		if err := t.sb.Commit(t.st, t.tuMap); err != nil {
			if abort(err) {
				return err
			}
			t.Logf("xlate: final commit failed: %v", err)
		}
		t.last = nil
	}
	return nil
}

// updateLocation reads child's expansion location and updates t.curLoc. It
// reports false (and logs) if the file was not seen during inclusion
// enumeration, in which case the node must be skipped entirely.
func (t *Translator) updateLocation(c cursor.Cursor) bool {
	file, line, col := c.ExpansionLocation()
	fid, ok := t.fileMap[file]
	if !ok {
		t.Logf("xlate: location file %q not in inclusion set, skipping node", file)
		return false
	}
	t.curLoc = ref.SourceLocation{
		File:   ref.FromDurable(fid),
		Func:   ref.None(),
		Scope:  ref.GlobalScope,
		Line:   line,
		Column: col,
	}
	return true
}

// dispatchGlobal applies the indexability filter and routes a global-scope
// cursor to the appropriate record-builder.
func (t *Translator) dispatchGlobal(c cursor.Cursor) error {
	switch c.Kind() {
	case cursor.KindStructDecl, cursor.KindUnionDecl, cursor.KindEnumDecl:
		if c.IsIncomplete() {
			t.Logf("xlate: incomplete aggregate indexing not implemented, skipping")
			return nil
		}
		t.indexAggregate(c)
		return nil
	case cursor.KindTypedefDecl:
		if !c.IsAggregateType() {
			return nil // typedef of a non-aggregate underlying type is rejected
		}
		return t.indexTypedef(c)
	case cursor.KindVarDecl:
		if !c.IsAggregateType() {
			return nil // variable decl of a non-aggregate type is rejected
		}
		return t.indexVarDecl(c)
	default:
		return nil
	}
}

// classify implements the naming classification: anon (valid only nested),
// unnamed (no tag, awaiting a declarator), or direct (tag name = spelling).
func classify(c cursor.Cursor) (name string, kind ref.NameKind, anon bool) {
	if c.IsAnonymousRecord() {
		return "", 0, true
	}
	pretty := c.PrettyPrints()
	if strings.HasPrefix(pretty, "struct {") || strings.HasPrefix(pretty, "union {") || strings.HasPrefix(pretty, "enum {") {
		return "", 0, false
	}
	return c.Spelling(), ref.NameDirect, false
}

// indexAggregate stages a top-level aggregate and its subtree (nested
// aggregates are staged by walkAggregateChildren), then records it as the post-declaration lookahead candidate.
// Nothing is committed here: the SSB holds everything until the lookahead
// resolves and walkTU calls Commit.
func (t *Translator) indexAggregate(c cursor.Cursor) {
	t.sb.Enter()
	opaque := c.OpaqueType()
	loc := t.curLoc
	name, kind, _ := classify(c)
	idx := t.sb.StageType(opaque, c.Kind().TypeKind(), loc, name, kind, loc)
	t.walkAggregateChildren(c, opaque)
	t.last = &lastAggregate{opaque: opaque, idx: idx, named: name != ""}
}

// walkAggregateChildren visits the direct children of an aggregate cursor,
// attributing members to parentOpaque — the nearest named ancestor. A
// nested anonymous record is never staged as a Type; its fields recurse
// with the same parentOpaque, implementing the C11 merge-into-enclosing-
// scope rule. A nested named (or unnamed) aggregate is staged as its own
// Type and becomes the parentOpaque for its own children.
func (t *Translator) walkAggregateChildren(c cursor.Cursor, parentOpaque ref.Opaque) {
	for _, child := range c.Children() {
		if !t.updateLocation(child) {
			continue
		}
		switch child.Kind() {
		case cursor.KindStructDecl, cursor.KindUnionDecl, cursor.KindEnumDecl:
			if child.IsAnonymousRecord() {
				t.walkAggregateChildren(child, parentOpaque)
				continue
			}
			nestedOpaque := child.OpaqueType()
			loc := t.curLoc
			nestedName, nestedKind, _ := classify(child)
			t.sb.StageType(nestedOpaque, child.Kind().TypeKind(), loc, nestedName, nestedKind, loc)
			t.walkAggregateChildren(child, nestedOpaque)
		case cursor.KindFieldDecl:
			t.visitField(child, parentOpaque)
		case cursor.KindEnumConstantDecl:
			t.Logf("xlate: enum constant indexing not implemented, skipping")
		default:
			// continue: not a kind the aggregate-subtree visitor handles.
		}
	}
}

func (t *Translator) visitField(child cursor.Cursor, parentOpaque ref.Opaque) {
	loc := t.curLoc
	name := child.Spelling()
	base := ref.None()
	if child.IsAggregateType() {
		fieldTypeOpaque := child.OpaqueType()
		base = ref.FromOpaque(fieldTypeOpaque)
		if t.sb.IsUnnamed(fieldTypeOpaque) {
			t.sb.ResolveFieldVar(fieldTypeOpaque, name, loc)
		}
		t.sb.StageTypeUse(parentOpaque, model.TypeUse{BaseType: base, Kind: ref.UseDecl, Loc: loc})
	}
	t.sb.StageMember(model.Member{
		Parent:   ref.FromOpaque(parentOpaque),
		BaseType: base,
		Name:     strx.Dup(name),
		Loc:      loc,
	})
}

// tryConsumeAsName implements the post-aggregate lookahead: if the sibling
// immediately following an unnamed top-level aggregate is a typedef or
// variable whose canonical underlying type equals the staged aggregate's
// opaque id, its spelling is adopted as the aggregate's Typename.
func (t *Translator) tryConsumeAsName(sibling cursor.Cursor) bool {
	if t.last.named {
		return false
	}
	switch sibling.Kind() {
	case cursor.KindTypedefDecl:
		if sibling.CanonicalUnderlyingType() == t.last.opaque {
			t.sb.NameLate(t.last.idx, sibling.Spelling(), ref.NameTypedef, t.curLoc)
			return true
		}
	case cursor.KindVarDecl:
		if sibling.CanonicalUnderlyingType() == t.last.opaque {
			t.sb.NameLate(t.last.idx, sibling.Spelling(), ref.NameVar, t.curLoc)
			return true
		}
	}
	return false
}

// indexTypedef handles a typedef not consumed by the post-aggregate
// lookahead: a typedef of an already-known (earlier-defined) aggregate.
func (t *Translator) indexTypedef(c cursor.Cursor) error {
	canon := c.CanonicalUnderlyingType()
	if canon == 0 {
		return nil // typedef of a primitive, incomplete, or not-yet-seen type
	}
	baseID, ok := t.tuMap[canon]
	if !ok {
		return nil
	}
	name := c.Spelling()
	loc := t.curLoc
	existing, err := t.st.TypenameLookup(loc, name, ref.NameTypedef)
	if err == nil {
		if existing != baseID {
			t.Logf("xlate: corruption: typedef %q redefined with a different base type in the same file", name)
		}
		return nil
	}
	if !cerr.Is(err, cerr.NotFound) {
		return err
	}
	return t.st.TypenameInsert(loc, name, ref.NameTypedef, baseID)
}

// indexVarDecl handles a standalone global variable declaration of
// aggregate type that was not consumed by the lookahead (i.e. one that
// merely mentions an already-defined type), recording a TypeUse of kind
// decl.
func (t *Translator) indexVarDecl(c cursor.Cursor) error {
	canon := c.CanonicalUnderlyingType()
	if canon == 0 {
		return nil
	}
	baseID, ok := t.tuMap[canon]
	if !ok {
		return nil
	}
	return t.st.TypeUseInsert(t.curLoc, baseID, ref.UseDecl)
}
