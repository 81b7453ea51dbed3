// Package stage implements the Staging Scoreboard (SSB): the in-memory
// transactional buffer for all records emitted while walking one top-level
// aggregate's subtree. It supports commit-or-discard as a unit and keeps a
// local "new types" identifier map separate from the durable translation
// unit map, so that a re-walked header whose aggregate already exists
// durably short-circuits instead of duplicating it.
package stage

import (
	"github.com/oxhq/cfind/internal/assert"
	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/store"
)

// stagedType is a Type awaiting commit, paired with the Typename it should
// receive once (if) it is actually inserted.
type stagedType struct {
	opaque   ref.Opaque
	kind     ref.TypeKind
	loc      ref.SourceLocation
	named    bool // whether a name has been determined
	name     string
	nameKind ref.NameKind
	nameLoc  ref.SourceLocation
}

// Scoreboard is the SSB. One instance is reused across aggregates within a
// translation unit; Enter asserts it is empty before each new aggregate.
type Scoreboard struct {
	types             []stagedType
	members           []model.Member // Parent/BaseType carry opaque Refs until commit
	uses              []model.TypeUse
	useEnclosingSlice []ref.Opaque // uses[i] belongs to the aggregate useEnclosingSlice[i]
	unnamed           map[ref.Opaque]int // opaque type id -> index into types
}

// New constructs an empty Scoreboard.
func New() *Scoreboard {
	return &Scoreboard{unnamed: make(map[ref.Opaque]int)}
}

// Enter asserts the Scoreboard is empty, the discipline required before
// staging a new top-level aggregate.
func (s *Scoreboard) Enter() {
	assert.That(len(s.types) == 0, "stage: Scoreboard must be empty on Enter (types)")
	assert.That(len(s.members) == 0, "stage: Scoreboard must be empty on Enter (members)")
	assert.That(len(s.uses) == 0, "stage: Scoreboard must be empty on Enter (uses)")
	assert.That(len(s.unnamed) == 0, "stage: Scoreboard must be empty on Enter (unnamed)")
}

// StageType records a new (possibly unnamed) aggregate. If name is "", the
// aggregate is unnamed-no-declarator and enrolled in the unnamed map; a
// caller may later resolve it via NameLate or ResolveFieldVar.
func (s *Scoreboard) StageType(opaque ref.Opaque, kind ref.TypeKind, loc ref.SourceLocation, name string, nameKind ref.NameKind, nameLoc ref.SourceLocation) int {
	idx := len(s.types)
	st := stagedType{opaque: opaque, kind: kind, loc: loc}
	if name != "" {
		st.named = true
		st.name = name
		st.nameKind = nameKind
		st.nameLoc = nameLoc
	}
	s.types = append(s.types, st)
	if !st.named {
		s.unnamed[opaque] = idx
	}
	return idx
}

// StageMember records a Member whose Parent/BaseType Refs may still be
// opaque; they are translated at Commit time.
func (s *Scoreboard) StageMember(m model.Member) {
	s.members = append(s.members, m)
}

// StageTypeUse records a TypeUse whose BaseType Ref may still be opaque,
// carrying the enclosing aggregate's opaque id in Loc-adjacent bookkeeping
// via the caller (see xlate, which threads the "where" aggregate through
// the Member/TypeUse call sequence rather than through the TypeUse value
// itself, since TypeUse has no Parent field in the data model).
func (s *Scoreboard) StageTypeUse(enclosing ref.Opaque, u model.TypeUse) {
	s.uses = append(s.uses, u)
	s.useEnclosingSlice = append(s.useEnclosingSlice, enclosing)
}

// NameLate adopts name/nameKind/nameLoc for the aggregate staged at index
// idx, removing it from the unnamed map. Called when a typedef or variable
// declarator immediately following an unnamed aggregate supplies its name.
func (s *Scoreboard) NameLate(idx int, name string, nameKind ref.NameKind, nameLoc ref.SourceLocation) {
	st := &s.types[idx]
	st.named = true
	st.name = name
	st.nameKind = nameKind
	st.nameLoc = nameLoc
	delete(s.unnamed, st.opaque)
}

// ResolveFieldVar adopts name as a `var` Typename for the unnamed aggregate
// whose opaque id is opaque, if one is staged and still unresolved. Reports
// whether a resolution happened, per the FieldDecl visitor rule "if the
// field's type matches an entry in the unnamed map, adopt the field name".
func (s *Scoreboard) ResolveFieldVar(opaque ref.Opaque, name string, loc ref.SourceLocation) bool {
	idx, ok := s.unnamed[opaque]
	if !ok {
		return false
	}
	s.NameLate(idx, name, ref.NameVar, loc)
	return true
}

// IsUnnamed reports whether opaque still has no name as of this moment
// (used by the FieldDecl visitor to decide whether to probe ResolveFieldVar).
func (s *Scoreboard) IsUnnamed(opaque ref.Opaque) bool {
	_, ok := s.unnamed[opaque]
	return ok
}

// Reset clears the Scoreboard after Commit or Discard.
func (s *Scoreboard) Reset() {
	s.types = s.types[:0]
	s.members = s.members[:0]
	s.uses = s.uses[:0]
	s.useEnclosingSlice = s.useEnclosingSlice[:0]
	for k := range s.unnamed {
		delete(s.unnamed, k)
	}
}

// TUMap is the translation-unit-wide opaque->durable map that Commit reads
// from and merges new entries into.
type TUMap = map[ref.Opaque]ref.Durable

// Commit drains the Scoreboard into st, in strict Types -> Members ->
// TypeUses order, merging newly assigned ids into tuMap on success.
// Unnamed-no-declarator aggregates still in the unnamed map at commit time
// are dropped, along with their members (their Parent translation fails,
// since it is only attempted against the new-types-only sub-map).
func (s *Scoreboard) Commit(st store.Store, tuMap TUMap) error {
	newTypes := make(map[ref.Opaque]ref.Durable, len(s.types))

	for i, t := range s.types {
		if _, stillUnnamed := s.unnamed[t.opaque]; stillUnnamed {
			continue // discarded: no declarator ever named it
		}
		if t.named {
			if existing, err := st.TypenameLookup(t.nameLoc, t.name, t.nameKind); err == nil {
				// Duplicate: reuse the preexisting durable id, map it into
				// the TU-wide map directly, not into the new-types sub-map,
				// so the aggregate's members/uses are suppressed below.
				tuMap[t.opaque] = existing
				continue
			} else if !cerr.Is(err, cerr.NotFound) {
				return err
			}
		}
		id, err := st.TypeInsert(t.loc, t.kind, true)
		if err != nil {
			return err
		}
		newTypes[t.opaque] = id
		if t.named {
			if err := st.TypenameInsert(t.nameLoc, t.name, t.nameKind, id); err != nil {
				return err
			}
		}
		_ = i
	}

	for _, m := range s.members {
		parentOpaque, ok := m.Parent.Opaque()
		if !ok {
			continue
		}
		parentID, ok := newTypes[parentOpaque]
		if !ok {
			continue // parent is a duplicate (or discarded); suppress the member
		}
		var base ref.Ref
		if baseOpaque, ok := m.BaseType.Opaque(); ok {
			if id, ok := lookupEither(newTypes, tuMap, baseOpaque); ok {
				base = ref.FromDurable(id)
			} else {
				continue // base type translation failed; skip, per spec.md
			}
		}
		if err := st.MemberInsert(m.Loc, parentID, base, m.Name.String()); err != nil {
			return err
		}
	}

	for i, u := range s.uses {
		enclosing := s.useEnclosingSlice[i]
		parentID, ok := newTypes[enclosing]
		if !ok {
			continue // enclosing aggregate is a duplicate; suppress its uses
		}
		_ = parentID
		baseOpaque, ok := u.BaseType.Opaque()
		if !ok {
			continue
		}
		baseID, ok := lookupEither(newTypes, tuMap, baseOpaque)
		if !ok {
			continue
		}
		if err := st.TypeUseInsert(u.Loc, baseID, u.Kind); err != nil {
			return err
		}
	}

	for opaque, id := range newTypes {
		tuMap[opaque] = id
	}
	s.Reset()
	return nil
}

// Discard clears the Scoreboard without persisting anything.
func (s *Scoreboard) Discard() {
	s.Reset()
}

func lookupEither(newTypes map[ref.Opaque]ref.Durable, tuMap TUMap, opaque ref.Opaque) (ref.Durable, bool) {
	if id, ok := newTypes[opaque]; ok {
		return id, true
	}
	id, ok := tuMap[opaque]
	return id, ok
}
