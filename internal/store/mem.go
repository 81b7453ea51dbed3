package store

import (
	"regexp"
	"strings"
	"sync"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/pathcanon"
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/strx"
)

// memTypename is the durable row shape kept by the in-memory store.
type memTypename struct {
	name     string
	kind     ref.NameKind
	baseType ref.Durable
	loc      ref.SourceLocation
}

// mem is the in-memory vector store used by unit tests: plain Go slices and
// maps standing in for the relational backend's tables.
type mem struct {
	mu        sync.Mutex
	readOnly  bool
	files     []string          // index 0 unused, durable ids start at 1
	pathIndex map[string]ref.Durable
	types     []model.Type // index 0 unused
	typenames []memTypename
	members   []model.Member
	typeUses  []model.TypeUse
}

// OpenMem constructs the in-memory vector Store.
func OpenMem() Store {
	return &mem{
		files:     []string{""},
		pathIndex: make(map[string]ref.Durable),
		types:     []model.Type{{}},
	}
}

// OpenMemReadOnly constructs an in-memory Store that rejects mutating calls,
// for exercising the PermissionDenied path without a real durable backend.
func OpenMemReadOnly() Store {
	m := OpenMem().(*mem)
	m.readOnly = true
	return m
}

func (m *mem) AddFile(path string) (ref.Durable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, err := pathcanon.Resolve(path)
	if err != nil {
		cp = path
	}
	if id, ok := m.pathIndex[cp]; ok {
		return id, nil
	}
	if m.readOnly {
		return 0, cerr.New(cerr.PermissionDenied, "mem.AddFile")
	}
	id := ref.Durable(len(m.files))
	m.files = append(m.files, cp)
	m.pathIndex[cp] = id
	return id, nil
}

func (m *mem) FileLookup(id ref.Durable) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(id) <= 0 || int(id) >= len(m.files) {
		return "", cerr.New(cerr.NotFound, "mem.FileLookup")
	}
	return m.files[id], nil
}

func (m *mem) TypeInsert(loc ref.SourceLocation, kind ref.TypeKind, complete bool) (ref.Durable, error) {
	if m.readOnly {
		return 0, cerr.New(cerr.PermissionDenied, "mem.TypeInsert")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ref.Durable(len(m.types))
	m.types = append(m.types, model.Type{ID: id, Kind: kind, Complete: complete, Loc: loc})
	return id, nil
}

func (m *mem) TypeLookup(id ref.Durable) (model.Type, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(id) <= 0 || int(id) >= len(m.types) {
		return model.Type{}, cerr.New(cerr.NotFound, "mem.TypeLookup")
	}
	return m.types[id], nil
}

func (m *mem) TypenameLookup(loc ref.SourceLocation, name string, kind ref.NameKind) (ref.Durable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tn := range m.typenames {
		if tn.kind == kind && tn.name == name && tn.loc.File == loc.File && tn.loc.Scope == loc.Scope {
			return tn.baseType, nil
		}
	}
	return 0, cerr.New(cerr.NotFound, "mem.TypenameLookup")
}

func (m *mem) TypenameInsert(loc ref.SourceLocation, name string, kind ref.NameKind, base ref.Durable) error {
	if m.readOnly {
		return cerr.New(cerr.PermissionDenied, "mem.TypenameInsert")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typenames = append(m.typenames, memTypename{name: name, kind: kind, baseType: base, loc: loc})
	return nil
}

func (m *mem) MemberInsert(loc ref.SourceLocation, parent ref.Durable, base ref.Ref, name string) error {
	if m.readOnly {
		return cerr.New(cerr.PermissionDenied, "mem.MemberInsert")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, model.Member{
		Parent:   ref.FromDurable(parent),
		BaseType: base,
		Name:     strx.Dup(name),
		Loc:      loc,
	})
	return nil
}

func (m *mem) MemberLookup(parent ref.Durable, name string) (model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match := likeToMatcher(name)
	for _, mb := range m.members {
		if p, ok := mb.Parent.Durable(); ok && p == parent && match(mb.Name.String()) {
			return mb, nil
		}
	}
	return model.Member{}, cerr.New(cerr.NotFound, "mem.MemberLookup")
}

func (m *mem) TypeUseInsert(loc ref.SourceLocation, base ref.Durable, kind ref.UseKind) error {
	if m.readOnly {
		return cerr.New(cerr.PermissionDenied, "mem.TypeUseInsert")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeUses = append(m.typeUses, model.TypeUse{BaseType: ref.FromDurable(base), Kind: kind, Loc: loc})
	return nil
}

func (m *mem) TypenameFind(namePattern string) (Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pat := likeToMatcher(namePattern)
	rows := make([]TypenameRow, 0)
	for _, tn := range m.typenames {
		if pat(tn.name) {
			rows = append(rows, TypenameRow{Name: tn.name, Kind: tn.kind, BaseType: tn.baseType, Loc: tn.loc})
		}
	}
	return &memCursor{rows: rows}, nil
}

func (m *mem) Close() error   { return nil }
func (m *mem) ReadOnly() bool { return m.readOnly }

// SetReadOnly marks this store read-only for subsequent mutating calls. Used
// by tests that need to exercise the PermissionDenied path without a real
// durable backend.
func (m *mem) SetReadOnly(ro bool) { m.readOnly = ro }

type memCursor struct {
	rows []TypenameRow
	pos  int
	done bool
}

func (c *memCursor) Next() bool {
	if c.pos >= len(c.rows) {
		c.done = true
		return false
	}
	c.pos++
	return true
}

func (c *memCursor) Peek() TypenameRow {
	if c.pos == 0 || c.pos > len(c.rows) {
		return TypenameRow{}
	}
	return c.rows[c.pos-1]
}

func (c *memCursor) Err() error  { return nil }
func (c *memCursor) Free() error { c.done = true; return nil }

// likeToMatcher turns a SQL LIKE-style pattern ('%' matches any run of
// characters, '_' matches exactly one) into a predicate, so Mem and the SQL
// backend agree on TypenameFind semantics.
func likeToMatcher(pattern string) func(string) bool {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re := regexp.MustCompile(b.String())
	return re.MatchString
}
