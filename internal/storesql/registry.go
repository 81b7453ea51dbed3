package storesql

// colKind enumerates the value shapes the bind/scan boundary understands.
// Declaring it up front keeps every statement's parameter and result shape
// typed and checkable, instead of passed around as bare `any`.
type colKind uint8

const (
	colText colKind = iota
	colInt
	colBool
)

// stmtDesc is one entry in the static prepared-statement registry: the SQL
// text plus the typed shape of its bind parameters and (for selects) its
// result columns. Every SQL string the backend executes is declared here,
// once, rather than built ad hoc at call sites.
type stmtDesc struct {
	name    string
	sql     string
	binds   []colKind
	results []colKind
}

// registry is the backing array every *stmtDesc the package hands out must
// point into; assertRegistered checks that invariant at the few call sites
// where it matters (defensive hardening against ad-hoc SQL construction
// creeping in alongside the registry).
var registry = []stmtDesc{
	{
		name:  "insertFile",
		sql:   `INSERT INTO file (path) VALUES (?)`,
		binds: []colKind{colText},
	},
	{
		name:    "selectFileByPath",
		sql:     `SELECT id FROM file WHERE path = ?`,
		binds:   []colKind{colText},
		results: []colKind{colInt},
	},
	{
		name:    "selectFileByID",
		sql:     `SELECT path FROM file WHERE id = ?`,
		binds:   []colKind{colInt},
		results: []colKind{colText},
	},
	{
		name:  "insertType",
		sql:   `INSERT INTO type (kind, complete, file, func, scope, line, column) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		binds: []colKind{colInt, colBool, colInt, colInt, colInt, colInt, colInt},
	},
	{
		name:    "selectTypeByID",
		sql:     `SELECT kind, complete, file, func, scope, line, column FROM type WHERE id = ?`,
		binds:   []colKind{colInt},
		results: []colKind{colInt, colBool, colInt, colInt, colInt, colInt, colInt},
	},
	{
		name:  "insertTypename",
		sql:   `INSERT INTO typename (name, kind, base_type, file, func, scope, line, column) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		binds: []colKind{colText, colInt, colInt, colInt, colInt, colInt, colInt, colInt},
	},
	{
		// scope is hard-coded to 0 here: an open question from the source
		// notes that nested-scope typename lookup behavior is undefined, so
		// only global-scope matches are probed.
		name:    "selectTypenameLookup",
		sql:     `SELECT base_type FROM typename WHERE file = ? AND scope = 0 AND name = ? AND kind = ? LIMIT 1`,
		binds:   []colKind{colInt, colText, colInt},
		results: []colKind{colInt},
	},
	{
		name:    "selectTypenameFind",
		sql:     `SELECT name, kind, base_type, file, func, scope, line, column FROM typename WHERE name LIKE ?`,
		binds:   []colKind{colText},
		results: []colKind{colText, colInt, colInt, colInt, colInt, colInt, colInt, colInt},
	},
	{
		name:  "insertMember",
		sql:   `INSERT INTO member (parent, base_type, name, file, line, column) VALUES (?, ?, ?, ?, ?, ?)`,
		binds: []colKind{colInt, colInt, colText, colInt, colInt, colInt},
	},
	{
		name:    "selectMemberLookup",
		sql:     `SELECT parent, base_type, name, file, line, column FROM member WHERE parent = ? AND name LIKE ? LIMIT 1`,
		binds:   []colKind{colInt, colText},
		results: []colKind{colInt, colInt, colText, colInt, colInt, colInt},
	},
	{
		name:  "insertTypeUse",
		sql:   `INSERT INTO type_use (base_type, kind, file, line, column) VALUES (?, ?, ?, ?, ?)`,
		binds: []colKind{colInt, colInt, colInt, colInt, colInt},
	},
}

var registryIndex map[string]*stmtDesc

func init() {
	registryIndex = make(map[string]*stmtDesc, len(registry))
	for i := range registry {
		registryIndex[registry[i].name] = &registry[i]
	}
}

// desc looks up a statement descriptor by name. It panics on an unknown
// name: that is a programming error in this package, not a runtime
// condition callers can recover from.
func desc(name string) *stmtDesc {
	d, ok := registryIndex[name]
	if !ok {
		panic("storesql: unregistered statement " + name)
	}
	return d
}

// assertRegistered is a runtime hardening check that a descriptor pointer
// genuinely came from the registry's backing array, guarding against SQL
// strings built outside the static table.
func assertRegistered(d *stmtDesc) {
	base := &registry[0]
	end := &registry[len(registry)-1]
	if uintptr(ptrOf(d)) < uintptr(ptrOf(base)) || uintptr(ptrOf(d)) > uintptr(ptrOf(end)) {
		panic("storesql: statement descriptor is not from the static registry")
	}
}
