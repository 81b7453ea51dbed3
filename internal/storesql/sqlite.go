// Package storesql is the Relational Backend: schema, the prepared-statement
// registry, the typed bind/scan boundary, transaction lifecycle, and path
// canonicalization, built directly on github.com/mattn/go-sqlite3 via
// database/sql rather than an ORM (see DESIGN.md for why).
package storesql

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oxhq/cfind/internal/cerr"
	"github.com/oxhq/cfind/internal/model"
	"github.com/oxhq/cfind/internal/pathcanon"
	"github.com/oxhq/cfind/internal/ref"
	"github.com/oxhq/cfind/internal/store"
	"github.com/oxhq/cfind/internal/strx"
)

// SQLite is the durable Store backend. Read-write instances hold an open
// transaction spanning the whole indexing run, committed on Close.
type SQLite struct {
	db       *sql.DB
	tx       *sql.Tx // nil when readOnly
	readOnly bool
}

// Open opens (creating if necessary) a SQLite database at path in
// read-write mode: WAL journaling enabled, tables created IF NOT EXISTS,
// and a write transaction begun immediately to span the whole run.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "storesql.Open", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, cerr.Wrap(cerr.BackendError, "storesql.Open: wal", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cerr.Wrap(cerr.BackendError, "storesql.Open: schema", err)
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, cerr.Wrap(cerr.BackendError, "storesql.Open: begin", err)
	}
	return &SQLite{db: db, tx: tx}, nil
}

// OpenReadOnly opens an existing database for read-only access. No write
// transaction is started; all mutating Store calls fail with PermissionDenied.
func OpenReadOnly(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path)+"&mode=ro")
	if err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "storesql.OpenReadOnly", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, cerr.Wrap(cerr.BackendError, "storesql.OpenReadOnly: ping", err)
	}
	return &SQLite{db: db, readOnly: true}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON&_journal_mode=WAL", path)
}

// Close commits the pending write transaction (read-write mode) and closes
// the underlying database handle.
func (s *SQLite) Close() error {
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			s.db.Close()
			return cerr.Wrap(cerr.BackendError, "storesql.Close: commit", err)
		}
		s.tx = nil
	}
	if err := s.db.Close(); err != nil {
		return cerr.Wrap(cerr.BackendError, "storesql.Close", err)
	}
	return nil
}

func (s *SQLite) ReadOnly() bool { return s.readOnly }

// exec runs the registry statement named stmt, range-checked via bindArgs,
// against the active transaction (read-write) or the bare handle (read-only,
// for the rare select issued outside a transaction).
func (s *SQLite) exec(stmtName string, values ...Value) (sql.Result, error) {
	d := desc(stmtName)
	args, err := bindArgs(d, values)
	if err != nil {
		return nil, err
	}
	if s.tx != nil {
		return s.tx.Exec(d.sql, args...)
	}
	return s.db.Exec(d.sql, args...)
}

func (s *SQLite) query(stmtName string, values ...Value) (*sql.Rows, error) {
	d := desc(stmtName)
	args, err := bindArgs(d, values)
	if err != nil {
		return nil, err
	}
	if s.tx != nil {
		return s.tx.Query(d.sql, args...)
	}
	return s.db.Query(d.sql, args...)
}

func (s *SQLite) queryOne(stmtName string, values ...Value) ([]Value, error) {
	rows, err := s.query(stmtName, values...)
	if err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "storesql.queryOne", err)
	}
	defer rows.Close()
	d := desc(stmtName)
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, cerr.Wrap(cerr.BackendError, "storesql.queryOne", err)
		}
		return nil, cerr.New(cerr.NotFound, "storesql.queryOne")
	}
	return scanRow(d, rows)
}

func (s *SQLite) requireWritable(op string) error {
	if s.readOnly {
		return cerr.New(cerr.PermissionDenied, op)
	}
	return nil
}

func (s *SQLite) AddFile(path string) (ref.Durable, error) {
	cp, err := pathcanon.Resolve(path)
	if err != nil {
		return 0, cerr.Wrap(cerr.InvalidInput, "storesql.AddFile", err)
	}
	if vals, err := s.queryOne("selectFileByPath", vText(cp)); err == nil {
		return ref.Durable(vals[0].Int()), nil
	} else if !cerr.Is(err, cerr.NotFound) {
		return 0, err
	}
	if err := s.requireWritable("storesql.AddFile"); err != nil {
		return 0, err
	}
	res, err := s.exec("insertFile", vText(cp))
	if err != nil {
		return 0, cerr.Wrap(cerr.BackendError, "storesql.AddFile: insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, cerr.Wrap(cerr.BackendError, "storesql.AddFile: id", err)
	}
	return ref.Durable(id), nil
}

func (s *SQLite) FileLookup(id ref.Durable) (string, error) {
	vals, err := s.queryOne("selectFileByID", vInt(int64(id)))
	if err != nil {
		return "", err
	}
	return vals[0].Text(), nil
}

func (s *SQLite) TypeInsert(loc ref.SourceLocation, kind ref.TypeKind, complete bool) (ref.Durable, error) {
	if err := s.requireWritable("storesql.TypeInsert"); err != nil {
		return 0, err
	}
	fileID, funcID := refInts(loc)
	res, err := s.exec("insertType",
		vInt(int64(kind)), vBool(complete), vInt(fileID), vInt(funcID),
		vInt(int64(loc.Scope)), vInt(int64(loc.Line)), vInt(int64(loc.Column)))
	if err != nil {
		return 0, cerr.Wrap(cerr.BackendError, "storesql.TypeInsert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, cerr.Wrap(cerr.BackendError, "storesql.TypeInsert: id", err)
	}
	return ref.Durable(id), nil
}

func (s *SQLite) TypeLookup(id ref.Durable) (model.Type, error) {
	vals, err := s.queryOne("selectTypeByID", vInt(int64(id)))
	if err != nil {
		return model.Type{}, err
	}
	return model.Type{
		ID:       id,
		Kind:     ref.TypeKind(vals[0].Int()),
		Complete: vals[1].Bool(),
		Loc: ref.SourceLocation{
			File:   refFromDurableInt(vals[2].Int()),
			Func:   refFromDurableInt(vals[3].Int()),
			Scope:  int(vals[4].Int()),
			Line:   int(vals[5].Int()),
			Column: int(vals[6].Int()),
		},
	}, nil
}

func (s *SQLite) TypenameLookup(loc ref.SourceLocation, name string, kind ref.NameKind) (ref.Durable, error) {
	fileID, _ := refInts(loc)
	vals, err := s.queryOne("selectTypenameLookup", vInt(fileID), vText(name), vInt(int64(kind)))
	if err != nil {
		return 0, err
	}
	return ref.Durable(vals[0].Int()), nil
}

func (s *SQLite) TypenameInsert(loc ref.SourceLocation, name string, kind ref.NameKind, base ref.Durable) error {
	if err := s.requireWritable("storesql.TypenameInsert"); err != nil {
		return err
	}
	fileID, funcID := refInts(loc)
	_, err := s.exec("insertTypename",
		vText(name), vInt(int64(kind)), vInt(int64(base)), vInt(fileID), vInt(funcID),
		vInt(int64(loc.Scope)), vInt(int64(loc.Line)), vInt(int64(loc.Column)))
	if err != nil {
		return cerr.Wrap(cerr.BackendError, "storesql.TypenameInsert", err)
	}
	return nil
}

func (s *SQLite) MemberInsert(loc ref.SourceLocation, parent ref.Durable, base ref.Ref, name string) error {
	if err := s.requireWritable("storesql.MemberInsert"); err != nil {
		return err
	}
	baseID := int64(0)
	if d, ok := base.Durable(); ok {
		baseID = int64(d)
	}
	fileID, _ := refInts(loc)
	_, err := s.exec("insertMember",
		vInt(int64(parent)), vInt(baseID), vText(name), vInt(fileID), vInt(int64(loc.Line)), vInt(int64(loc.Column)))
	if err != nil {
		return cerr.Wrap(cerr.BackendError, "storesql.MemberInsert", err)
	}
	return nil
}

func (s *SQLite) MemberLookup(parent ref.Durable, name string) (model.Member, error) {
	vals, err := s.queryOne("selectMemberLookup", vInt(int64(parent)), vText(name))
	if err != nil {
		return model.Member{}, err
	}
	return model.Member{
		Parent:   ref.FromDurable(ref.Durable(vals[0].Int())),
		BaseType: refFromDurableInt(vals[1].Int()),
		Name:     strx.Dup(vals[2].Text()),
		Loc: ref.SourceLocation{
			File:   refFromDurableInt(vals[3].Int()),
			Line:   int(vals[4].Int()),
			Column: int(vals[5].Int()),
		},
	}, nil
}

func (s *SQLite) TypeUseInsert(loc ref.SourceLocation, base ref.Durable, kind ref.UseKind) error {
	if err := s.requireWritable("storesql.TypeUseInsert"); err != nil {
		return err
	}
	fileID, _ := refInts(loc)
	_, err := s.exec("insertTypeUse", vInt(int64(base)), vInt(int64(kind)), vInt(fileID), vInt(int64(loc.Line)), vInt(int64(loc.Column)))
	if err != nil {
		return cerr.Wrap(cerr.BackendError, "storesql.TypeUseInsert", err)
	}
	return nil
}

func (s *SQLite) TypenameFind(namePattern string) (store.Cursor, error) {
	d := desc("selectTypenameFind")
	args, err := bindArgs(d, []Value{vText(namePattern)})
	if err != nil {
		return nil, err
	}
	var rows *sql.Rows
	if s.tx != nil {
		rows, err = s.tx.Query(d.sql, args...)
	} else {
		rows, err = s.db.Query(d.sql, args...)
	}
	if err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "storesql.TypenameFind", err)
	}
	return &sqlCursor{rows: rows, desc: d}, nil
}

// refInts extracts the (file, func) durable id pair from a SourceLocation,
// defaulting to 0 for a None Ref (func at global scope).
func refInts(loc ref.SourceLocation) (fileID, funcID int64) {
	if d, ok := loc.File.Durable(); ok {
		fileID = int64(d)
	}
	if d, ok := loc.Func.Durable(); ok {
		funcID = int64(d)
	}
	return
}

func refFromDurableInt(n int64) ref.Ref {
	if n == 0 {
		return ref.None()
	}
	return ref.FromDurable(ref.Durable(n))
}

// sqlCursor is the lazy, forward-only, single-pass TypenameFind cursor. Its
// Peek result borrows the string returned by *sql.Rows.Scan for the current
// position and is invalidated by the next Next/Free.
type sqlCursor struct {
	rows *sql.Rows
	desc *stmtDesc
	cur  store.TypenameRow
	err  error
	done bool
}

func (c *sqlCursor) Next() bool {
	if c.done {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		c.done = true
		return false
	}
	vals, err := scanRow(c.desc, c.rows)
	if err != nil {
		c.err = err
		c.done = true
		return false
	}
	c.cur = store.TypenameRow{
		Name:     vals[0].Text(),
		Kind:     ref.NameKind(vals[1].Int()),
		BaseType: ref.Durable(vals[2].Int()),
		Loc: ref.SourceLocation{
			File:   refFromDurableInt(vals[3].Int()),
			Func:   refFromDurableInt(vals[4].Int()),
			Scope:  int(vals[5].Int()),
			Line:   int(vals[6].Int()),
			Column: int(vals[7].Int()),
		},
	}
	return true
}

func (c *sqlCursor) Peek() store.TypenameRow { return c.cur }
func (c *sqlCursor) Err() error              { return c.err }
func (c *sqlCursor) Free() error {
	c.done = true
	return c.rows.Close()
}

// CheckpointIfLarge runs a WAL checkpoint if the companion -wal file has
// grown past thresholdMB. cfind is single-shot rather than long-lived, so
// the CLI calls this once after a run rather than on a timer.
func CheckpointIfLarge(s *SQLite, dbPath string, thresholdMB int64) error {
	info, err := os.Stat(dbPath + "-wal")
	if err != nil {
		return nil // no WAL file yet, nothing to do
	}
	if info.Size() < thresholdMB*1024*1024 {
		return nil
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(PASSIVE);"); err != nil {
		return cerr.Wrap(cerr.BackendError, "storesql.CheckpointIfLarge", err)
	}
	return nil
}

var _ store.Store = (*SQLite)(nil)
