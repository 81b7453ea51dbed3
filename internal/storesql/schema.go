package storesql

// schema is the six-table DDL from the Relational Backend design. All
// "id" columns are driver-assigned integer primary keys; every other
// integer column is free-form (no foreign-key constraints are declared,
// matching the source design's reliance on the Staging Scoreboard for
// referential integrity rather than the database engine).
const schema = `
CREATE TABLE IF NOT EXISTS file (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS type (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	kind     INTEGER NOT NULL,
	complete INTEGER NOT NULL,
	file     INTEGER NOT NULL,
	func     INTEGER NOT NULL,
	scope    INTEGER NOT NULL,
	line     INTEGER NOT NULL,
	column   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS typename (
	name      TEXT NOT NULL,
	kind      INTEGER NOT NULL,
	base_type INTEGER NOT NULL,
	file      INTEGER NOT NULL,
	func      INTEGER NOT NULL,
	scope     INTEGER NOT NULL,
	line      INTEGER NOT NULL,
	column    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_typename_name_kind ON typename (name, kind);

CREATE TABLE IF NOT EXISTS incomplete_type (
	name      TEXT NOT NULL,
	kind      INTEGER NOT NULL,
	base_type INTEGER NOT NULL,
	file      INTEGER NOT NULL,
	line      INTEGER NOT NULL,
	column    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS type_use (
	base_type INTEGER NOT NULL,
	kind      INTEGER NOT NULL,
	file      INTEGER NOT NULL,
	line      INTEGER NOT NULL,
	column    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS member (
	parent    INTEGER NOT NULL,
	base_type INTEGER NOT NULL,
	name      TEXT NOT NULL,
	file      INTEGER NOT NULL,
	line      INTEGER NOT NULL,
	column    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_member_parent_name ON member (parent, name);
`
