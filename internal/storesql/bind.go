package storesql

import (
	"database/sql"

	"github.com/oxhq/cfind/internal/cerr"
)

// Value is the typed in-memory value vector the bind/scan boundary bridges
// to database/sql's any-typed driver API.
type Value struct {
	kind colKind
	i    int64
	s    string
	b    bool
}

func vInt(i int64) Value  { return Value{kind: colInt, i: i} }
func vText(s string) Value { return Value{kind: colText, s: s} }
func vBool(b bool) Value  { return Value{kind: colBool, b: b} }

func (v Value) Int() int64   { return v.i }
func (v Value) Text() string { return v.s }
func (v Value) Bool() bool   { return v.b }

// bindArgs range-checks a typed value vector against a statement's declared
// bind shape and returns the driver-ready `any` slice.
func bindArgs(d *stmtDesc, values []Value) ([]any, error) {
	assertRegistered(d)
	if len(values) != len(d.binds) {
		return nil, cerr.Wrap(cerr.Corruption, "storesql.bindArgs",
			errShapeMismatch(d.name, len(d.binds), len(values)))
	}
	args := make([]any, len(values))
	for i, v := range values {
		if v.kind != d.binds[i] {
			return nil, cerr.Wrap(cerr.Corruption, "storesql.bindArgs", errKindMismatch(d.name, i))
		}
		switch v.kind {
		case colInt:
			args[i] = v.i
		case colText:
			args[i] = v.s
		case colBool:
			if v.b {
				args[i] = int64(1)
			} else {
				args[i] = int64(0)
			}
		}
	}
	return args, nil
}

// scanRow reads one *sql.Rows position into a typed value vector per the
// statement's declared result shape, reporting Corruption when a column does
// not hold its declared kind (an integer column that is not an integer, a
// text column that is neither a string nor bytes). Integer values are not
// range-checked: a negative value is passed through as read.
func scanRow(d *stmtDesc, rows *sql.Rows) ([]Value, error) {
	assertRegistered(d)
	raw := make([]any, len(d.results))
	ptrs := make([]any, len(d.results))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, cerr.Wrap(cerr.BackendError, "storesql.scanRow", err)
	}
	out := make([]Value, len(d.results))
	for i, kind := range d.results {
		switch kind {
		case colInt:
			n, err := toInt64(raw[i])
			if err != nil {
				return nil, cerr.Wrap(cerr.Corruption, "storesql.scanRow", err)
			}
			out[i] = vInt(n)
		case colText:
			s, ok := raw[i].(string)
			if !ok {
				if b, ok2 := raw[i].([]byte); ok2 {
					s = string(b)
				} else {
					return nil, cerr.New(cerr.Corruption, "storesql.scanRow: expected text column")
				}
			}
			out[i] = vText(s)
		case colBool:
			n, err := toInt64(raw[i])
			if err != nil {
				return nil, cerr.Wrap(cerr.Corruption, "storesql.scanRow", err)
			}
			out[i] = vBool(n != 0)
		}
	}
	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, errNotAnInteger
	}
}
