package storesql

import "fmt"

var errNotAnInteger = fmt.Errorf("storesql: scanned column is not an integer")

func errShapeMismatch(stmt string, want, got int) error {
	return fmt.Errorf("storesql: statement %q expects %d bind values, got %d", stmt, want, got)
}

func errKindMismatch(stmt string, idx int) error {
	return fmt.Errorf("storesql: statement %q bind %d has the wrong kind", stmt, idx)
}
