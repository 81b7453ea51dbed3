package storesql

import "unsafe"

// ptrOf exposes the address of a stmtDesc for the registry-membership
// assertion in assertRegistered. Isolated in its own file since it is the
// only place this package reaches for unsafe.
func ptrOf(d *stmtDesc) unsafe.Pointer { return unsafe.Pointer(d) }
