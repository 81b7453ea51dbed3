// Package assert guards intra-module invariants that represent bugs, not
// expected runtime conditions — e.g. "the Scoreboard must be empty on
// Enter". These are fatal by design: callers never recover from them.
package assert

// That panics with msg if cond is false.
func That(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}
