package assert

import "testing"

func TestThatPassesOnTrue(t *testing.T) {
	That(true, "must not panic")
}

func TestThatPanicsOnFalse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on false condition")
		}
	}()
	That(false, "invariant violated")
}
