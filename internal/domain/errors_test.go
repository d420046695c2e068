package domain

import (
	"errors"
	"testing"
)

func TestAssertPanicsWithInvariantViolationOnFalseCondition(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Assert(false, ...) did not panic")
		}
		if _, ok := r.(*InvariantViolation); !ok {
			t.Errorf("panic value = %#v, want *InvariantViolation", r)
		}
	}()
	Assert(false, "test.Op", "expected %d, got %d", 1, 2)
}

func TestAssertDoesNotPanicOnTrueCondition(t *testing.T) {
	Assert(true, "test.Op", "unreachable")
}

func TestConfigurationErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &ConfigurationError{Op: "test", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() did not see through ConfigurationError.Unwrap()")
	}
}
