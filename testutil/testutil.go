// Package testutil provides small assertion helpers shared across this
// module's tests, in the same call shape as the teacher's own
// testutil package (ItsEqual(t, want, got), ItsNil(t, err), ...).
package testutil

import (
	"errors"
	"reflect"
	"testing"
)

// ItsEqual fails the test if want and got are not deeply equal.
func ItsEqual(t *testing.T, want, got any, messages ...any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v, got %v %v", want, got, messages)
	}
}

// ItsNil fails the test if got is a non-nil error (or otherwise
// non-nil).
func ItsNil(t *testing.T, got any, messages ...any) {
	t.Helper()
	if got == nil {
		return
	}
	if err, ok := got.(error); ok && err == nil {
		return
	}
	v := reflect.ValueOf(got)
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("expected nil, got %v %v", got, messages)
}

// ItsNotNil fails the test if got is nil.
func ItsNotNil(t *testing.T, got any, messages ...any) {
	t.Helper()
	if got == nil {
		t.Fatalf("expected non-nil value %v", messages)
	}
}

// ItsTrue fails the test if got is false.
func ItsTrue(t *testing.T, got bool, messages ...any) {
	t.Helper()
	if !got {
		t.Fatalf("expected true, got false %v", messages)
	}
}

// ItsFalse fails the test if got is true.
func ItsFalse(t *testing.T, got bool, messages ...any) {
	t.Helper()
	if got {
		t.Fatalf("expected false, got true %v", messages)
	}
}

// ItsError fails the test if err does not match target per errors.Is, or
// if err is nil.
func ItsError(t *testing.T, target, err error, messages ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil %v", target, messages)
		return
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error %v, got %v %v", target, err, messages)
	}
}
