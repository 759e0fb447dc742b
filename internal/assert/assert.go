package assert

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Equal fails the test if a and b differ, printing the diff.
func Equal[T any](t *testing.T, a T, b T) {
	t.Helper()
	if diff := cmp.Diff(a, b, cmp.Exporter(func(reflect.Type) bool { return true })); diff != "" {
		t.Fatalf("mismatch (-got +want):\n%s", diff)
	}
}

func NotEqual[T any](t *testing.T, a T, b T) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Fatalf("%v == %v", a, b)
	}
}

func IsNil(t *testing.T, v any) {
	t.Helper()
	if !isNil(v) {
		t.Fatalf("%v is not nil", v)
	}
}

func NotNil(t *testing.T, v any) {
	t.Helper()
	if isNil(v) {
		t.Fatal("value is nil")
	}
}

func True(t *testing.T, v bool) {
	t.Helper()
	if !v {
		t.Fatal("value is false")
	}
}

func ErrorIs(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error %v is not %v", err, target)
	}
}

func ErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("error %q does not contain %q", err, substr)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
