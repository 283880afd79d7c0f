// Package assert holds the small set of test assertions used across the module.
package assert

import (
	"reflect"
	"testing"
)

// Equal fails the test if got and want are not deeply equal.
func Equal[T any](t testing.TB, got, want T) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got: %#v; want: %#v", got, want)
	}
}

// True fails the test if value is false.
func True(t testing.TB, value bool) {
	t.Helper()
	if !value {
		t.Errorf("got: false; want: true")
	}
}

// False fails the test if value is true.
func False(t testing.TB, value bool) {
	t.Helper()
	if value {
		t.Errorf("got: true; want: false")
	}
}

// Nil fails the test if value is not nil.
func Nil(t testing.TB, value any) {
	t.Helper()
	if !isNil(value) {
		t.Errorf("got: %v; want: nil", value)
	}
}

// NotNil fails the test if value is nil.
func NotNil(t testing.TB, value any) {
	t.Helper()
	if isNil(value) {
		t.Errorf("got: nil; want: not nil")
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}

	return false
}
