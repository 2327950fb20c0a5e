package testutils

import (
	"errors"
	"reflect"
	"testing"
)

func AssertSame(t *testing.T, expected interface{}, actual interface{}, prefix string) {
	if !reflect.DeepEqual(expected, actual) {
		t.Error(prefix, "do not match, expected:", expected, ", actual:", actual)
	}
}

func AssertLen(t *testing.T, expected int, actual interface{}, prefix string) {
	s := reflect.ValueOf(actual)
	if s.Len() != expected {
		t.Fatal(prefix, "incorrect length, expected:", expected, ", actual:", s.Len())
	}
}

func AssertErrorIs(t *testing.T, err error, target error, prefix string) {
	if !errors.Is(err, target) {
		t.Fatal(prefix, "wrong error, expected:", target, ", actual:", err)
	}
}
