// Package ttesting contains small assertion helpers shared by tests.
package ttesting

import (
	"image"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualRect(t *testing.T, name string, got, want image.Rectangle) {
	t.Run(name, func(t *testing.T) {
		if !got.Eq(want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}
