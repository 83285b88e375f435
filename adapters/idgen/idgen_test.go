package idgen

import "testing"

func TestSequential(t *testing.T) {
	g := NewSequential("dec-")

	if got := g.New(); got != "dec-1" {
		t.Errorf("New() = %q, want %q", got, "dec-1")
	}
	if got := g.New(); got != "dec-2" {
		t.Errorf("New() = %q, want %q", got, "dec-2")
	}
}

func TestUUIDUnique(t *testing.T) {
	g := UUID{}
	a, b := g.New(), g.New()
	if a == b {
		t.Errorf("two generated IDs are equal: %q", a)
	}
	if len(a) != 36 {
		t.Errorf("len(%q) = %d, want 36", a, len(a))
	}
}
