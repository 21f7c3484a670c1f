package procinfo

import "testing"

func TestEnvironment_Order(t *testing.T) {
	env := NewEnvironment()
	env.Set("PATH", "/usr/bin")
	env.Set("HOME", "/Users/demo")
	env.Set("TERM", "xterm-256color")

	keys := env.Keys()
	want := []string{"PATH", "HOME", "TERM"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() length = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestEnvironment_DuplicateKeyKeepsPosition(t *testing.T) {
	env := NewEnvironment()
	env.Set("A", "1")
	env.Set("B", "2")
	env.Set("A", "3")

	if env.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", env.Len())
	}
	if env.Keys()[0] != "A" {
		t.Errorf("Keys()[0] = %q, want A", env.Keys()[0])
	}
	if v, _ := env.Get("A"); v != "3" {
		t.Errorf("Get(A) = %q, want 3", v)
	}
}

func TestEnvironment_GetMissing(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Get("NOPE"); ok {
		t.Error("Get() reported a missing key as present")
	}
}

func TestEnvironment_Clone(t *testing.T) {
	env := NewEnvironment()
	env.Set("A", "1")

	c := env.Clone()
	c.Set("B", "2")
	c.Set("A", "changed")

	if env.Len() != 1 {
		t.Errorf("source Len() = %d after clone mutation, want 1", env.Len())
	}
	if v, _ := env.Get("A"); v != "1" {
		t.Errorf("source Get(A) = %q after clone mutation, want 1", v)
	}
	if v, _ := c.Get("B"); v != "2" {
		t.Errorf("clone Get(B) = %q, want 2", v)
	}
}

func TestEnvironment_ZeroValueSet(t *testing.T) {
	var env Environment
	env.Set("A", "1")
	if v, ok := env.Get("A"); !ok || v != "1" {
		t.Errorf("Get(A) = %q, %v, want 1, true", v, ok)
	}
}
