package kvstore

import "testing"

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("missing"); ok {
		t.Errorf("missing key should report absent")
	}

	s.Set("cart:dev1", `[{"quantity":2}]`)
	v, ok := s.Get("cart:dev1")
	if !ok || v != `[{"quantity":2}]` {
		t.Errorf("expected stored value back, got (%q, %v)", v, ok)
	}

	s.Set("cart:dev1", "[]")
	if v, _ := s.Get("cart:dev1"); v != "[]" {
		t.Errorf("set should overwrite, got %q", v)
	}

	s.Delete("cart:dev1")
	if _, ok := s.Get("cart:dev1"); ok {
		t.Errorf("deleted key should report absent")
	}

	s.Delete("cart:dev1") // deleting an absent key is a no-op
}
