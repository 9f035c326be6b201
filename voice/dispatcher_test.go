package voice

import "testing"

func TestDispatchSearchPhrase(t *testing.T) {
	command, matched := Dispatch("நான் தக்காளி காண்பி என்றேன்")
	if !matched {
		t.Fatalf("expected a match")
	}
	if command != "search tomatoes" {
		t.Errorf("expected %q, got %q", "search tomatoes", command)
	}
}

func TestDispatchNormalizes(t *testing.T) {
	command, matched := Dispatch("  கார்ட்டை திற  ")
	if !matched || command != "open cart" {
		t.Errorf("expected open cart, got %q (matched=%v)", command, matched)
	}
}

func TestDispatchPriorityOrder(t *testing.T) {
	// A transcript containing both a search phrase and a navigation phrase
	// must resolve to the search command, since search is scanned first.
	command, _ := Dispatch("தக்காளி காண்பி கார்ட்டை திற")
	if command != "search tomatoes" {
		t.Errorf("search should outrank navigation, got %q", command)
	}
}

func TestDispatchPassthrough(t *testing.T) {
	command, matched := Dispatch("Set Name Fresh Okra")
	if matched {
		t.Fatalf("unconfigured transcript must not report a match")
	}
	if command != "set name fresh okra" {
		t.Errorf("raw transcript should pass through normalized, got %q", command)
	}
}

func TestSetValue(t *testing.T) {
	v, ok := SetValue("set name fresh okra", "set name")
	if !ok || v != "fresh okra" {
		t.Errorf("expected (fresh okra, true), got (%q, %v)", v, ok)
	}
	if _, ok := SetValue("confirm order", "set name"); ok {
		t.Errorf("non-matching prefix must report false")
	}
}

func TestSetNumber(t *testing.T) {
	n, ok := SetNumber("set price 42.5", "set price")
	if !ok || n != 42.5 {
		t.Errorf("expected (42.5, true), got (%v, %v)", n, ok)
	}
	if _, ok := SetNumber("set price forty", "set price"); ok {
		t.Errorf("non-numeric value must report false")
	}
}
