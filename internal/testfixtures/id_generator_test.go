package testfixtures

import "testing"

func TestIDGenerator_Sequence(t *testing.T) {
	gen := NewIDGenerator("$evt")
	if got := gen.Next(); got != "$evt-1" {
		t.Fatalf("first id = %q", got)
	}
	if got := gen.Next(); got != "$evt-2" {
		t.Fatalf("second id = %q", got)
	}
}

func TestIDGenerator_EmptyPrefixDefaults(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("id = %q", got)
	}
}
