package pattern

import "testing"

func TestCompileMatchesExactByteSequence(t *testing.T) {
	p, err := Compile("7F 23 03 D5")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	data := []byte{0x00, 0x7F, 0x23, 0x03, 0xD5, 0x00}
	off, ok := Search(data, p)
	if !ok || off != 1 {
		t.Errorf("got off=%d ok=%v, want off=1 ok=true", off, ok)
	}
}

func TestCompileRejectsNoPrefixMatch(t *testing.T) {
	p := MustCompile("7F 23 03 D5")
	data := []byte{0x7F, 0x23, 0x03}
	if _, ok := Search(data, p); ok {
		t.Errorf("expected no match against a truncated prefix")
	}
}

func TestCompileWildcardMatchesAnyByte(t *testing.T) {
	p := MustCompile("90 ?? 90")
	data := []byte{0x90, 0xAB, 0x90}
	off, ok := Search(data, p)
	if !ok || off != 0 {
		t.Errorf("got off=%d ok=%v, want off=0 ok=true", off, ok)
	}
}

func TestSearchAllFindsEveryOccurrence(t *testing.T) {
	p := MustCompile("AA")
	data := []byte{0xAA, 0x00, 0xAA, 0xAA}
	offs := SearchAll(data, p)
	if len(offs) != 3 {
		t.Errorf("got %v, want 3 matches", offs)
	}
}

func TestCompileRejectsEmptySpec(t *testing.T) {
	if _, err := Compile("   "); err == nil {
		t.Errorf("expected an error for an empty pattern spec")
	}
}

func TestCompileRejectsInvalidHex(t *testing.T) {
	if _, err := Compile("ZZ"); err == nil {
		t.Errorf("expected an error for invalid hex")
	}
}
