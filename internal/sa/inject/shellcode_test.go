package inject

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestBuildShellcodePatchesAddressesAtFixedOffsets(t *testing.T) {
	code, err := BuildShellcode(ArchARM64, 0x1000, 0x2000, "/tmp/payload.dylib")
	if err != nil {
		t.Fatalf("BuildShellcode: %v", err)
	}
	if got := binary.LittleEndian.Uint64(code[arm64PthreadOffset:]); got != 0x1000 {
		t.Errorf("pthread addr: got %#x, want %#x", got, 0x1000)
	}
	if got := binary.LittleEndian.Uint64(code[arm64DlopenOffset:]); got != 0x2000 {
		t.Errorf("dlopen addr: got %#x, want %#x", got, 0x2000)
	}
	if !strings.HasPrefix(string(code[arm64PathOffset:]), "/tmp/payload.dylib") {
		t.Errorf("expected path at offset %d, got %q", arm64PathOffset, code[arm64PathOffset:])
	}
	if code[len(code)-1] != 0 {
		t.Errorf("expected a trailing NUL terminator")
	}
}

func TestBuildShellcodeX86UsesItsOwnOffsets(t *testing.T) {
	code, err := BuildShellcode(ArchX86_64, 0x1111, 0x2222, "/tmp/p")
	if err != nil {
		t.Fatalf("BuildShellcode: %v", err)
	}
	if got := binary.LittleEndian.Uint64(code[x86PthreadOffset:]); got != 0x1111 {
		t.Errorf("got %#x, want %#x", got, 0x1111)
	}
	if got := binary.LittleEndian.Uint64(code[x86DlopenOffset:]); got != 0x2222 {
		t.Errorf("got %#x, want %#x", got, 0x2222)
	}
}

func TestBuildShellcodeRejectsOversizedPath(t *testing.T) {
	longPath := strings.Repeat("a", arm64MaxPathLen)
	if _, err := BuildShellcode(ArchARM64, 0, 0, longPath); err == nil {
		t.Errorf("expected an error for a path at the length limit")
	}
}

func TestStripPACClearsHighBits(t *testing.T) {
	signed := uint64(0xAB00_1234_5678_9ABC)
	got := StripPAC(signed)
	want := signed & 0x0000FFFFFFFFFFFF
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestStripPACLeavesUnsignedPointerUnchanged(t *testing.T) {
	addr := uint64(0x0000_1000_2000_3000)
	if got := StripPAC(addr); got != addr {
		t.Errorf("got %#x, want unchanged %#x", got, addr)
	}
}
