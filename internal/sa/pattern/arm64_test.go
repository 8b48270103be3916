package pattern

import (
	"encoding/binary"
	"testing"
)

func encodeADRP(immhi uint32, immlo uint32, rd uint32) uint32 {
	return 0x90000000 | (immlo&0x3)<<29 | (immhi&0x7FFFF)<<5 | (rd & 0x1F)
}

func TestIsADRPRecognizesEncodedInstruction(t *testing.T) {
	instr := encodeADRP(100, 2, 0)
	if !IsADRP(instr) {
		t.Errorf("expected IsADRP to recognize an encoded ADRP instruction")
	}
}

func TestIsADRPRejectsUnrelatedInstruction(t *testing.T) {
	if IsADRP(InstrPACIASP) {
		t.Errorf("did not expect PACIASP to be recognized as ADRP")
	}
}

func TestADRPTargetComputesPageAddress(t *testing.T) {
	pc := uint64(0x1000)
	instr := encodeADRP(1, 0, 0) // imm = 1<<2 = 4 pages = 0x4000
	got := ADRPTarget(instr, pc)
	want := uint64(0x5000)
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestIsLDRImm64RecognizesEncodedInstruction(t *testing.T) {
	instr := uint32(0xF9400000) | (5 << 10)
	if !IsLDRImm64(instr) {
		t.Errorf("expected IsLDRImm64 to recognize an encoded LDR instruction")
	}
	if off := LDRImm64Offset(instr); off != 40 {
		t.Errorf("got offset %d, want 40", off)
	}
}

func TestIsPrologueStartRecognizesKnownHints(t *testing.T) {
	for _, instr := range []uint32{InstrPACIASP, InstrPACIBSP} {
		if !IsPrologueStart(instr) {
			t.Errorf("expected %#x to be recognized as a prologue start", instr)
		}
	}
}

func TestWalkBackToPrologueFindsNearestMatch(t *testing.T) {
	text := make([]byte, 8*instrSize)
	binary.LittleEndian.PutUint32(text[0:], InstrPACIASP)
	binary.LittleEndian.PutUint32(text[4*instrSize:], 0xD503201F) // NOP, not a prologue
	loadOff := 6 * instrSize
	off, ok := WalkBackToPrologue(text, loadOff, 10)
	if !ok || off != 0 {
		t.Errorf("got off=%d ok=%v, want off=0 ok=true", off, ok)
	}
}

func TestWalkBackToPrologueFailsWhenNoneWithinWindow(t *testing.T) {
	text := make([]byte, 8*instrSize)
	loadOff := 6 * instrSize
	if _, ok := WalkBackToPrologue(text, loadOff, 2); ok {
		t.Errorf("expected no prologue found within a short window of zero instructions")
	}
}
