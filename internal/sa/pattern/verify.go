package pattern

import "fmt"

// VerifyMode selects how a discovered address is checked for
// plausibility (spec.md §4.6.2).
type VerifyMode int

const (
	// VerifyStatic checks address plausibility against the image alone:
	// data vs. text range, alignment, and (for function addresses) that
	// the bytes at the address look like a recognized prologue shape.
	VerifyStatic VerifyMode = iota
	// VerifyRuntime reads the live process's memory at the same
	// addresses and checks pointer alignment, a non-null isa, or an
	// instruction-byte match at the patch site. It requires a
	// MemoryReader with elevated read access; when none is supplied,
	// verification falls back to VerifyStatic.
	VerifyRuntime
)

// EntityKind distinguishes the two kinds of discovered target: a global
// object pointer (verified for alignment/non-null isa) and a function
// address (verified for prologue shape/instruction match).
type EntityKind int

const (
	KindGlobal EntityKind = iota
	KindFunction
)

var targetKind = map[Target]EntityKind{
	TargetAddSpace:       KindFunction,
	TargetRemoveSpace:    KindFunction,
	TargetMoveSpace:      KindFunction,
	TargetDockSpaces:     KindGlobal,
	TargetDppm:           KindGlobal,
	TargetSetFrontWindow: KindFunction,
	TargetFixAnimation:   KindFunction,
}

// MemoryReader reads bytes from the live target process at a virtual
// address, used by VerifyRuntime. Implementations require the
// elevated capability spec.md §4.6.2 describes; there is no portable
// stdlib way to read another process's memory, so this is a narrow
// interface rather than a concrete implementation.
type MemoryReader interface {
	ReadAt(addr uint64, length int) ([]byte, error)
}

// VerifyResult is the outcome of verifying one resolved address.
type VerifyResult struct {
	Target Target
	Mode   VerifyMode
	Valid  bool
	Reason string
}

// VerifyStaticAddress checks a resolved address's plausibility using
// only the image: whether it falls in the expected segment (data for
// globals, text for functions), is correctly aligned, and — for
// functions — whether the bytes at the address look like a recognized
// prologue.
func (img *Image) VerifyStaticAddress(t Target, addr uint64) VerifyResult {
	kind := targetKind[t]
	if addr%4 != 0 {
		return VerifyResult{Target: t, Mode: VerifyStatic, Valid: false, Reason: "address is not 4-byte aligned"}
	}
	switch kind {
	case KindGlobal:
		if !img.InDataSegment(addr) {
			return VerifyResult{Target: t, Mode: VerifyStatic, Valid: false, Reason: "address does not fall within a data segment"}
		}
	case KindFunction:
		text, base, err := img.Text()
		if err != nil {
			return VerifyResult{Target: t, Mode: VerifyStatic, Valid: false, Reason: err.Error()}
		}
		if addr < base || addr >= base+uint64(len(text)) {
			return VerifyResult{Target: t, Mode: VerifyStatic, Valid: false, Reason: "address does not fall within __text"}
		}
		instr, ok := instructionAt(text, int(addr-base))
		if !ok || !IsPrologueStart(instr) {
			return VerifyResult{Target: t, Mode: VerifyStatic, Valid: false, Reason: "bytes at address do not match a recognized prologue"}
		}
	}
	return VerifyResult{Target: t, Mode: VerifyStatic, Valid: true}
}

// VerifyRuntimeAddress re-checks addr by reading the live process's
// memory through mem. It falls back to VerifyStaticAddress when mem is
// nil, matching spec.md §4.6.2 ("when unavailable it falls back to
// static verification").
func (img *Image) VerifyRuntimeAddress(t Target, addr uint64, mem MemoryReader) VerifyResult {
	if mem == nil {
		res := img.VerifyStaticAddress(t, addr)
		res.Mode = VerifyRuntime
		res.Reason = fmt.Sprintf("no memory reader available, fell back to static verification: %s", res.Reason)
		return res
	}
	kind := targetKind[t]
	switch kind {
	case KindGlobal:
		if addr%8 != 0 {
			return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: false, Reason: "global address is not 8-byte pointer aligned"}
		}
		data, err := mem.ReadAt(addr, 8)
		if err != nil {
			return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: false, Reason: err.Error()}
		}
		isa := leUint64(data)
		if isa == 0 {
			return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: false, Reason: "isa pointer is null"}
		}
	case KindFunction:
		data, err := mem.ReadAt(addr, instrSize)
		if err != nil {
			return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: false, Reason: err.Error()}
		}
		instr := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		if !IsPrologueStart(instr) {
			return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: false, Reason: "live instruction bytes do not match the patch site"}
		}
	}
	return VerifyResult{Target: t, Mode: VerifyRuntime, Valid: true}
}
