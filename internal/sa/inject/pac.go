package inject

// vaMask keeps the low 48 bits of a pointer, the virtual address width
// ARM64e actually routes through the MMU; any higher bits are pointer-
// authentication signature material the CPU's AuthDA/AuthIA
// instructions would otherwise reject when the pointer is used as a
// plain code address.
const vaMask = 0x0000FFFFFFFFFFFF

// StripPAC clears the pointer-authentication bits from addr, the step
// spec.md §4.6.3 requires before patching a resolved function address
// into shellcode: "pointer-authentication bits stripped, and patched
// into the shellcode". Signing a pointer back requires the AUTDA/PACDA
// instruction pair, which has no portable non-cgo Go binding; this
// package only ever strips, matching what injection actually needs.
func StripPAC(addr uint64) uint64 {
	return addr & vaMask
}
