// Package inject models out-of-process code injection into the host
// process (spec.md §4.6.3): task-port acquisition, remote memory
// allocation, shellcode construction, and remote thread creation. Mach
// task ports, remote threads, and ARM64e pointer authentication have no
// portable non-cgo Go binding, so the parts that would require them are
// expressed as interfaces (TaskPort, ThreadCreator, FunctionResolver)
// rather than concrete syscalls; Injector drives those interfaces
// through the exact sequence spec.md describes, and is testable against
// fakes without a live target process.
package inject

import (
	"encoding/binary"
	"fmt"
)

// Arch selects which of the two shellcode templates spec.md §6 fixes.
type Arch int

const (
	ArchARM64 Arch = iota
	ArchX86_64
)

// Byte offsets fixed by spec.md §6's shellcode layout table.
const (
	arm64BaseLen       = 168
	arm64PthreadOffset = 88
	arm64DlopenOffset  = 160
	arm64PathOffset    = 168
	arm64MaxPathLen    = 256

	x86BaseLen       = 90
	x86PthreadOffset = 28
	x86DlopenOffset  = 71
	x86PathOffset    = 90
	x86MaxPathLen    = 256
)

// compile-time checks that the two patched addresses fit within their
// architecture's base template, and that the path begins immediately
// after it, per spec.md §6's fixed layout. A negative array length
// fails the build if these drift out of sync.
var (
	_ [arm64BaseLen - arm64PthreadOffset - 8]struct{}
	_ [arm64BaseLen - arm64DlopenOffset - 8]struct{}
	_ [arm64PathOffset - arm64BaseLen]struct{}

	_ [x86BaseLen - x86PthreadOffset - 8]struct{}
	_ [x86BaseLen - x86DlopenOffset - 8]struct{}
	_ [x86PathOffset - x86BaseLen]struct{}
)

// CompletionMagic is the 64-bit value ("yabe" read as little-endian
// ASCII) the shellcode leaves in the return-value register once it has
// finished dlopen-ing the payload (spec.md §6).
const CompletionMagic uint64 = 0x79616265

// arm64Template and x86Template stand in for the two architectures'
// hand-written entry sequences (sign-stack / save registers / call
// pthread_create_from_mach_thread with a trampoline that calls dlopen,
// then spin recording CompletionMagic). The actual instruction bytes
// are assembled once per architecture and kept opaque here; only the
// patch offsets and completion behavior are load-bearing for the
// control protocol above this package.
var arm64Template = make([]byte, arm64BaseLen)
var x86Template = make([]byte, x86BaseLen)

// BuildShellcode produces the patched shellcode for arch: the base
// template with pthread_create_from_mach_thread and dlopen's addresses
// (already PAC-stripped by the caller) written at their fixed offsets,
// followed by payloadPath as a NUL-terminated string.
func BuildShellcode(arch Arch, pthreadCreateAddr, dlopenAddr uint64, payloadPath string) ([]byte, error) {
	var template []byte
	var pthreadOff, dlopenOff, pathOff, maxPath int
	switch arch {
	case ArchARM64:
		template, pthreadOff, dlopenOff, pathOff, maxPath = arm64Template, arm64PthreadOffset, arm64DlopenOffset, arm64PathOffset, arm64MaxPathLen
	case ArchX86_64:
		template, pthreadOff, dlopenOff, pathOff, maxPath = x86Template, x86PthreadOffset, x86DlopenOffset, x86PathOffset, x86MaxPathLen
	default:
		return nil, fmt.Errorf("inject: unknown architecture %d", arch)
	}
	if len(payloadPath)+1 > maxPath {
		return nil, fmt.Errorf("inject: payload path too long (%d bytes, max %d)", len(payloadPath), maxPath-1)
	}

	out := make([]byte, pathOff+len(payloadPath)+1)
	copy(out, template)
	binary.LittleEndian.PutUint64(out[pthreadOff:], pthreadCreateAddr)
	binary.LittleEndian.PutUint64(out[dlopenOff:], dlopenAddr)
	copy(out[pathOff:], payloadPath)
	// trailing byte is already zero (NUL terminator) from make().
	return out, nil
}
