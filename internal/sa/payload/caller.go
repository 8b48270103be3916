// Package payload models the listener that runs inside the host
// process once injected (spec.md §4.6.5): it accepts one control-socket
// connection at a time, dispatches each framed message to a handler,
// and replies. Handlers that touch host internals do so through the
// discovered function addresses pattern.Discoverer resolves; since this
// code actually executes inside another process's address space via
// dlopen, the inline-register calling convention itself is represented
// as a pluggable HostCaller interface so the dispatch/queueing logic is
// testable without a live host process.
package payload

import (
	"github.com/tilewm/core/internal/sa/pattern"
	"github.com/tilewm/core/internal/sa/proto"
)

// HostCaller invokes one of the discovered private functions using the
// host's inline-register call convention (object pointers placed into
// specific registers before branching to the function address), and
// exposes the two discovered globals as readable values. Real
// implementations would construct this call by writing argument
// registers and branching to a raw address — something with no
// portable Go expression — so this package only ever calls through the
// interface.
type HostCaller interface {
	// Call invokes one of the three space-mutating functions discovery
	// resolves (add_space, remove_space, move_space) with args already
	// resolved to the object pointers/integers it expects.
	Call(fn pattern.Target, args ...uint64) (uint64, error)
	// Global returns the current value of a discovered global object
	// pointer (dock_spaces or dppm).
	Global(g pattern.Target) (uint64, error)
	// Window performs a window-level mutation (the window_* opcodes:
	// move, opacity, layer, sticky, shadow, order, to_space) through
	// whichever of set_front_window/fix_animation the host's private
	// API routes that operation through.
	Window(op proto.Opcode, args ...uint64) error
	// Retain/Release follow the host's internal object lifecycle
	// convention; space_create and space_destroy call these around the
	// object pointers they create or give up (spec.md §4.6.5).
	Retain(ptr uint64)
	Release(ptr uint64)
}
