// Package tilewmerr names the error kinds spec.md §7 enumerates, so
// callers can classify a failure with errors.Is instead of matching
// strings. Most packages still return plain wrapped errors for
// operation-local failures (the teacher's idiom throughout
// internal/layout); this package exists for the handful of kinds that
// cross a process boundary tilewmctl or the daemon's startup path needs
// to tell apart.
package tilewmerr

import "errors"

// Kind is one of the named failure categories from spec.md §7.
type Kind int

const (
	AccessibilityDenied Kind = iota
	PlatformCallFailed
	WindowNotFound
	AttributeUnsupported
	SymbolNotFound
	InjectionFailed
	SocketError
	PatternNotFound
	AllocationFailed
)

func (k Kind) String() string {
	switch k {
	case AccessibilityDenied:
		return "accessibility_denied"
	case PlatformCallFailed:
		return "platform_call_failed"
	case WindowNotFound:
		return "window_not_found"
	case AttributeUnsupported:
		return "attribute_unsupported"
	case SymbolNotFound:
		return "symbol_not_found"
	case InjectionFailed:
		return "injection_failed"
	case SocketError:
		return "socket_error"
	case PatternNotFound:
		return "pattern_not_found"
	case AllocationFailed:
		return "allocation_failed"
	default:
		return "unknown"
	}
}

// kindError pairs a Kind with the sentinel Is() checks against.
type kindError struct {
	kind Kind
}

func (e *kindError) Error() string { return e.kind.String() }

// sentinels, one per Kind, for errors.Is comparisons.
var sentinels = map[Kind]error{
	AccessibilityDenied:   &kindError{AccessibilityDenied},
	PlatformCallFailed:    &kindError{PlatformCallFailed},
	WindowNotFound:        &kindError{WindowNotFound},
	AttributeUnsupported:  &kindError{AttributeUnsupported},
	SymbolNotFound:        &kindError{SymbolNotFound},
	InjectionFailed:       &kindError{InjectionFailed},
	SocketError:           &kindError{SocketError},
	PatternNotFound:       &kindError{PatternNotFound},
	AllocationFailed:      &kindError{AllocationFailed},
}

// Sentinel returns the package-level sentinel error for k, suitable for
// errors.Is comparisons.
func Sentinel(k Kind) error {
	return sentinels[k]
}

// wrapped carries a Kind alongside an underlying cause, unwrapping to
// both the cause and the Kind's sentinel.
type wrapped struct {
	kind  Kind
	cause error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.kind.String()
	}
	return w.kind.String() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() error { return w.cause }

func (w *wrapped) Is(target error) bool {
	return target == sentinels[w.kind]
}

// New wraps cause with kind, preserving errors.Is(err, tilewmerr.Sentinel(kind))
// and errors.Unwrap(err) == cause.
func New(kind Kind, cause error) error {
	return &wrapped{kind: kind, cause: cause}
}

// Of reports the Kind err was constructed with via New, if any.
func Of(err error) (Kind, bool) {
	var w *wrapped
	if errors.As(err, &w) {
		return w.kind, true
	}
	return 0, false
}
