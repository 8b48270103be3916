// Package reconcile implements the dirty-flag coalescing loop that turns
// bursts of compositor notifications into minimal, idempotent layout work
// (spec.md §4.3).
package reconcile

// Flag is one bit in the packed dirty-flag set.
type Flag uint32

const (
	FlagLayoutCurrent Flag = 1 << iota
	FlagLayoutAll
	FlagRebuildView
	FlagScanApps
	FlagSyncSpaces
	FlagSyncConfig
	FlagValidateState
	FlagRefreshWindowSpaces
	FlagAppsLaunched
	FlagAppsTerminated
	FlagAppFocusChanged
	FlagAppsHidden
	FlagAppsShown
)

// FlagSet is a packed set of dirty flags.
type FlagSet struct {
	bits Flag
}

// Set marks f dirty.
func (s *FlagSet) Set(f Flag) {
	s.bits |= f
}

// Has reports whether f is dirty.
func (s *FlagSet) Has(f Flag) bool {
	return s.bits&f != 0
}

// Clear unmarks f.
func (s *FlagSet) Clear(f Flag) {
	s.bits &^= f
}

// Any reports whether any flag is dirty.
func (s *FlagSet) Any() bool {
	return s.bits != 0
}
