package types

// WindowFlags is the packed flag set carried by a WindowEntry.
// Defaults: Shadow, Movable, Resizable set; all others clear.
type WindowFlags struct {
	Shadow     bool
	Fullscreen bool
	Minimized  bool
	Floating   bool
	Sticky     bool
	Windowed   bool
	Movable    bool
	Resizable  bool
	Hidden     bool
}

// DefaultWindowFlags returns the flag defaults spec.md §3 mandates.
func DefaultWindowFlags() WindowFlags {
	return WindowFlags{
		Shadow:    true,
		Movable:   true,
		Resizable: true,
	}
}

// Tileable reports whether a window with these flags participates in
// tiling layout (spec.md §4.1 tileable_windows_for_space filter).
func (f WindowFlags) Tileable() bool {
	return !f.Minimized && !f.Floating && !f.Hidden
}
