// Package platform defines the abstract capability surface the core
// consumes to talk to the host compositor (spec.md §4.5). Every command
// returns success/failure; every query returns an option via (T, bool).
package platform

import "github.com/tilewm/core/internal/types"

// WindowInfo is a query-time snapshot of a window's observable attributes.
type WindowInfo struct {
	ID        types.WindowId
	Frame     types.Rect
	SpaceID   types.SpaceId
	Pid       int
	Level     int
	Minimized bool
	Fullscreen bool
}

// SpaceInfo is a query-time snapshot of a space's observable attributes.
type SpaceInfo struct {
	ID      types.SpaceId
	Type    types.SpaceType
	Display types.DisplayId
	Windows []types.WindowId
}

// DisplayInfo is a query-time snapshot of a display's observable
// attributes.
type DisplayInfo struct {
	ID     types.DisplayId
	Frame  types.Rect
	Spaces []types.SpaceId
}

// Platform is the capability surface the reconciliation loop, layout
// application, and rule engine consume instead of calling the host
// compositor directly.
//
// Operations that require the SA subsystem (create/destroy space,
// focus-without-raise, move-between-displays) silently return failure
// when SA is unavailable; implementations must not panic or block
// indefinitely on that path.
type Platform interface {
	// Window queries
	WindowFrame(id types.WindowId) (types.Rect, bool)
	WindowSpace(id types.WindowId) (types.SpaceId, bool)
	WindowOwnerPid(id types.WindowId) (int, bool)
	WindowLevel(id types.WindowId) (int, bool)
	WindowMinimized(id types.WindowId) (bool, bool)
	WindowFullscreen(id types.WindowId) (bool, bool)

	// Window commands
	SetWindowFrame(id types.WindowId, frame types.Rect) bool
	SetWindowLevel(id types.WindowId, level int) bool
	SetWindowOpacity(id types.WindowId, alpha float64) bool
	FocusWindow(id types.WindowId) bool
	MinimizeWindow(id types.WindowId) bool
	CloseWindow(id types.WindowId) bool

	// Space queries
	SpaceType(id types.SpaceId) (types.SpaceType, bool)
	SpaceDisplay(id types.SpaceId) (types.DisplayId, bool)
	SpaceWindows(id types.SpaceId) ([]types.WindowId, bool)
	ActiveSpaceForDisplay(id types.DisplayId) (types.SpaceId, bool)

	// Space commands (create/destroy/move require SA)
	FocusSpace(id types.SpaceId) bool
	MoveWindowToSpace(window types.WindowId, space types.SpaceId) bool
	CreateSpace(display types.DisplayId) (types.SpaceId, bool)
	DestroySpace(id types.SpaceId) bool

	// Display queries
	DisplayFrame(id types.DisplayId) (types.Rect, bool)
	DisplaySpaces(id types.DisplayId) ([]types.SpaceId, bool)
	Displays() []types.DisplayId

	// System queries
	CursorPosition() (types.Point, bool)
	FocusedWindow() (types.WindowId, bool)
	FocusedPid() (int, bool)

	// SAAvailable reports whether the SA subsystem is reachable; commands
	// that require it return failure (not an error) when it is not.
	SAAvailable() bool
}

// PreconditionReporter is an optional capability a Platform backend may
// implement to report the two startup preconditions from spec.md §6 that
// only the real compositor can answer (accessibility permission,
// separate-spaces preference). Socket implements it; Mock does not,
// since a scripted scene has no permission state to misreport.
type PreconditionReporter interface {
	AccessibilityGranted() bool
	SeparateSpacesEnabled() bool
}
