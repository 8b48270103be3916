package reconcile

import (
	"fmt"

	"github.com/tilewm/core/internal/types"
)

// FocusWindowInDirection moves focus from the currently focused window to
// the nearest leaf in direction within its space (spec.md §4.2.2
// find_node_in_direction). It is a no-op, reporting an error, if there is
// no focused window or no leaf in that direction.
func (l *Loop) FocusWindowInDirection(direction types.Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sourceID, targetID, ok := l.neighborInDirection(direction)
	if !ok {
		return fmt.Errorf("no window in direction %s", direction.String())
	}
	_ = sourceID

	l.plat.FocusWindow(targetID)
	l.table.SetFocused(targetID)
	l.flags.Set(FlagAppFocusChanged)
	l.flags.Set(FlagValidateState)
	return nil
}

// MoveWindowInDirection swaps the focused window with its neighbor in
// direction, leaving both leaves' areas untouched and the rest of the
// tree unchanged, then marks the space for re-layout.
func (l *Loop) MoveWindowInDirection(direction types.Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	focused := l.table.Focused()
	entry, ok := l.table.Get(focused)
	if !ok {
		return fmt.Errorf("no focused window")
	}

	v := l.views.Get(entry.SpaceID)
	sourceLeaf, ok := v.Tree.LeafForWindow(focused)
	if !ok {
		return fmt.Errorf("focused window not present in its space's layout tree")
	}
	targetLeaf, ok := v.Tree.FindNodeInDirection(sourceLeaf, direction)
	if !ok {
		return fmt.Errorf("no window in direction %s", direction.String())
	}

	targetID := v.Tree.Node(targetLeaf).WindowID()
	v.Tree.SwapWindowIDs(sourceLeaf, targetLeaf)
	l.table.SwapWindowOrder(focused, targetID)
	l.dirtySpaces.Add(entry.SpaceID)
	l.flags.Set(FlagLayoutCurrent)
	return nil
}

// neighborInDirection resolves the focused window's leaf and its neighbor
// in direction within the same space's layout tree.
func (l *Loop) neighborInDirection(direction types.Direction) (source, target types.WindowId, ok bool) {
	focused := l.table.Focused()
	entry, ok := l.table.Get(focused)
	if !ok {
		return 0, 0, false
	}

	v := l.views.Get(entry.SpaceID)
	sourceLeaf, ok := v.Tree.LeafForWindow(focused)
	if !ok {
		return 0, 0, false
	}
	targetLeaf, ok := v.Tree.FindNodeInDirection(sourceLeaf, direction)
	if !ok {
		return 0, 0, false
	}

	return focused, v.Tree.Node(targetLeaf).WindowID(), true
}
