package reconcile

import (
	"testing"

	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// seedTwoColumnSpace builds a space with two side-by-side windows, the way
// a layout pass would leave it after Insert + SetBounds.
func seedTwoColumnSpace(t *testing.T, loop *Loop, tbl *window.Table) {
	t.Helper()
	tbl.Add(window.Entry{ID: 1, SpaceID: 10})
	tbl.Add(window.Entry{ID: 2, SpaceID: 10})

	v := loop.views.Get(10)
	v.Tree.Insert(1, types.AxisVertical)
	v.Tree.Insert(2, types.AxisVertical)
	v.Tree.SetBounds(types.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
}

func TestFocusWindowInDirectionMovesToNeighbor(t *testing.T) {
	loop, tbl, _ := newTestLoop()
	seedTwoColumnSpace(t, loop, tbl)
	tbl.SetFocused(1)

	if err := loop.FocusWindowInDirection(types.DirEast); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loop.table.Focused() != 2 {
		t.Errorf("expected focus to move to window 2, got %v", loop.table.Focused())
	}
}

func TestFocusWindowInDirectionErrorsWithNoNeighbor(t *testing.T) {
	loop, tbl, _ := newTestLoop()
	seedTwoColumnSpace(t, loop, tbl)
	tbl.SetFocused(1)

	if err := loop.FocusWindowInDirection(types.DirNorth); err == nil {
		t.Fatal("expected an error when there is no neighbor in direction")
	}
}

func TestMoveWindowInDirectionSwapsLeaves(t *testing.T) {
	loop, tbl, _ := newTestLoop()
	seedTwoColumnSpace(t, loop, tbl)
	tbl.SetFocused(1)

	if err := loop.MoveWindowInDirection(types.DirEast); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := loop.views.Get(10)
	leaf, ok := v.Tree.LeafForWindow(1)
	if !ok {
		t.Fatal("expected window 1 to still be present in the tree")
	}
	if v.Tree.Node(leaf).Area().X == 0 {
		t.Error("expected window 1 to have swapped into the eastern leaf's area")
	}
	if !loop.Pending() {
		t.Error("expected the space to be marked dirty for re-layout")
	}
}
