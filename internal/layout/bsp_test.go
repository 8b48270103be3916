package layout

import (
	"testing"

	"github.com/tilewm/core/internal/types"
)

func TestInsertFirstWindowBecomesSoleLeaf(t *testing.T) {
	tree := NewTree(0.5)
	idx := tree.Insert(1, types.AxisVertical)

	root, ok := tree.Root()
	if !ok || root != idx {
		t.Fatalf("expected the first insert to become the root leaf")
	}
	if !tree.Node(idx).IsLeaf() {
		t.Error("expected sole node to be a leaf")
	}
}

func TestInsertSplitsRightmostLeaf(t *testing.T) {
	tree := NewTree(0.5)
	tree.Node(tree.Insert(1, types.AxisVertical)).area = types.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tree.Insert(2, types.AxisVertical)

	leaves := tree.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves after second insert, got %d", len(leaves))
	}

	var ids []types.WindowId
	for _, l := range leaves {
		ids = append(ids, tree.Node(l).windowID)
	}
	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("expected leaf order [1 2], got %v", ids)
	}
}

func TestInsertAreasPartitionParent(t *testing.T) {
	tree := NewTree(0.5)
	root := tree.Insert(1, types.AxisVertical)
	tree.Node(root).area = types.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	tree.Insert(2, types.AxisVertical)

	leaves := tree.Leaves()
	a := tree.Node(leaves[0]).area
	b := tree.Node(leaves[1]).area

	if a.Width+b.Width != 100 {
		t.Errorf("expected split widths to sum to 100, got %v + %v", a.Width, b.Width)
	}
	if a.Height != 50 || b.Height != 50 {
		t.Errorf("expected both leaves to retain the parent's height, got %v and %v", a.Height, b.Height)
	}
}

func TestRemoveSiblingAbsorbsParentArea(t *testing.T) {
	tree := NewTree(0.5)
	root := tree.Insert(1, types.AxisVertical)
	tree.Node(root).area = types.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	second := tree.Insert(2, types.AxisVertical)

	tree.Remove(second)

	leaves := tree.Leaves()
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf after removal, got %d", len(leaves))
	}
	area := tree.Node(leaves[0]).area
	if area.Width != 100 || area.Height != 100 {
		t.Errorf("expected surviving sibling to absorb the full parent area, got %+v", area)
	}
}

func TestRemoveInternalSiblingRecomputesChildAreas(t *testing.T) {
	tree := NewTree(0.5)
	first := tree.Insert(1, types.AxisVertical)
	tree.Node(first).area = types.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tree.Insert(2, types.AxisVertical)
	tree.Insert(3, types.AxisVertical)

	root, _ := tree.Root()
	leftLeaf := tree.Node(root).first

	// leftLeaf's sibling is the internal node holding windows 2 and 3;
	// removing leftLeaf promotes that sibling to root without an
	// intervening SetBounds call.
	tree.Remove(leftLeaf)

	newRoot, ok := tree.Root()
	if !ok {
		t.Fatalf("expected a live root after removal")
	}
	if tree.Node(newRoot).IsLeaf() {
		t.Fatalf("expected the surviving internal sibling to become the new root")
	}

	leaves := tree.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves after removal, got %d", len(leaves))
	}
	var total float64
	for _, l := range leaves {
		total += tree.Node(l).area.Width
	}
	if total != 100 {
		t.Errorf("expected surviving leaves' widths to sum to the absorbed area's full width (100), got %v", total)
	}
}

func TestRemoveLastLeafEmptiesTree(t *testing.T) {
	tree := NewTree(0.5)
	idx := tree.Insert(1, types.AxisVertical)
	tree.Remove(idx)

	if !tree.Empty() {
		t.Error("expected tree to be empty after removing its only leaf")
	}
}

func TestLeafIffBothChildrenNull(t *testing.T) {
	tree := NewTree(0.5)
	root := tree.Insert(1, types.AxisVertical)
	tree.Insert(2, types.AxisVertical)

	n := tree.Node(root)
	if n.IsLeaf() {
		t.Error("expected the split root to no longer be a leaf")
	}
	if n.first == noIndex || n.second == noIndex {
		t.Error("expected a non-leaf node to have both children set")
	}
}
