package space

import (
	"testing"

	"github.com/tilewm/core/internal/types"
)

func TestNewViewClampsSplitRatio(t *testing.T) {
	v := NewView(1, 0.95, 8, 4)
	if v.SplitRatio != maxSplitRatio {
		t.Errorf("expected split ratio clamped to %v, got %v", maxSplitRatio, v.SplitRatio)
	}
	v2 := NewView(1, 0.01, 8, 4)
	if v2.SplitRatio != minSplitRatio {
		t.Errorf("expected split ratio clamped to %v, got %v", minSplitRatio, v2.SplitRatio)
	}
}

func TestRegistryGetIsLazyAndIdempotent(t *testing.T) {
	r := NewRegistry(0.5, 8, 4)
	v1 := r.Get(1)
	v2 := r.Get(1)
	if v1 != v2 {
		t.Error("expected repeated Get for the same space to return the same View")
	}
}

func TestRegistryRemoveDestroysView(t *testing.T) {
	r := NewRegistry(0.5, 8, 4)
	v1 := r.Get(1)
	r.Remove(1)
	v2 := r.Get(1)
	if v1 == v2 {
		t.Error("expected Remove followed by Get to construct a fresh View")
	}
}

func TestContentAreaInsetsByPadding(t *testing.T) {
	v := NewView(1, 0.5, 8, 10)
	got := v.ContentArea(types.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	want := types.Rect{X: 10, Y: 10, Width: 80, Height: 80}
	if got != want {
		t.Errorf("ContentArea() = %+v, want %+v", got, want)
	}
}

func TestSyncWindowsInsertsAndRemoves(t *testing.T) {
	v := NewView(1, 0.5, 0, 0)
	v.SyncWindows([]types.WindowId{1, 2, 3})

	leaves := v.Tree.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves after syncing 3 windows, got %d", len(leaves))
	}

	v.SyncWindows([]types.WindowId{1, 3})
	leaves = v.Tree.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves after removing window 2, got %d", len(leaves))
	}
	for _, l := range leaves {
		if v.Tree.Node(l).WindowID() == 2 {
			t.Error("expected window 2 removed from the tree")
		}
	}
}
