package window

import (
	"testing"

	"github.com/tilewm/core/internal/types"
)

type fakeAX struct{ released *int }

func (f fakeAX) Release() {
	if f.released != nil {
		*f.released++
	}
}

func TestAddInsertsAndIndexes(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1})

	if got := tbl.WindowsForSpace(1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("WindowsForSpace(1) = %v, want [1]", got)
	}
	if got := tbl.WindowsForPid(100); len(got) != 1 || got[0] != 1 {
		t.Fatalf("WindowsForPid(100) = %v, want [1]", got)
	}
}

func TestAddUpdatesExistingAndReleasesOldHandle(t *testing.T) {
	tbl := NewTable()
	var released, releasedNew int
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1, AX: fakeAX{&released}})
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1, AX: fakeAX{&releasedNew}})

	if released != 1 {
		t.Errorf("expected old AX handle released exactly once, got %d releases", released)
	}
}

func TestAddReconcilesIndexesOnSpaceChange(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1})
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 2})

	if got := tbl.WindowsForSpace(1); len(got) != 0 {
		t.Errorf("expected window removed from old space index, got %v", got)
	}
	if got := tbl.WindowsForSpace(2); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected window present in new space index, got %v", got)
	}
}

func TestRemoveClearsFocusAndReleasesHandle(t *testing.T) {
	tbl := NewTable()
	var released int
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1, AX: fakeAX{&released}})
	tbl.SetFocused(1)

	e, ok := tbl.Remove(1)
	if !ok {
		t.Fatal("expected Remove to report the entry existed")
	}
	if e.ID != 1 {
		t.Errorf("Remove returned entry %+v, want ID 1", e)
	}
	if released != 1 {
		t.Errorf("expected AX handle released once, got %d", released)
	}
	if tbl.Focused() != 0 {
		t.Errorf("expected focus cleared after removing focused window, got %v", tbl.Focused())
	}
}

func TestMoveToSpaceUpdatesBothIndexes(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1})

	if !tbl.MoveToSpace(1, 2) {
		t.Fatal("expected move to succeed")
	}
	if got := tbl.WindowsForSpace(1); len(got) != 0 {
		t.Errorf("expected window removed from space 1, got %v", got)
	}
	if got := tbl.WindowsForSpace(2); len(got) != 1 {
		t.Errorf("expected window present in space 2, got %v", got)
	}
	e, _ := tbl.Get(1)
	if e.SpaceID != 2 {
		t.Errorf("expected entry.SpaceID updated to 2, got %v", e.SpaceID)
	}
}

func TestMoveToSpaceNoOpWhenUnchanged(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, Pid: 100, SpaceID: 1})

	if tbl.MoveToSpace(1, 1) {
		t.Error("expected MoveToSpace to report no move when space is unchanged")
	}
}

func TestSetFocusedTracksLastFocused(t *testing.T) {
	tbl := NewTable()
	tbl.SetFocused(1)
	tbl.SetFocused(2)

	if tbl.Focused() != 2 {
		t.Errorf("Focused() = %v, want 2", tbl.Focused())
	}
	if tbl.LastFocused() != 1 {
		t.Errorf("LastFocused() = %v, want 1", tbl.LastFocused())
	}
}

func TestTileableWindowsForSpaceFiltersFlags(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, SpaceID: 1})
	tbl.Add(Entry{ID: 2, SpaceID: 1, Flags: types.WindowFlags{Minimized: true}})
	tbl.Add(Entry{ID: 3, SpaceID: 1, Flags: types.WindowFlags{Floating: true}})
	tbl.Add(Entry{ID: 4, SpaceID: 1, Flags: types.WindowFlags{Hidden: true}})

	got := tbl.TileableWindowsForSpace(1)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("TileableWindowsForSpace(1) = %v, want [1]", got)
	}
}

func TestSwapWindowOrderReordersCommonSpace(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, SpaceID: 1})
	tbl.Add(Entry{ID: 2, SpaceID: 1})

	if !tbl.SwapWindowOrder(1, 2) {
		t.Fatal("expected swap to succeed")
	}
	got := tbl.WindowsForSpace(1)
	if got[0] != 2 || got[1] != 1 {
		t.Errorf("WindowsForSpace(1) after swap = %v, want [2 1]", got)
	}
}

func TestSwapWindowOrderNoOpAcrossSpaces(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Entry{ID: 1, SpaceID: 1})
	tbl.Add(Entry{ID: 2, SpaceID: 2})

	if tbl.SwapWindowOrder(1, 2) {
		t.Error("expected swap across different spaces to be a no-op")
	}
}

func TestPerSpaceIndexIsBounded(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < maxIndexEntries+10; i++ {
		tbl.Add(Entry{ID: types.WindowId(i + 1), SpaceID: 1})
	}

	got := tbl.WindowsForSpace(1)
	if len(got) != maxIndexEntries {
		t.Errorf("WindowsForSpace(1) length = %d, want %d", len(got), maxIndexEntries)
	}
}
