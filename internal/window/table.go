// Package window implements the window table: the authoritative registry
// of window existence, ownership, space membership, and flags (spec.md §4.1).
package window

import (
	"sync"

	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/types"
)

// maxIndexEntries bounds the per-space and per-pid index lists.
const maxIndexEntries = 64

// AXHandle is the opaque accessibility-element handle a platform backend
// attaches to an entry. The table owns its lifecycle and releases it
// exactly once, on removal or replacement.
type AXHandle interface {
	Release()
}

// Entry is one window's record in the table.
type Entry struct {
	ID      types.WindowId
	Pid     int
	SpaceID types.SpaceId
	Flags   types.WindowFlags
	AX      AXHandle

	App     string
	Title   string
	Role    string
	Subrole string
	Frame   types.Rect
}

// Table is the authoritative window registry. Zero value is not usable;
// construct with NewTable.
type Table struct {
	mu sync.RWMutex

	entries map[types.WindowId]*Entry

	// bySpace holds ordered window id lists per space; order is layout order.
	bySpace map[types.SpaceId][]types.WindowId
	// byPid holds ordered window id lists per owning process.
	byPid map[int][]types.WindowId

	focused     types.WindowId
	lastFocused types.WindowId
}

// NewTable returns an empty window table.
func NewTable() *Table {
	return &Table{
		entries: make(map[types.WindowId]*Entry),
		bySpace: make(map[types.SpaceId][]types.WindowId),
		byPid:   make(map[int][]types.WindowId),
	}
}

// Add inserts or updates an entry. If id is already present, flags and the
// AX handle are updated (releasing the old handle exactly once) and the
// indexes are reconciled if space_id or pid changed. Otherwise the entry is
// inserted and added to both indexes.
func (t *Table) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.entries[e.ID]
	if !ok {
		stored := e
		t.entries[e.ID] = &stored
		t.insertSpaceIndex(e.SpaceID, e.ID)
		t.insertIndexPid(e.Pid, e.ID)
		return
	}

	oldSpace, oldPid := existing.SpaceID, existing.Pid
	if existing.AX != nil && existing.AX != e.AX {
		existing.AX.Release()
	}

	*existing = e

	if oldSpace != e.SpaceID {
		t.removeFromSpaceIndex(oldSpace, e.ID)
		t.insertSpaceIndex(e.SpaceID, e.ID)
	}
	if oldPid != e.Pid {
		t.removeFromPidIndex(oldPid, e.ID)
		t.insertIndexPid(e.Pid, e.ID)
	}
}

// Remove deletes id from the table, returning the removed entry if present.
// Updates both indexes; clears focus if id was focused. Releases the AX
// handle.
func (t *Table) Remove(id types.WindowId) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}

	if e.AX != nil {
		e.AX.Release()
	}

	delete(t.entries, id)
	t.removeFromSpaceIndex(e.SpaceID, id)
	t.removeFromPidIndex(e.Pid, id)

	if t.focused == id {
		t.focused = 0
	}
	if t.lastFocused == id {
		t.lastFocused = 0
	}

	return *e, true
}

// MoveToSpace atomically moves id from its current space index into new
// and returns whether the move occurred (false if id is unknown or already
// in new). Inserting into a full space index drops that index's oldest id
// instead of failing, so the roll-back branch below is not taken.
func (t *Table) MoveToSpace(id types.WindowId, newSpace types.SpaceId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return false
	}
	oldSpace := e.SpaceID
	if oldSpace == newSpace {
		return false
	}

	t.removeFromSpaceIndex(oldSpace, id)
	if !t.insertSpaceIndex(newSpace, id) {
		// roll back
		t.insertSpaceIndex(oldSpace, id)
		return false
	}
	e.SpaceID = newSpace
	return true
}

// SetFocused sets the focused window id. If the previous focused id
// differs from id, it becomes last_focused_id.
func (t *Table) SetFocused(id types.WindowId) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.focused == id {
		return
	}
	t.lastFocused = t.focused
	t.focused = id
}

// Focused returns the currently focused window id (0 if none).
func (t *Table) Focused() types.WindowId {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.focused
}

// LastFocused returns the previously focused window id (0 if none).
func (t *Table) LastFocused() types.WindowId {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastFocused
}

// Get returns a copy of the entry for id.
func (t *Table) Get(id types.WindowId) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// WindowsForSpace returns the authoritative ordered list of window ids for
// a space, in layout order. The returned slice is a copy.
func (t *Table) WindowsForSpace(s types.SpaceId) []types.WindowId {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]types.WindowId(nil), t.bySpace[s]...)
}

// WindowsForPid returns the authoritative ordered list of window ids owned
// by a process. The returned slice is a copy.
func (t *Table) WindowsForPid(p int) []types.WindowId {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]types.WindowId(nil), t.byPid[p]...)
}

// TileableWindowsForSpace filters WindowsForSpace to entries with none of
// minimized, floating, or hidden set.
func (t *Table) TileableWindowsForSpace(s types.SpaceId) []types.WindowId {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := t.bySpace[s]
	out := make([]types.WindowId, 0, len(ids))
	for _, id := range ids {
		e := t.entries[id]
		if e == nil {
			continue
		}
		if e.Flags.Tileable() {
			out = append(out, id)
		}
	}
	return out
}

// SwapWindowOrder reorders a and b within their common space's list. No-op
// if the two windows belong to different spaces.
func (t *Table) SwapWindowOrder(a, b types.WindowId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ea, ok := t.entries[a]
	if !ok {
		return false
	}
	eb, ok := t.entries[b]
	if !ok {
		return false
	}
	if ea.SpaceID != eb.SpaceID {
		return false
	}

	list := t.bySpace[ea.SpaceID]
	ia, ib := indexOf(list, a), indexOf(list, b)
	if ia < 0 || ib < 0 {
		return false
	}
	list[ia], list[ib] = list[ib], list[ia]
	return true
}

func indexOf(list []types.WindowId, id types.WindowId) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// insertSpaceIndex appends id to bySpace[key] if not already present,
// enforcing the bounded-capacity policy.
func (t *Table) insertSpaceIndex(key types.SpaceId, id types.WindowId) bool {
	list := t.bySpace[key]
	if indexOf(list, id) >= 0 {
		return true
	}
	if len(list) >= maxIndexEntries {
		logging.Warn().
			Uint64("spaceId", uint64(key)).
			Int("cap", maxIndexEntries).
			Msg("window table: per-space index at capacity, dropping oldest")
		list = list[1:]
	}
	t.bySpace[key] = append(list, id)
	return true
}

func (t *Table) insertIndexPid(pid int, id types.WindowId) {
	list := t.byPid[pid]
	if indexOf(list, id) >= 0 {
		return
	}
	if len(list) >= maxIndexEntries {
		logging.Warn().
			Int("pid", pid).
			Int("cap", maxIndexEntries).
			Msg("window table: per-pid index at capacity, dropping oldest")
		list = list[1:]
	}
	t.byPid[pid] = append(list, id)
}

func (t *Table) removeFromSpaceIndex(s types.SpaceId, id types.WindowId) {
	list := t.bySpace[s]
	i := indexOf(list, id)
	if i < 0 {
		return
	}
	t.bySpace[s] = append(list[:i], list[i+1:]...)
	if len(t.bySpace[s]) == 0 {
		delete(t.bySpace, s)
	}
}

func (t *Table) removeFromPidIndex(pid int, id types.WindowId) {
	list := t.byPid[pid]
	i := indexOf(list, id)
	if i < 0 {
		return
	}
	t.byPid[pid] = append(list[:i], list[i+1:]...)
	if len(t.byPid[pid]) == 0 {
		delete(t.byPid, pid)
	}
}
