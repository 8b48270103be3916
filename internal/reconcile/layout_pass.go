package reconcile

import (
	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/types"
)

// drainLayoutPasses runs layout against every dirty space or, if
// layout_all is set, against the currently visible space on every
// display, then clears the corresponding flags on success (spec.md §4.3).
func (l *Loop) drainLayoutPasses() {
	if !l.flags.Has(FlagLayoutCurrent) && !l.flags.Has(FlagLayoutAll) {
		return
	}

	spaces := l.spacesToLayout()
	for _, spaceID := range spaces {
		l.layoutSpace(spaceID)
	}

	l.dirtySpaces.Drain()
	l.flags.Clear(FlagLayoutCurrent)
	l.flags.Clear(FlagLayoutAll)
}

func (l *Loop) spacesToLayout() []types.SpaceId {
	if l.flags.Has(FlagLayoutAll) {
		var out []types.SpaceId
		for _, d := range l.plat.Displays() {
			if s, ok := l.plat.ActiveSpaceForDisplay(d); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return append([]types.SpaceId(nil), l.dirtySpaces.order...)
}

func (l *Loop) layoutSpace(spaceID types.SpaceId) {
	displayID, ok := l.plat.SpaceDisplay(spaceID)
	if !ok {
		return
	}
	bounds, ok := l.plat.DisplayFrame(displayID)
	if !ok {
		return
	}

	v := l.views.Get(spaceID)
	tileable := l.table.TileableWindowsForSpace(spaceID)
	v.SyncWindows(tileable)

	if v.Tree.Empty() {
		return
	}

	v.Tree.SetBounds(v.ContentArea(bounds))
	placements := v.Tree.Placements(tileable)

	logging.Debug().
		Uint64("spaceId", uint64(spaceID)).
		Int("windowCount", len(placements)).
		Msg("reconcile: applying layout pass")

	layout.Apply(l.plat, placements)
}
