package space

import (
	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/types"
)

// SyncWindows reconciles the View's BSP tree against the authoritative
// tileable window list for its space: windows no longer present are
// removed from the tree, and new windows are inserted. Existing windows
// keep their tree position (and hence their fences and ratios).
func (v *View) SyncWindows(ids []types.WindowId) {
	want := make(map[types.WindowId]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	have := make(map[types.WindowId]layout.NodeIndex)
	for _, leaf := range v.Tree.Leaves() {
		have[v.Tree.Node(leaf).WindowID()] = leaf
	}

	for id, leaf := range have {
		if !want[id] {
			v.Tree.Remove(leaf)
		}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			v.Tree.Insert(id, v.SplitAxis)
		}
	}
}
