package layout

import "github.com/tilewm/core/internal/types"

const (
	minRatio = 0.1
	maxRatio = 0.9
)

// fence returns the nearest ancestor internal node of leaf whose split axis
// matches direction's axis and whose area extends beyond leaf in direction
// (spec.md §4.2.3).
func (t *Tree) fence(leaf NodeIndex, direction types.Direction) (NodeIndex, bool) {
	axis := types.AxisOf(direction)
	leafArea := t.nodes[leaf].area

	idx := t.nodes[leaf].parent
	for idx != noIndex {
		n := t.nodes[idx]
		if n.axis == axis && extendsBeyond(n.area, leafArea, direction) {
			return idx, true
		}
		idx = n.parent
	}
	return noIndex, false
}

func extendsBeyond(ancestor, leaf types.Rect, direction types.Direction) bool {
	switch direction {
	case types.DirNorth:
		return ancestor.Y < leaf.Y
	case types.DirSouth:
		return ancestor.Y+ancestor.Height > leaf.Y+leaf.Height
	case types.DirWest:
		return ancestor.X < leaf.X
	case types.DirEast:
		return ancestor.X+ancestor.Width > leaf.X+leaf.Width
	default:
		return false
	}
}

// AdjustRatio adjusts leaf's fence in direction by delta, clamped to
// [0.1, 0.9]. Returns false (no change) if the adjustment would leave that
// range, or if leaf has no fence in direction.
func (t *Tree) AdjustRatio(leaf NodeIndex, direction types.Direction, delta float64) bool {
	fenceIdx, ok := t.fence(leaf, direction)
	if !ok {
		return false
	}

	n := &t.nodes[fenceIdx]
	newRatio := n.ratio + delta
	if newRatio < minRatio || newRatio > maxRatio {
		return false
	}
	n.ratio = newRatio
	t.recomputeSplit(fenceIdx)
	return true
}
