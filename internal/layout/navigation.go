package layout

import "github.com/tilewm/core/internal/types"

// FindNodeInDirection returns the nearest leaf whose area lies strictly in
// direction from source's area and overlaps source on the perpendicular
// axis (spec.md §4.2.2). Distance is measured between near edges on
// direction's axis; ties break by smaller perpendicular distance, then by
// insertion order.
func (t *Tree) FindNodeInDirection(source NodeIndex, direction types.Direction) (NodeIndex, bool) {
	src := t.nodes[source]

	var best NodeIndex = noIndex
	var bestDist, bestPerp float64
	var bestOrder int

	for _, idx := range t.Leaves() {
		if idx == source {
			continue
		}
		cand := t.nodes[idx]
		if !inDirection(src.area, cand.area, direction) {
			continue
		}
		if !overlapsPerpendicular(src.area, cand.area, direction) {
			continue
		}

		dist := nearEdgeDistance(src.area, cand.area, direction)
		perp := perpendicularDistance(src.area, cand.area, direction)

		if best == noIndex ||
			dist < bestDist ||
			(dist == bestDist && perp < bestPerp) ||
			(dist == bestDist && perp == bestPerp && cand.order < bestOrder) {
			best = idx
			bestDist = dist
			bestPerp = perp
			bestOrder = cand.order
		}
	}

	if best == noIndex {
		return noIndex, false
	}
	return best, true
}

// inDirection reports whether cand lies strictly in direction from src.
func inDirection(src, cand types.Rect, direction types.Direction) bool {
	switch direction {
	case types.DirNorth:
		return cand.Y+cand.Height <= src.Y
	case types.DirSouth:
		return cand.Y >= src.Y+src.Height
	case types.DirWest:
		return cand.X+cand.Width <= src.X
	case types.DirEast:
		return cand.X >= src.X+src.Width
	default:
		return false
	}
}

// overlapsPerpendicular reports whether src and cand's projections onto the
// axis perpendicular to direction intersect.
func overlapsPerpendicular(src, cand types.Rect, direction types.Direction) bool {
	switch types.AxisOf(direction) {
	case types.AxisVertical:
		// direction is east/west; perpendicular axis is Y.
		return src.Y < cand.Y+cand.Height && cand.Y < src.Y+src.Height
	default:
		// direction is north/south; perpendicular axis is X.
		return src.X < cand.X+cand.Width && cand.X < src.X+src.Width
	}
}

func nearEdgeDistance(src, cand types.Rect, direction types.Direction) float64 {
	switch direction {
	case types.DirNorth:
		return src.Y - (cand.Y + cand.Height)
	case types.DirSouth:
		return cand.Y - (src.Y + src.Height)
	case types.DirWest:
		return src.X - (cand.X + cand.Width)
	case types.DirEast:
		return cand.X - (src.X + src.Width)
	default:
		return 0
	}
}

func perpendicularDistance(src, cand types.Rect, direction types.Direction) float64 {
	switch types.AxisOf(direction) {
	case types.AxisVertical:
		return abs(src.Center().Y - cand.Center().Y)
	default:
		return abs(src.Center().X - cand.Center().X)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
