package layout

import "github.com/tilewm/core/internal/types"

// Equalize sets every internal node's ratio to the tree's default ratio,
// restricted to nodes whose axis matches axis (all internal nodes if axis
// is nil). Spec.md §4.2.4.
func (t *Tree) Equalize(axis *types.Axis) {
	if t.root == noIndex {
		return
	}
	t.equalizeSubtree(t.root, axis)
	t.recomputeSplit(t.root)
}

func (t *Tree) equalizeSubtree(idx NodeIndex, axis *types.Axis) {
	n := &t.nodes[idx]
	if n.IsLeaf() {
		return
	}
	if axis == nil || n.axis == *axis {
		n.ratio = t.defaultRatio
	}
	t.equalizeSubtree(n.first, axis)
	t.equalizeSubtree(n.second, axis)
}

// Balance assigns each internal node a ratio proportional to the leaf
// count in its two subtrees along axis, so final leaf areas along that
// axis are equal. Spec.md §4.2.4.
func (t *Tree) Balance(axis *types.Axis) {
	if t.root == noIndex {
		return
	}
	t.balanceSubtree(t.root, axis)
	t.recomputeSplit(t.root)
}

func (t *Tree) balanceSubtree(idx NodeIndex, axis *types.Axis) int {
	n := &t.nodes[idx]
	if n.IsLeaf() {
		return 1
	}
	firstCount := t.balanceSubtree(n.first, axis)
	secondCount := t.balanceSubtree(n.second, axis)

	if axis == nil || n.axis == *axis {
		total := firstCount + secondCount
		if total > 0 {
			n.ratio = float64(firstCount) / float64(total)
		}
	}
	return firstCount + secondCount
}
