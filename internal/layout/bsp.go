// Package layout implements the BSP layout tree (spec.md §4.2): insertion,
// removal, directional navigation, fence ratio adjustment, balance and
// equalize, plus the grid and stack layouts.
//
// Nodes are stored in an arena keyed by integer index rather than linked by
// pointer, so a node's parent link is an optional index instead of a
// pointer cycle (spec.md §9 design note); this also makes traversal safe
// under mutation since indices remain stable across a tree's lifetime
// except for the freed slot itself.
package layout

import "github.com/tilewm/core/internal/types"

// NodeIndex identifies a node within a Tree's arena; the first node
// allocated has index 0. Tree.root and child links use -1 to mean "absent".
type NodeIndex int

const noIndex NodeIndex = -1

// Node is either a leaf or an internal split. A leaf has both children
// absent; an internal node has both children present.
type Node struct {
	parent NodeIndex
	area   types.Rect

	// internal node fields
	axis     types.Axis
	ratio    float64
	first    NodeIndex // child occupying the ratio-proportioned first share
	second   NodeIndex

	// leaf node fields
	windowID types.WindowId
	order    int // insertion order, used as a navigation tie-break
	freed    bool
}

// IsLeaf reports whether n is a leaf (both children absent).
func (n *Node) IsLeaf() bool {
	return n.first == noIndex && n.second == noIndex
}

// WindowID returns the window assigned to a leaf node. Zero for internal
// nodes.
func (n *Node) WindowID() types.WindowId {
	return n.windowID
}

// Area returns a node's current rectangle.
func (n *Node) Area() types.Rect {
	return n.area
}

// Tree is a BSP tree over an arena of nodes.
type Tree struct {
	nodes      []Node
	root       NodeIndex
	nextOrder  int
	defaultRatio float64
}

// NewTree returns an empty tree with no leaves yet; SetBounds gives it
// its bounding area.
// defaultRatio seeds the ratio every new internal split receives
// (clamped to [0.1, 0.9]); it corresponds to the owning View's split_ratio.
func NewTree(defaultRatio float64) *Tree {
	if defaultRatio < 0.1 {
		defaultRatio = 0.1
	}
	if defaultRatio > 0.9 {
		defaultRatio = 0.9
	}
	return &Tree{root: noIndex, defaultRatio: defaultRatio}
}

// Empty reports whether the tree has no leaves.
func (t *Tree) Empty() bool {
	return t.root == noIndex
}

// Root returns the tree's root index, or false if empty.
func (t *Tree) Root() (NodeIndex, bool) {
	if t.root == noIndex {
		return noIndex, false
	}
	return t.root, true
}

// Node returns a pointer to the node at idx. Panics on an out-of-range or
// freed index, mirroring slice semantics; callers never hold onto an index
// obtained before a removal without re-validating via IsLive.
func (t *Tree) Node(idx NodeIndex) *Node {
	return &t.nodes[idx]
}

// IsLive reports whether idx still refers to a live (unfreed) node.
func (t *Tree) IsLive(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(t.nodes) && !t.nodes[idx].freed
}

// SetBounds sets the tree's overall bounding rect and recomputes every
// split's children areas from it. Callers invoke this once per layout
// pass before reading Leaves' areas.
func (t *Tree) SetBounds(area types.Rect) {
	if t.root == noIndex {
		return
	}
	t.nodes[t.root].area = area
	t.recomputeSplit(t.root)
}

func (t *Tree) alloc(n Node) NodeIndex {
	t.nodes = append(t.nodes, n)
	return NodeIndex(len(t.nodes) - 1)
}

// Leaves returns every live leaf index, in left-to-right (pre-order)
// traversal order — the order windows are assigned to leaves externally.
func (t *Tree) Leaves() []NodeIndex {
	var out []NodeIndex
	if t.root == noIndex {
		return out
	}
	t.walkLeaves(t.root, &out)
	return out
}

func (t *Tree) walkLeaves(idx NodeIndex, out *[]NodeIndex) {
	n := &t.nodes[idx]
	if n.IsLeaf() {
		*out = append(*out, idx)
		return
	}
	t.walkLeaves(n.first, out)
	t.walkLeaves(n.second, out)
}

// LeafForWindow returns the leaf holding windowID, if any.
func (t *Tree) LeafForWindow(windowID types.WindowId) (NodeIndex, bool) {
	for _, idx := range t.Leaves() {
		if t.nodes[idx].windowID == windowID {
			return idx, true
		}
	}
	return noIndex, false
}

// SwapWindowIDs exchanges the windows occupying two leaves, leaving the
// tree's topology and areas untouched. Used to move a window in a
// direction by relocating it into the neighboring leaf's position
// (spec.md §4.2.2).
func (t *Tree) SwapWindowIDs(a, b NodeIndex) {
	t.nodes[a].windowID, t.nodes[b].windowID = t.nodes[b].windowID, t.nodes[a].windowID
}

// rightmostLeaf returns the rightmost leaf in pre-order from idx, which is
// the insertion target per spec.md §4.2.1.
func (t *Tree) rightmostLeaf(idx NodeIndex) NodeIndex {
	n := &t.nodes[idx]
	if n.IsLeaf() {
		return idx
	}
	return t.rightmostLeaf(n.second)
}

// Insert adds windowID into the tree. If the tree is empty, it becomes the
// sole leaf. Otherwise the rightmost leaf in pre-order is split along axis:
// the existing occupant becomes the first child, windowID the second,
// using the tree's default ratio.
func (t *Tree) Insert(windowID types.WindowId, axis types.Axis) NodeIndex {
	order := t.nextOrder
	t.nextOrder++

	if t.root == noIndex {
		idx := t.alloc(Node{parent: noIndex, windowID: windowID, first: noIndex, second: noIndex, order: order})
		t.root = idx
		return idx
	}

	target := t.rightmostLeaf(t.root)
	return t.splitLeaf(target, windowID, axis, order)
}

func (t *Tree) splitLeaf(target NodeIndex, windowID types.WindowId, axis types.Axis, order int) NodeIndex {
	occupant := t.nodes[target]

	firstArea, secondArea := splitArea(occupant.area, axis, t.defaultRatio)

	firstIdx := t.alloc(Node{
		parent: target, area: firstArea, windowID: occupant.windowID,
		first: noIndex, second: noIndex, order: occupant.order,
	})
	secondIdx := t.alloc(Node{
		parent: target, area: secondArea, windowID: windowID,
		first: noIndex, second: noIndex, order: order,
	})

	t.nodes[target] = Node{
		parent: occupant.parent, area: occupant.area,
		axis: axis, ratio: t.defaultRatio,
		first: firstIdx, second: secondIdx,
	}

	return secondIdx
}

// splitArea divides area into two along axis at ratio (first share gets
// ratio, second gets 1-ratio). No window gap is applied, here or in
// Apply: the two halves share their dividing edge.
func splitArea(area types.Rect, axis types.Axis, ratio float64) (types.Rect, types.Rect) {
	switch axis {
	case types.AxisHorizontal:
		splitY := area.Y + area.Height*ratio
		first := types.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: splitY - area.Y}
		second := types.Rect{X: area.X, Y: splitY, Width: area.Width, Height: area.Y + area.Height - splitY}
		return first, second
	default: // AxisVertical
		splitX := area.X + area.Width*ratio
		first := types.Rect{X: area.X, Y: area.Y, Width: splitX - area.X, Height: area.Height}
		second := types.Rect{X: splitX, Y: area.Y, Width: area.X + area.Width - splitX, Height: area.Height}
		return first, second
	}
}

// Remove removes the leaf at idx. Its sibling absorbs the parent's area
// and replaces the parent in the grandparent (spec.md §4.2.1).
func (t *Tree) Remove(idx NodeIndex) {
	n := &t.nodes[idx]
	parentIdx := n.parent
	n.freed = true

	if parentIdx == noIndex {
		// idx was the root and only leaf.
		t.root = noIndex
		return
	}

	parent := &t.nodes[parentIdx]
	var siblingIdx NodeIndex
	if parent.first == idx {
		siblingIdx = parent.second
	} else {
		siblingIdx = parent.first
	}
	sibling := t.nodes[siblingIdx]

	grandparentIdx := parent.parent
	parent.freed = true

	// sibling absorbs parent's area and takes its place.
	sibling.area = parent.area
	sibling.parent = grandparentIdx
	t.nodes[siblingIdx] = sibling

	if grandparentIdx == noIndex {
		t.root = siblingIdx
		t.recomputeSplit(siblingIdx)
		return
	}

	gp := &t.nodes[grandparentIdx]
	if gp.first == parentIdx {
		gp.first = siblingIdx
	} else {
		gp.second = siblingIdx
	}
	t.recomputeSplit(grandparentIdx)
}

// recomputeSplit recomputes a node's children's areas from its own area,
// axis, and ratio, propagating down (used after Remove reparents a
// subtree, and after ratio adjustments).
func (t *Tree) recomputeSplit(idx NodeIndex) {
	n := t.nodes[idx]
	if n.IsLeaf() {
		return
	}
	first, second := splitArea(n.area, n.axis, n.ratio)
	t.nodes[n.first].area = first
	t.nodes[n.second].area = second
	t.recomputeSplit(n.first)
	t.recomputeSplit(n.second)
}
