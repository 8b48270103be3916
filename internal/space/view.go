// Package space owns per-space View state: the layout kind, split
// preferences, and BSP tree root a space renders its tileable windows
// with (spec.md §3's View type).
package space

import (
	"sync"

	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/types"
)

const (
	minSplitRatio = 0.1
	maxSplitRatio = 0.9
)

// View is the per-space layout descriptor. Created lazily on first layout
// request for its space, destroyed with the space (spec.md §3 lifecycle).
type View struct {
	SpaceID types.SpaceId

	Kind         types.LayoutKind
	SplitAxis    types.Axis
	SplitRatio   float64
	WindowGap    float64
	Padding      float64
	AutoBalance  bool

	Tree *layout.Tree
}

// NewView returns a View with the given defaults, lazily owning a fresh
// BSP tree seeded at the given ratio.
func NewView(spaceID types.SpaceId, splitRatio, windowGap, padding float64) *View {
	splitRatio = clampRatio(splitRatio)
	return &View{
		SpaceID:    spaceID,
		Kind:       types.LayoutBSP,
		SplitAxis:  types.AxisVertical,
		SplitRatio: splitRatio,
		WindowGap:  windowGap,
		Padding:    padding,
		Tree:       layout.NewTree(splitRatio),
	}
}

func clampRatio(r float64) float64 {
	if r < minSplitRatio {
		return minSplitRatio
	}
	if r > maxSplitRatio {
		return maxSplitRatio
	}
	return r
}

// Registry owns every space's View, created lazily and destroyed with
// space removal.
type Registry struct {
	mu       sync.RWMutex
	views    map[types.SpaceId]*View
	splitRatio, windowGap, padding float64
}

// NewRegistry returns an empty view registry. The three defaults seed
// every lazily-created View.
func NewRegistry(splitRatio, windowGap, padding float64) *Registry {
	return &Registry{
		views:      make(map[types.SpaceId]*View),
		splitRatio: clampRatio(splitRatio),
		windowGap:  windowGap,
		padding:    padding,
	}
}

// Get returns the View for a space, creating it lazily if absent.
func (r *Registry) Get(spaceID types.SpaceId) *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[spaceID]; ok {
		return v
	}
	v := NewView(spaceID, r.splitRatio, r.windowGap, r.padding)
	r.views[spaceID] = v
	return v
}

// Remove destroys the View for a space, if any.
func (r *Registry) Remove(spaceID types.SpaceId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, spaceID)
}

// SpaceIDs returns every space currently owning a View, in no particular
// order. Used to prune Views for spaces the platform no longer reports.
func (r *Registry) SpaceIDs() []types.SpaceId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.SpaceId, 0, len(r.views))
	for id := range r.views {
		out = append(out, id)
	}
	return out
}

// ContentArea returns the space's bounding rect inset by padding, the
// rectangle the BSP tree's root should be bounded to.
func (v *View) ContentArea(bounds types.Rect) types.Rect {
	return bounds.Inset(v.Padding)
}
