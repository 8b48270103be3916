package layout

import (
	"time"

	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/platform"
	"github.com/tilewm/core/internal/types"
)

// SettleDelay is the pause between the two application passes (spec.md
// §4.2.6's ~100-200ms window to defeat applications that resist
// programmatic resize). A var, not a const, so tests can shrink it.
var SettleDelay = 150 * time.Millisecond

// Placement pairs a window with its computed target frame.
type Placement struct {
	WindowID types.WindowId
	Frame    types.Rect
}

// Placements walks the tree's leaves in order and zips them against
// windowIDs, producing one placement per leaf. Leaves beyond len(windowIDs)
// are ignored; windowIDs beyond the leaf count are dropped (the caller owns
// keeping the tree's leaf count in sync with its tileable window list).
func (t *Tree) Placements(windowIDs []types.WindowId) []Placement {
	leaves := t.Leaves()
	n := len(leaves)
	if len(windowIDs) < n {
		n = len(windowIDs)
	}

	out := make([]Placement, n)
	for i := 0; i < n; i++ {
		out[i] = Placement{WindowID: windowIDs[i], Frame: t.nodes[leaves[i]].area}
	}
	return out
}

// Apply pushes placements to p, waits SettleDelay, then re-reads each
// window's observed frame; any window whose frame disagrees with its
// target is re-issued once more (spec.md §4.2.6). It never blocks past the
// settle delay regardless of individual command failures.
func Apply(p platform.Platform, placements []Placement) {
	applyPass(p, placements)

	time.Sleep(SettleDelay)

	var stragglers []Placement
	for _, pl := range placements {
		observed, ok := p.WindowFrame(pl.WindowID)
		if !ok || !framesAgree(observed, pl.Frame) {
			stragglers = append(stragglers, pl)
		}
	}
	if len(stragglers) > 0 {
		logging.Debug().Int("count", len(stragglers)).Msg("layout: re-applying frames that missed their target")
		applyPass(p, stragglers)
	}
}

func applyPass(p platform.Platform, placements []Placement) {
	for _, pl := range placements {
		if !p.SetWindowFrame(pl.WindowID, pl.Frame) {
			logging.Warn().Uint32("windowId", uint32(pl.WindowID)).Msg("layout: set frame command failed")
		}
	}
}

const frameEpsilon = 0.5

func framesAgree(a, b types.Rect) bool {
	return abs(a.X-b.X) < frameEpsilon &&
		abs(a.Y-b.Y) < frameEpsilon &&
		abs(a.Width-b.Width) < frameEpsilon &&
		abs(a.Height-b.Height) < frameEpsilon
}
