package layout

import (
	"fmt"

	"github.com/tilewm/core/internal/types"
)

// GridRect computes the rectangle a GridSpec describes within bounds:
// splitting bounds into rows x cols cells and spanning the rectangle that
// starts at (x, y) and covers w columns and h rows (spec.md §4.2.5).
func GridRect(bounds types.Rect, g types.GridSpec) (types.Rect, error) {
	if g.Rows == 0 || g.Cols == 0 || g.W == 0 || g.H == 0 {
		return types.Rect{}, fmt.Errorf("layout: grid spec rows/cols/w/h must be non-zero, got %+v", g)
	}

	cellW := bounds.Width / float64(g.Cols)
	cellH := bounds.Height / float64(g.Rows)

	return types.Rect{
		X:      bounds.X + float64(g.X)*cellW,
		Y:      bounds.Y + float64(g.Y)*cellH,
		Width:  float64(g.W) * cellW,
		Height: float64(g.H) * cellH,
	}, nil
}

// ParseGridSpec parses a "rows:cols:x:y:w:h" string into a GridSpec,
// rejecting rows, cols, w, or h of zero.
func ParseGridSpec(s string) (types.GridSpec, error) {
	var g types.GridSpec
	n, err := fmt.Sscanf(s, "%d:%d:%d:%d:%d:%d", &g.Rows, &g.Cols, &g.X, &g.Y, &g.W, &g.H)
	if err != nil || n != 6 {
		return types.GridSpec{}, fmt.Errorf("layout: invalid grid spec %q: expected rows:cols:x:y:w:h", s)
	}
	if g.Rows == 0 || g.Cols == 0 || g.W == 0 || g.H == 0 {
		return types.GridSpec{}, fmt.Errorf("layout: grid spec %q has a zero rows/cols/w/h", s)
	}
	return g, nil
}
