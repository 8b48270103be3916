package output

import (
	"strings"
	"testing"

	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

func TestVisualizeSpaceReportsEmptyTree(t *testing.T) {
	tree := layout.NewTree(0.5)
	tbl := window.NewTable()
	got := VisualizeSpace(tree, types.Rect{Width: 100, Height: 100}, tbl, DefaultVisualizeOptions())
	if got != "(empty)\n" {
		t.Errorf("expected the empty-tree message, got %q", got)
	}
}

func TestVisualizeSpaceDrawsOneBoxPerLeaf(t *testing.T) {
	tree := layout.NewTree(0.5)
	tree.Insert(1, types.AxisVertical)
	tree.Insert(2, types.AxisVertical)
	tree.SetBounds(types.Rect{X: 0, Y: 0, Width: 100, Height: 40})

	tbl := window.NewTable()
	tbl.Add(window.Entry{ID: 1, App: "Alpha"})
	tbl.Add(window.Entry{ID: 2, App: "Beta"})

	got := VisualizeSpace(tree, types.Rect{X: 0, Y: 0, Width: 100, Height: 40}, tbl, VisualizeOptions{MaxWidth: 40, MaxHeight: 10})
	if !strings.Contains(got, "Alpha") || !strings.Contains(got, "Beta") {
		t.Errorf("expected both app labels in the rendered canvas:\n%s", got)
	}
}

func TestCanvasBoxDrawsBorders(t *testing.T) {
	c := newCanvas(10, 5)
	c.box(0, 0, 10, 5, "x")
	out := c.render()
	if !strings.HasPrefix(out, "+--------+") {
		t.Errorf("expected a top border, got %q", out)
	}
}
