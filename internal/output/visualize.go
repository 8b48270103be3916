package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// VisualizeOptions controls how a space's layout tree is rendered.
type VisualizeOptions struct {
	MaxWidth  int
	MaxHeight int
}

// DefaultVisualizeOptions sizes the canvas to the current terminal.
func DefaultVisualizeOptions() VisualizeOptions {
	w, h := getTerminalSize()
	return VisualizeOptions{MaxWidth: w, MaxHeight: h / 2}
}

// VisualizeSpace renders a space's layout tree as an ASCII grid scaled
// into opts' canvas, one cell per leaf labeled with its window's app name.
func VisualizeSpace(tree *layout.Tree, bounds types.Rect, table *window.Table, opts VisualizeOptions) string {
	leaves := tree.Leaves()
	if len(leaves) == 0 {
		return "(empty)\n"
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return "(no bounds)\n"
	}

	canvas := newCanvas(opts.MaxWidth, opts.MaxHeight)
	scaleX := float64(opts.MaxWidth) / bounds.Width
	scaleY := float64(opts.MaxHeight) / bounds.Height

	for _, idx := range leaves {
		n := tree.Node(idx)
		area := n.Area()
		x0 := int((area.X - bounds.X) * scaleX)
		y0 := int((area.Y - bounds.Y) * scaleY)
		x1 := int((area.X + area.Width - bounds.X) * scaleX)
		y1 := int((area.Y + area.Height - bounds.Y) * scaleY)

		label := fmt.Sprintf("%d", n.WindowID())
		if e, ok := table.Get(n.WindowID()); ok && e.App != "" {
			label = e.App
		}
		canvas.box(x0, y0, x1, y1, label)
	}

	return canvas.render()
}

// Print writes s to stdout, cyan when the terminal supports color.
func Print(s string) {
	if color.NoColor {
		fmt.Print(s)
		return
	}
	color.New(color.FgCyan).Print(s)
}

func getTerminalSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// canvas is a character grid drawn into with box() and flattened by
// render().
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = make([]rune, w)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) box(x0, y0, x1, y1 int, label string) {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for x := x0; x < x1; x++ {
		c.set(x, y0, '-')
		c.set(x, y1-1, '-')
	}
	for y := y0; y < y1; y++ {
		c.set(x0, y, '|')
		c.set(x1-1, y, '|')
	}
	c.set(x0, y0, '+')
	c.set(x1-1, y0, '+')
	c.set(x0, y1-1, '+')
	c.set(x1-1, y1-1, '+')

	mid := y0 + (y1-y0)/2
	startX := x0 + 1
	for i, r := range label {
		if startX+i >= x1-1 {
			break
		}
		c.set(startX+i, mid, r)
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
