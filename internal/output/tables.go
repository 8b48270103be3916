// Package output renders the window table and per-space views in a
// human-viewable form for tilewmctl's state dump — the one piece of the
// otherwise out-of-scope CLI/IPC surface (spec.md §1) worth giving a
// realistic shape, since an invisible window table is hard to debug.
package output

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// PrintWindowsTable renders the window table's entries, sorted by ID.
func PrintWindowsTable(entries []window.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "App", "Title", "Space", "Pid", "Frame", "Flags")

	for _, e := range entries {
		table.Append(
			fmt.Sprintf("%d", e.ID),
			truncate(e.App, 20),
			truncate(e.Title, 30),
			fmt.Sprintf("%d", e.SpaceID),
			fmt.Sprintf("%d", e.Pid),
			formatRect(e.Frame),
			formatFlags(e.Flags),
		)
	}

	table.Render()
}

// PrintSpacesTable renders one row per space showing its layout kind and
// window count.
func PrintSpacesTable(spaceIDs []types.SpaceId, windowCount func(types.SpaceId) int, kind func(types.SpaceId) types.LayoutKind) {
	sort.Slice(spaceIDs, func(i, j int) bool { return spaceIDs[i] < spaceIDs[j] })

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Space", "Layout", "Windows")

	for _, id := range spaceIDs {
		table.Append(fmt.Sprintf("%d", id), layoutKindString(kind(id)), fmt.Sprintf("%d", windowCount(id)))
	}

	table.Render()
}

func formatRect(r types.Rect) string {
	return fmt.Sprintf("%.0f,%.0f %.0fx%.0f", r.X, r.Y, r.Width, r.Height)
}

func formatFlags(f types.WindowFlags) string {
	var set []string
	if f.Floating {
		set = append(set, "float")
	}
	if f.Sticky {
		set = append(set, "sticky")
	}
	if f.Minimized {
		set = append(set, "min")
	}
	if f.Fullscreen {
		set = append(set, "full")
	}
	if f.Hidden {
		set = append(set, "hidden")
	}
	if len(set) == 0 {
		return "-"
	}
	out := set[0]
	for _, s := range set[1:] {
		out += "," + s
	}
	return out
}

func layoutKindString(k types.LayoutKind) string {
	switch k {
	case types.LayoutBSP:
		return "bsp"
	case types.LayoutStack:
		return "stack"
	case types.LayoutFloat:
		return "float"
	default:
		return "unknown"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
