package layout

import "github.com/tilewm/core/internal/types"

// StackBounds computes bounds for windows stacked within area, one atop
// the other (the Stack layout kind, spec.md §3's View.layout_kind).
// ratios should sum to 1.0; a nil or mismatched-length slice falls back to
// equal splits. padding is applied between adjacent windows.
func StackBounds(area types.Rect, windowCount int, ratios []float64, padding float64) []types.Rect {
	if windowCount == 0 {
		return nil
	}
	if len(ratios) != windowCount {
		ratios = equalRatios(windowCount)
	}

	totalPadding := padding * float64(windowCount-1)
	available := area.Height - totalPadding

	bounds := make([]types.Rect, windowCount)
	y := area.Y
	for i, ratio := range ratios {
		h := available * ratio
		bounds[i] = types.Rect{X: area.X, Y: y, Width: area.Width, Height: h}
		y += h + padding
	}
	return bounds
}

func equalRatios(n int) []float64 {
	if n <= 0 {
		return nil
	}
	ratio := 1.0 / float64(n)
	ratios := make([]float64, n)
	for i := range ratios {
		ratios[i] = ratio
	}
	return ratios
}

// NormalizeRatios scales ratios to sum to 1.0. An all-zero input returns
// equal ratios.
func NormalizeRatios(ratios []float64) []float64 {
	if len(ratios) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ratios {
		sum += r
	}
	if sum == 0 {
		return equalRatios(len(ratios))
	}
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = r / sum
	}
	return out
}
