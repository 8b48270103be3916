package platform

import "github.com/tilewm/core/internal/types"

// The bridge answers "dump" with loosely-typed JSON; these helpers mirror
// the teacher's server.Snapshot parsing (toFloat64/toString/toBool,
// object-shaped frames) since the wire format is the same kind of
// "numbers arrive as float64" JSON-over-socket data.

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func asUint32(v interface{}) uint32 {
	return uint32(asFloat64(v))
}

func asUint64(v interface{}) uint64 {
	return uint64(asFloat64(v))
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func parseRect(v interface{}) types.Rect {
	m := asMap(v)
	return types.Rect{
		X:      asFloat64(m["x"]),
		Y:      asFloat64(m["y"]),
		Width:  asFloat64(m["width"]),
		Height: asFloat64(m["height"]),
	}
}

func parsePoint(v interface{}) types.Point {
	m := asMap(v)
	return types.Point{X: asFloat64(m["x"]), Y: asFloat64(m["y"])}
}

func parseWindowInfo(v interface{}) WindowInfo {
	m := asMap(v)
	return WindowInfo{
		ID:         types.WindowId(asUint32(m["id"])),
		Frame:      parseRect(m["frame"]),
		SpaceID:    types.SpaceId(asUint64(m["spaceId"])),
		Pid:        int(asFloat64(m["pid"])),
		Level:      int(asFloat64(m["level"])),
		Minimized:  asBool(m["minimized"]),
		Fullscreen: asBool(m["fullscreen"]),
	}
}

// parseDisplayInfo returns the display, the space ids it hosts, and its
// active space (0 if none reported).
func parseDisplayInfo(v interface{}) (DisplayInfo, []types.SpaceId, types.SpaceId) {
	m := asMap(v)
	var spaceIDs []types.SpaceId
	for _, s := range asSlice(m["spaces"]) {
		spaceIDs = append(spaceIDs, types.SpaceId(asUint64(s)))
	}
	di := DisplayInfo{
		ID:     types.DisplayId(asUint32(m["id"])),
		Frame:  parseRect(m["frame"]),
		Spaces: spaceIDs,
	}
	return di, spaceIDs, types.SpaceId(asUint64(m["activeSpaceId"]))
}
