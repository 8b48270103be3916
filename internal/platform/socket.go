package platform

import (
	"context"
	"sync"
	"time"

	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/rpc"
	"github.com/tilewm/core/internal/sa/proto"
	"github.com/tilewm/core/internal/types"
)

// DefaultSocketPath is where the compositor bridge listens.
const DefaultSocketPath = "/tmp/tilewmd-bridge.sock"

// DefaultSASocketPath is where the injected SA payload listens, per
// spec.md §6.
const DefaultSASocketPath = "/tmp/tilewmd-sa.sock"

// Socket is the real Platform backend: it talks to an out-of-process
// compositor bridge (the SkyLight/Accessibility glue spec.md places out
// of scope, per its §1 boundary note) over a Unix socket using the
// envelope protocol in internal/rpc, the same shape the teacher's
// internal/client package used to talk to its window server.
//
// Queries are answered from a cached dump refreshed on Refresh(); this
// keeps per-window/per-space query calls allocation-free and avoids a
// round trip per field, the way the teacher's server.Snapshot did.
type Socket struct {
	conn *rpc.Conn
	sa   *saSession

	mu          sync.RWMutex
	windows     map[types.WindowId]WindowInfo
	spaces      map[types.SpaceId]SpaceInfo
	displays    map[types.DisplayId]DisplayInfo
	activeSpace map[types.DisplayId]types.SpaceId
	cursor      types.Point
	focused     types.WindowId
	focusedPid  int
	saAvailable bool

	accessibilityGranted  bool
	separateSpacesEnabled bool
}

// NewSocket returns a Socket dialing socketPath. If socketPath is empty,
// DefaultSocketPath is used.
func NewSocket(socketPath string, timeout time.Duration) *Socket {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Socket{
		conn:        rpc.NewConn(socketPath, timeout),
		sa:          newSASession(DefaultSASocketPath, timeout),
		windows:     make(map[types.WindowId]WindowInfo),
		spaces:      make(map[types.SpaceId]SpaceInfo),
		displays:    make(map[types.DisplayId]DisplayInfo),
		activeSpace: make(map[types.DisplayId]types.SpaceId),
	}
}

// ConfigureSA points the SA-gated commands at a non-default control
// socket path (cfg.Settings.SASocket), replacing the DefaultSASocketPath
// session NewSocket installs.
func (s *Socket) ConfigureSA(socketPath string, timeout time.Duration) {
	s.sa = newSASession(socketPath, timeout)
}

// Refresh re-dumps the bridge's full state and replaces the cache. Call
// once per reconciliation tick before relying on query methods.
func (s *Socket) Refresh(ctx context.Context) error {
	raw, err := s.conn.Call(ctx, "dump", nil)
	if err != nil {
		return err
	}

	windows := make(map[types.WindowId]WindowInfo)
	for _, w := range asSlice(raw["windows"]) {
		info := parseWindowInfo(w)
		windows[info.ID] = info
	}

	spaces := make(map[types.SpaceId]SpaceInfo)
	displays := make(map[types.DisplayId]DisplayInfo)
	activeSpace := make(map[types.DisplayId]types.SpaceId)
	for _, d := range asSlice(raw["displays"]) {
		di, spaceIDs, active := parseDisplayInfo(d)
		displays[di.ID] = di
		for _, sid := range spaceIDs {
			spaces[sid] = SpaceInfo{ID: sid, Display: di.ID}
		}
		if active != 0 {
			activeSpace[di.ID] = active
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = windows
	s.spaces = spaces
	s.displays = displays
	s.activeSpace = activeSpace
	s.cursor = parsePoint(raw["cursor"])
	s.focused = types.WindowId(asUint32(raw["focusedWindowId"]))
	s.focusedPid = int(asFloat64(raw["focusedPid"]))
	s.saAvailable = asBool(raw["saAvailable"])
	s.accessibilityGranted = asBool(raw["accessibilityGranted"])
	s.separateSpacesEnabled = asBool(raw["separateSpacesEnabled"])
	return nil
}

// AccessibilityGranted reports whether the bridge's host process holds
// accessibility permission, per the first startup precondition in
// spec.md §6. Only meaningful after at least one Refresh.
func (s *Socket) AccessibilityGranted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessibilityGranted
}

// SeparateSpacesEnabled reports whether the host compositor's
// "displays have separate spaces" preference is on, the third startup
// precondition in spec.md §6.
func (s *Socket) SeparateSpacesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.separateSpacesEnabled
}

// --- Window queries ---

func (s *Socket) WindowFrame(id types.WindowId) (types.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.Frame, ok
}

func (s *Socket) WindowSpace(id types.WindowId) (types.SpaceId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.SpaceID, ok
}

func (s *Socket) WindowOwnerPid(id types.WindowId) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.Pid, ok
}

func (s *Socket) WindowLevel(id types.WindowId) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.Level, ok
}

func (s *Socket) WindowMinimized(id types.WindowId) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.Minimized, ok
}

func (s *Socket) WindowFullscreen(id types.WindowId) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w.Fullscreen, ok
}

// --- Window commands ---

func (s *Socket) SetWindowFrame(id types.WindowId, frame types.Rect) bool {
	return s.command("setWindowFrame", map[string]interface{}{
		"windowId": uint32(id), "x": frame.X, "y": frame.Y, "width": frame.Width, "height": frame.Height,
	})
}

func (s *Socket) SetWindowLevel(id types.WindowId, level int) bool {
	return s.command("setWindowLevel", map[string]interface{}{"windowId": uint32(id), "level": level})
}

func (s *Socket) SetWindowOpacity(id types.WindowId, alpha float64) bool {
	return s.command("setWindowOpacity", map[string]interface{}{"windowId": uint32(id), "alpha": alpha})
}

func (s *Socket) FocusWindow(id types.WindowId) bool {
	return s.command("focusWindow", map[string]interface{}{"windowId": uint32(id)})
}

func (s *Socket) MinimizeWindow(id types.WindowId) bool {
	return s.command("minimizeWindow", map[string]interface{}{"windowId": uint32(id)})
}

func (s *Socket) CloseWindow(id types.WindowId) bool {
	return s.command("closeWindow", map[string]interface{}{"windowId": uint32(id)})
}

// --- Space queries ---

func (s *Socket) SpaceType(id types.SpaceId) (types.SpaceType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[id]
	return sp.Type, ok
}

func (s *Socket) SpaceDisplay(id types.SpaceId) (types.DisplayId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[id]
	return sp.Display, ok
}

func (s *Socket) SpaceWindows(id types.SpaceId) ([]types.WindowId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.spaces[id]; !ok {
		return nil, false
	}
	var out []types.WindowId
	for wid, w := range s.windows {
		if w.SpaceID == id {
			out = append(out, wid)
		}
	}
	return out, true
}

func (s *Socket) ActiveSpaceForDisplay(id types.DisplayId) (types.SpaceId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sid, ok := s.activeSpace[id]
	return sid, ok
}

// --- Space commands (SA-gated) ---
//
// These four travel out through the SA client to the in-Dock payload
// (spec.md §2's dependency chain) instead of the compositor bridge's
// dump/command channel: the bridge has no function-pointer access to
// the private space APIs, which is exactly the capability gap the SA
// subsystem exists to close.

func (s *Socket) FocusSpace(id types.SpaceId) bool {
	if !s.SAAvailable() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), proto.ResponseTimeout)
	defer cancel()
	reply, err := s.sa.request(ctx, proto.Frame{Opcode: proto.OpSpaceFocus, Payload: proto.EncodeU64(uint64(id))})
	if err != nil {
		logging.Debug().Err(err).Msg("platform: sa focusSpace failed")
		return false
	}
	return ackOK(reply)
}

func (s *Socket) MoveWindowToSpace(window types.WindowId, space types.SpaceId) bool {
	if !s.SAAvailable() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), proto.ResponseTimeout)
	defer cancel()
	payload := proto.EncodeWindowToSpace(proto.WindowToSpaceRequest{SpaceID: uint64(space), WindowID: uint32(window)})
	reply, err := s.sa.request(ctx, proto.Frame{Opcode: proto.OpWindowToSpace, Payload: payload})
	if err != nil {
		logging.Debug().Err(err).Msg("platform: sa moveWindowToSpace failed")
		return false
	}
	return ackOK(reply)
}

func (s *Socket) CreateSpace(display types.DisplayId) (types.SpaceId, bool) {
	if !s.SAAvailable() {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), proto.ResponseTimeout)
	defer cancel()
	if caps, err := s.sa.capabilities(ctx); err != nil || !caps.Has(proto.CapSpaceCreate) {
		logging.Debug().Err(err).Msg("platform: sa createSpace capability unavailable")
		return 0, false
	}
	reply, err := s.sa.request(ctx, proto.Frame{Opcode: proto.OpSpaceCreate, Payload: proto.EncodeU64(uint64(display))})
	if err != nil {
		logging.Warn().Err(err).Msg("platform: sa createSpace failed")
		return 0, false
	}
	sid, diag, ok := proto.DecodeSpaceCreateResponse(reply.Payload)
	if !ok || diag != 0 {
		logging.Warn().Uint8("diag", uint8(diag)).Msg("platform: sa createSpace reported a diagnostic")
		return 0, false
	}
	return types.SpaceId(sid), true
}

func (s *Socket) DestroySpace(id types.SpaceId) bool {
	if !s.SAAvailable() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), proto.ResponseTimeout)
	defer cancel()
	if caps, err := s.sa.capabilities(ctx); err != nil || !caps.Has(proto.CapSpaceDestroy) {
		logging.Debug().Err(err).Msg("platform: sa destroySpace capability unavailable")
		return false
	}
	reply, err := s.sa.request(ctx, proto.Frame{Opcode: proto.OpSpaceDestroy, Payload: proto.EncodeU64(uint64(id))})
	if err != nil {
		logging.Debug().Err(err).Msg("platform: sa destroySpace failed")
		return false
	}
	return ackOK(reply)
}

// --- Display queries ---

func (s *Socket) DisplayFrame(id types.DisplayId) (types.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.displays[id]
	return d.Frame, ok
}

func (s *Socket) DisplaySpaces(id types.DisplayId) ([]types.SpaceId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.displays[id]
	return d.Spaces, ok
}

func (s *Socket) Displays() []types.DisplayId {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DisplayId, 0, len(s.displays))
	for id := range s.displays {
		out = append(out, id)
	}
	return out
}

// --- System queries ---

func (s *Socket) CursorPosition() (types.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, true
}

func (s *Socket) FocusedWindow() (types.WindowId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused, s.focused != 0
}

func (s *Socket) FocusedPid() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focusedPid, s.focusedPid != 0
}

func (s *Socket) SAAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saAvailable
}

func (s *Socket) command(method string, params map[string]interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := s.conn.Call(ctx, method, params)
	if err != nil {
		logging.Debug().Err(err).Str("method", method).Msg("platform: command failed")
		return false
	}
	return true
}

var _ Platform = (*Socket)(nil)
