package platform

import (
	"sync"

	"github.com/tilewm/core/internal/types"
)

// Mock is a scripted-scene Platform backend: it answers queries from
// entries the test seeds ahead of time and records every command it
// receives, without touching any real compositor (spec.md §9 design note).
// Used by every core package's tests.
type Mock struct {
	mu sync.RWMutex

	windows  map[types.WindowId]*WindowInfo
	spaces   map[types.SpaceId]*SpaceInfo
	displays map[types.DisplayId]*DisplayInfo

	activeSpace map[types.DisplayId]types.SpaceId
	cursor      types.Point
	focused     types.WindowId
	focusedPid  int
	saAvailable bool

	nextSpaceID types.SpaceId

	Commands []Command
}

// Command records one command invocation the Mock received.
type Command struct {
	Name string
	Args []interface{}
}

// NewMock returns an empty scripted-scene backend. SA is reported
// available by default; call SetSAAvailable(false) to exercise the
// SA-unavailable failure path.
func NewMock() *Mock {
	return &Mock{
		windows:     make(map[types.WindowId]*WindowInfo),
		spaces:      make(map[types.SpaceId]*SpaceInfo),
		displays:    make(map[types.DisplayId]*DisplayInfo),
		activeSpace: make(map[types.DisplayId]types.SpaceId),
		saAvailable: true,
		nextSpaceID: 1000,
	}
}

// SeedWindow adds or replaces a window in the scripted scene.
func (m *Mock) SeedWindow(w WindowInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[w.ID] = &w
}

// SeedSpace adds or replaces a space in the scripted scene.
func (m *Mock) SeedSpace(s SpaceInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[s.ID] = &s
}

// SeedDisplay adds or replaces a display in the scripted scene.
func (m *Mock) SeedDisplay(d DisplayInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displays[d.ID] = &d
}

// SetActiveSpace seeds the active space for a display.
func (m *Mock) SetActiveSpace(display types.DisplayId, space types.SpaceId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeSpace[display] = space
}

// SetSAAvailable controls whether SA-gated commands succeed.
func (m *Mock) SetSAAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saAvailable = available
}

func (m *Mock) record(name string, args ...interface{}) {
	m.Commands = append(m.Commands, Command{Name: name, Args: args})
}

// --- Window queries ---

func (m *Mock) WindowFrame(id types.WindowId) (types.Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return types.Rect{}, false
	}
	return w.Frame, true
}

func (m *Mock) WindowSpace(id types.WindowId) (types.SpaceId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return 0, false
	}
	return w.SpaceID, true
}

func (m *Mock) WindowOwnerPid(id types.WindowId) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return 0, false
	}
	return w.Pid, true
}

func (m *Mock) WindowLevel(id types.WindowId) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return 0, false
	}
	return w.Level, true
}

func (m *Mock) WindowMinimized(id types.WindowId) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return false, false
	}
	return w.Minimized, true
}

func (m *Mock) WindowFullscreen(id types.WindowId) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return false, false
	}
	return w.Fullscreen, true
}

// --- Window commands ---

func (m *Mock) SetWindowFrame(id types.WindowId, frame types.Rect) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetWindowFrame", id, frame)
	w, ok := m.windows[id]
	if !ok {
		return false
	}
	w.Frame = frame
	return true
}

func (m *Mock) SetWindowLevel(id types.WindowId, level int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetWindowLevel", id, level)
	w, ok := m.windows[id]
	if !ok {
		return false
	}
	w.Level = level
	return true
}

func (m *Mock) SetWindowOpacity(id types.WindowId, alpha float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetWindowOpacity", id, alpha)
	_, ok := m.windows[id]
	return ok
}

func (m *Mock) FocusWindow(id types.WindowId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FocusWindow", id)
	if _, ok := m.windows[id]; !ok {
		return false
	}
	m.focused = id
	return true
}

func (m *Mock) MinimizeWindow(id types.WindowId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MinimizeWindow", id)
	w, ok := m.windows[id]
	if !ok {
		return false
	}
	w.Minimized = true
	return true
}

func (m *Mock) CloseWindow(id types.WindowId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CloseWindow", id)
	if _, ok := m.windows[id]; !ok {
		return false
	}
	delete(m.windows, id)
	return true
}

// --- Space queries ---

func (m *Mock) SpaceType(id types.SpaceId) (types.SpaceType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spaces[id]
	if !ok {
		return 0, false
	}
	return s.Type, true
}

func (m *Mock) SpaceDisplay(id types.SpaceId) (types.DisplayId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spaces[id]
	if !ok {
		return 0, false
	}
	return s.Display, true
}

func (m *Mock) SpaceWindows(id types.SpaceId) ([]types.WindowId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spaces[id]
	if !ok {
		return nil, false
	}
	return append([]types.WindowId(nil), s.Windows...), true
}

func (m *Mock) ActiveSpaceForDisplay(id types.DisplayId) (types.SpaceId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.activeSpace[id]
	return s, ok
}

// --- Space commands (SA-gated) ---

func (m *Mock) FocusSpace(id types.SpaceId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FocusSpace", id)
	s, ok := m.spaces[id]
	if !ok {
		return false
	}
	m.activeSpace[s.Display] = id
	return true
}

func (m *Mock) MoveWindowToSpace(window types.WindowId, space types.SpaceId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MoveWindowToSpace", window, space)
	if !m.saAvailable {
		return false
	}
	w, ok := m.windows[window]
	if !ok {
		return false
	}
	if _, ok := m.spaces[space]; !ok {
		return false
	}
	w.SpaceID = space
	return true
}

func (m *Mock) CreateSpace(display types.DisplayId) (types.SpaceId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateSpace", display)
	if !m.saAvailable {
		return 0, false
	}
	if _, ok := m.displays[display]; !ok {
		return 0, false
	}
	id := m.nextSpaceID
	m.nextSpaceID++
	m.spaces[id] = &SpaceInfo{ID: id, Type: types.SpaceUser, Display: display}
	return id, true
}

func (m *Mock) DestroySpace(id types.SpaceId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DestroySpace", id)
	if !m.saAvailable {
		return false
	}
	if _, ok := m.spaces[id]; !ok {
		return false
	}
	delete(m.spaces, id)
	return true
}

// --- Display queries ---

func (m *Mock) DisplayFrame(id types.DisplayId) (types.Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.displays[id]
	if !ok {
		return types.Rect{}, false
	}
	return d.Frame, true
}

func (m *Mock) DisplaySpaces(id types.DisplayId) ([]types.SpaceId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.displays[id]
	if !ok {
		return nil, false
	}
	return append([]types.SpaceId(nil), d.Spaces...), true
}

func (m *Mock) Displays() []types.DisplayId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.DisplayId, 0, len(m.displays))
	for id := range m.displays {
		out = append(out, id)
	}
	return out
}

// --- System queries ---

func (m *Mock) CursorPosition() (types.Point, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursor, true
}

// SetCursorPosition seeds the cursor position queries return.
func (m *Mock) SetCursorPosition(p types.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = p
}

func (m *Mock) FocusedWindow() (types.WindowId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.focused == 0 {
		return 0, false
	}
	return m.focused, true
}

func (m *Mock) FocusedPid() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.focusedPid == 0 {
		return 0, false
	}
	return m.focusedPid, true
}

// SAAvailable reports whether the scripted scene simulates SA as reachable.
func (m *Mock) SAAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saAvailable
}

var _ Platform = (*Mock)(nil)
