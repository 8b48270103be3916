package reconcile

import (
	"sync"

	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/platform"
	"github.com/tilewm/core/internal/rule"
	"github.com/tilewm/core/internal/space"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// Loop coalesces compositor event bursts into minimal, idempotent layout
// work. Event handlers mutate the window table and set dirty state without
// performing layout; Drain executes pending work once per tick in a fixed
// precedence (spec.md §4.3).
type Loop struct {
	mu sync.Mutex // guards everything below; held for the whole Drain

	flags        FlagSet
	dirtySpaces  *spaceSet
	launched     *pidQueue
	terminated   *pidQueue
	hidden       *pidQueue
	shown        *pidQueue

	table *window.Table
	views *space.Registry
	rules *rule.Registry
	plat  platform.Platform
}

// NewLoop wires a reconciliation loop over the given window table, view
// registry, rule registry, and platform backend.
func NewLoop(table *window.Table, views *space.Registry, rules *rule.Registry, plat platform.Platform) *Loop {
	return &Loop{
		dirtySpaces: newSpaceSet(),
		launched:    newPidQueue(),
		terminated:  newPidQueue(),
		hidden:      newPidQueue(),
		shown:       newPidQueue(),
		table:       table,
		views:       views,
		rules:       rules,
		plat:        plat,
	}
}

// --- Event handlers: mutate state and dirty flags only, no layout work ---

func (l *Loop) WindowCreated(e window.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	effects, oneShots := l.rules.MatchAll(e.App, e.Title, e.Role, e.Subrole)
	l.applyEffects(&e, effects)
	if len(oneShots) > 0 {
		l.rules.ConsumeOneShots(oneShots)
	}

	l.table.Add(e)
	l.dirtySpaces.Add(e.SpaceID)
	l.flags.Set(FlagLayoutCurrent)
}

func (l *Loop) WindowDestroyed(id types.WindowId) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.table.Remove(id)
	if ok {
		l.dirtySpaces.Add(e.SpaceID)
	}
	l.flags.Set(FlagLayoutCurrent)
}

func (l *Loop) WindowFocused(id types.WindowId) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table.SetFocused(id)
	l.flags.Set(FlagAppFocusChanged)
	l.flags.Set(FlagValidateState)
}

func (l *Loop) WindowMovedOrResized(id types.WindowId) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.table.Get(id); ok {
		l.dirtySpaces.Add(e.SpaceID)
	}
	l.flags.Set(FlagLayoutCurrent)
}

func (l *Loop) WindowMinimizedChanged(id types.WindowId, minimized bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.table.Get(id); ok {
		e.Flags.Minimized = minimized
		l.table.Add(e)
		l.dirtySpaces.Add(e.SpaceID)
	}
	l.flags.Set(FlagLayoutCurrent)
}

func (l *Loop) SpaceChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flags.Set(FlagSyncSpaces)
	l.flags.Set(FlagRefreshWindowSpaces)
}

func (l *Loop) DisplayChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flags.Set(FlagSyncSpaces)
	l.flags.Set(FlagLayoutAll)
}

func (l *Loop) AppLaunched(pid int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched.Add(pid)
	l.flags.Set(FlagAppsLaunched)
	l.flags.Set(FlagScanApps)
}

func (l *Loop) AppTerminated(pid int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.terminated.Add(pid)
	l.flags.Set(FlagAppsTerminated)
}

func (l *Loop) AppHidden(pid int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hidden.Add(pid)
	l.flags.Set(FlagAppsHidden)
}

func (l *Loop) AppShown(pid int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shown.Add(pid)
	l.flags.Set(FlagAppsShown)
}

// ConfigChanged marks the config-sync flag dirty.
func (l *Loop) ConfigChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flags.Set(FlagSyncConfig)
}

// Pending reports whether any work is queued for the next Drain.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flags.Any() || l.dirtySpaces.Len() > 0
}
