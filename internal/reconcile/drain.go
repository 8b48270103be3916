package reconcile

import "github.com/tilewm/core/internal/logging"

// Drain executes pending work in the fixed precedence spec.md §4.3
// mandates: app-lifecycle queues, then state validation, then
// window-space refresh, then view rebuilds, then layout passes, then
// configuration syncs. It holds the loop's lock for its entire duration,
// so it is non-preemptible within a tick; any event handler called
// concurrently blocks until Drain returns and is observed on the next
// tick.
func (l *Loop) Drain() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.flags.Any() && l.dirtySpaces.Len() == 0 {
		return
	}

	l.drainAppLifecycle()

	if l.flags.Has(FlagValidateState) {
		l.validateState()
		l.flags.Clear(FlagValidateState)
		l.flags.Clear(FlagAppFocusChanged)
	}

	if l.flags.Has(FlagSyncSpaces) {
		l.syncSpaces()
		l.flags.Clear(FlagSyncSpaces)
	}

	if l.flags.Has(FlagRefreshWindowSpaces) {
		l.refreshWindowSpaces()
		l.flags.Clear(FlagRefreshWindowSpaces)
	}

	if l.flags.Has(FlagRebuildView) {
		l.rebuildViews()
		l.flags.Clear(FlagRebuildView)
	}

	l.drainLayoutPasses()

	if l.flags.Has(FlagSyncConfig) {
		l.syncConfig()
		l.flags.Clear(FlagSyncConfig)
	}
}

func (l *Loop) drainAppLifecycle() {
	if l.flags.Has(FlagAppsLaunched) {
		for _, pid := range l.launched.Drain() {
			logging.Debug().Int("pid", pid).Msg("reconcile: app launched")
		}
		l.flags.Clear(FlagAppsLaunched)
		l.flags.Clear(FlagScanApps)
	}
	if l.flags.Has(FlagAppsTerminated) {
		for _, pid := range l.terminated.Drain() {
			for _, id := range l.table.WindowsForPid(pid) {
				if e, ok := l.table.Remove(id); ok {
					l.dirtySpaces.Add(e.SpaceID)
				}
			}
		}
		l.flags.Clear(FlagAppsTerminated)
	}
	if l.flags.Has(FlagAppsHidden) {
		l.hidden.Drain()
		l.flags.Clear(FlagAppsHidden)
	}
	if l.flags.Has(FlagAppsShown) {
		l.shown.Drain()
		l.flags.Clear(FlagAppsShown)
	}
}

// validateState checks the window table's published invariants and logs
// any violation it finds; it does not attempt repair (spec.md's invariants
// are enforced by the table's own mutation API, so a violation here would
// indicate a bug rather than a recoverable runtime condition).
func (l *Loop) validateState() {
	focused := l.table.Focused()
	if focused != 0 {
		if _, ok := l.table.Get(focused); !ok {
			logging.Warn().Uint32("windowId", uint32(focused)).Msg("reconcile: focused window missing from table")
		}
	}
}

// syncSpaces prunes Views for spaces the platform no longer reports,
// reconciling the registry's set of known spaces against reality
// (spec.md §4.3's sync_spaces flag) — distinct from refreshWindowSpaces
// and rebuildViews, which reconcile individual windows' membership
// within spaces that still exist.
func (l *Loop) syncSpaces() {
	for _, spaceID := range l.views.SpaceIDs() {
		if _, ok := l.plat.SpaceDisplay(spaceID); !ok {
			l.views.Remove(spaceID)
		}
	}
}

// refreshWindowSpaces re-asks the platform for each dirty window's current
// space and moves it in the table if it has changed underneath us. A
// window moving to a space outside the dirty set wasn't necessarily
// marked for a layout pass, so it also marks that space for a view
// rebuild ahead of the layout stage.
func (l *Loop) refreshWindowSpaces() {
	for _, spaceID := range l.dirtySpaces.order {
		for _, id := range l.table.WindowsForSpace(spaceID) {
			actual, ok := l.plat.WindowSpace(id)
			if ok && actual != spaceID {
				l.table.MoveToSpace(id, actual)
				l.dirtySpaces.Add(actual)
				l.flags.Set(FlagRebuildView)
			}
		}
	}
}

func (l *Loop) rebuildViews() {
	for _, spaceID := range l.dirtySpaces.order {
		v := l.views.Get(spaceID)
		v.SyncWindows(l.table.TileableWindowsForSpace(spaceID))
	}
}

// syncConfig is a hook for the daemon to apply a changed rule registry;
// the loop itself has no config to reload.
func (l *Loop) syncConfig() {
	logging.Debug().Msg("reconcile: config sync requested")
}
