// Command tilewmd is the daemon: window table, layout engine, rule
// engine, and reconciliation loop wired against either the real
// compositor bridge or a scripted scene (spec.md §1-§5).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tilewm/core/internal/config"
	"github.com/tilewm/core/internal/lockfile"
	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/output"
	"github.com/tilewm/core/internal/platform"
	"github.com/tilewm/core/internal/reconcile"
	"github.com/tilewm/core/internal/rule"
	"github.com/tilewm/core/internal/space"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// Distinct exit statuses for the startup preconditions spec.md §6
// requires: "each failure produces a distinct exit status."
const (
	exitOK = iota
	exitConfigError
	exitLockHeld
	exitRunningAsRoot
	exitAccessibilityDenied
	exitSeparateSpacesDisabled
)

// drainInterval is the daemon's tick period, in the 100-200ms range
// spec.md §5 gives for letting applications settle between layout passes.
const drainInterval = 150 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ~/.config/tilewm/config.yaml)")
	dryRun := flag.Bool("dry-run", false, "run one reconciliation pass against a scripted scene and exit, instead of daemonizing")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	socketOverride := flag.String("socket", "", "override the compositor bridge socket path from config")
	flag.Parse()

	if err := logging.Init(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: cannot open log file: %v\n", err)
		os.Exit(exitConfigError)
	}
	defer logging.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("tilewmd: config load failed")
		os.Exit(exitConfigError)
	}
	rules, err := cfg.Rules()
	if err != nil {
		logging.Error().Err(err).Msg("tilewmd: config rules invalid")
		os.Exit(exitConfigError)
	}

	if *dryRun {
		runDryRun(cfg, rules)
		return
	}

	if os.Geteuid() == 0 {
		logging.Error().Msg("tilewmd: refusing to run as root")
		os.Exit(exitRunningAsRoot)
	}

	lockPath, err := defaultLockPath()
	if err != nil {
		logging.Error().Err(err).Msg("tilewmd: cannot determine lock file path")
		os.Exit(exitConfigError)
	}
	lock, err := lockfile.Acquire(lockPath)
	if err != nil {
		if err == lockfile.ErrHeld {
			logging.Error().Str("path", lockPath).Msg("tilewmd: another instance is already running")
			os.Exit(exitLockHeld)
		}
		logging.Error().Err(err).Msg("tilewmd: lock acquisition failed")
		os.Exit(exitConfigError)
	}
	defer lock.Release()

	socketPath := cfg.Settings.BridgeSocket
	if *socketOverride != "" {
		socketPath = *socketOverride
	}
	sock := platform.NewSocket(socketPath, 2*time.Second)
	sock.ConfigureSA(cfg.Settings.SASocket, 2*time.Second)

	if err := sock.Refresh(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("tilewmd: initial bridge refresh failed, preconditions unverified")
	} else {
		if !sock.AccessibilityGranted() {
			logging.Error().Msg("tilewmd: accessibility permission not granted")
			os.Exit(exitAccessibilityDenied)
		}
		if !sock.SeparateSpacesEnabled() {
			logging.Error().Msg("tilewmd: \"displays have separate spaces\" is disabled")
			os.Exit(exitSeparateSpacesDisabled)
		}
	}

	table := window.NewTable()
	views := space.NewRegistry(cfg.Settings.SplitRatio, cfg.Settings.WindowGap, cfg.Settings.Padding)
	registry := rule.NewRegistry()
	for _, r := range rules {
		registry.Add(r)
	}
	loop := reconcile.NewLoop(table, views, registry, sock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("socket", socketPath).Msg("tilewmd: started")
	runLoop(ctx, sock, loop, table)
	logging.Info().Msg("tilewmd: shutting down")
}

// runLoop polls the compositor bridge and drains the reconciliation loop
// until ctx is canceled. Socket I/O and layout passes are the two
// suspension points spec.md §5 names for the core's otherwise
// single-threaded scheduling model.
func runLoop(ctx context.Context, sock *platform.Socket, loop *reconcile.Loop, table *window.Table) {
	known := make(map[types.WindowId]bool)

	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, drainInterval)
			if err := sock.Refresh(tickCtx); err != nil {
				logging.Debug().Err(err).Msg("tilewmd: bridge refresh failed")
			}
			cancel()

			syncWindowTable(sock, loop, table, known)
			loop.SpaceChanged()
			loop.DisplayChanged()
			if loop.Pending() {
				loop.Drain()
			}
		}
	}
}

// syncWindowTable diffs the platform's currently reachable windows against
// the ids already known, replaying them onto the loop as WindowCreated and
// WindowDestroyed events. This is the polling stand-in for the bridge's
// Event notifications, which internal/rpc's Envelope type carries but the
// Socket backend does not subscribe to (see the doc comment on rpc.Event).
//
// App/Title/Role/Subrole are left blank: the Platform interface has no
// query for them, since supplying real values requires the Accessibility
// glue spec.md places out of scope in §1. Rules matching on those fields
// are inert against a polled scene for the same reason.
func syncWindowTable(plat platform.Platform, loop *reconcile.Loop, table *window.Table, known map[types.WindowId]bool) {
	current := make(map[types.WindowId]bool)
	for _, displayID := range plat.Displays() {
		spaceIDs, _ := plat.DisplaySpaces(displayID)
		for _, spaceID := range spaceIDs {
			windowIDs, _ := plat.SpaceWindows(spaceID)
			for _, id := range windowIDs {
				current[id] = true
			}
		}
	}

	for id := range current {
		if known[id] {
			if minimized, ok := plat.WindowMinimized(id); ok {
				if e, ok := table.Get(id); ok && e.Flags.Minimized != minimized {
					loop.WindowMinimizedChanged(id, minimized)
				}
			}
			continue
		}
		known[id] = true

		frame, _ := plat.WindowFrame(id)
		spaceID, _ := plat.WindowSpace(id)
		pid, _ := plat.WindowOwnerPid(id)
		level, _ := plat.WindowLevel(id)
		minimized, _ := plat.WindowMinimized(id)
		fullscreen, _ := plat.WindowFullscreen(id)

		flags := types.DefaultWindowFlags()
		flags.Minimized = minimized
		flags.Fullscreen = fullscreen

		loop.WindowCreated(window.Entry{
			ID:      id,
			Pid:     pid,
			SpaceID: spaceID,
			Flags:   flags,
			Frame:   frame,
		})
	}

	for id := range known {
		if !current[id] {
			delete(known, id)
			loop.WindowDestroyed(id)
		}
	}
}

func defaultLockPath() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("determine current user: %w", err)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("tilewmd_%s.lock", u.Username)), nil
}

// runDryRun seeds a scripted scene, runs one reconciliation pass against
// it, and prints the resulting window table and per-space layout — the
// offline smoke-test mode spec.md §9's Mock platform design note makes
// possible.
func runDryRun(cfg *config.Config, rules []types.Rule) {
	mock := platform.NewMock()
	display := types.DisplayId(1)
	spaceID := types.SpaceId(1)
	mock.SeedDisplay(platform.DisplayInfo{ID: display, Frame: types.Rect{Width: 1920, Height: 1080}, Spaces: []types.SpaceId{spaceID}})
	mock.SeedSpace(platform.SpaceInfo{ID: spaceID, Type: types.SpaceUser, Display: display})
	mock.SetActiveSpace(display, spaceID)
	mock.SeedWindow(platform.WindowInfo{ID: 1, SpaceID: spaceID, Pid: 100, Frame: types.Rect{Width: 800, Height: 600}})
	mock.SeedWindow(platform.WindowInfo{ID: 2, SpaceID: spaceID, Pid: 101, Frame: types.Rect{Width: 800, Height: 600}})
	mock.SeedWindow(platform.WindowInfo{ID: 3, SpaceID: spaceID, Pid: 102, Frame: types.Rect{Width: 800, Height: 600}})

	table := window.NewTable()
	views := space.NewRegistry(cfg.Settings.SplitRatio, cfg.Settings.WindowGap, cfg.Settings.Padding)
	registry := rule.NewRegistry()
	for _, r := range rules {
		registry.Add(r)
	}
	loop := reconcile.NewLoop(table, views, registry, mock)

	known := make(map[types.WindowId]bool)
	syncWindowTable(mock, loop, table, known)
	loop.DisplayChanged()
	loop.Drain()

	var entries []window.Entry
	for id := range known {
		if e, ok := table.Get(id); ok {
			entries = append(entries, e)
		}
	}
	output.PrintWindowsTable(entries)

	bounds, _ := mock.DisplayFrame(display)
	v := views.Get(spaceID)
	output.Print(output.VisualizeSpace(v.Tree, v.ContentArea(bounds), table, output.DefaultVisualizeOptions()))
}
