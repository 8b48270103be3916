// Command tilewmctl is a thin control-socket client: it dumps the
// compositor bridge's state for debugging (spec.md §1 places the full
// IPC command/query surface out of scope, so this is kept minimal) and
// runs SA pattern discovery against a Mach-O file on disk.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tilewm/core/internal/output"
	"github.com/tilewm/core/internal/platform"
	"github.com/tilewm/core/internal/sa/pattern"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

var (
	socketPath string
	timeout    time.Duration
	jsonOutput bool
	noColor    bool

	errorColor = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:     "tilewmctl",
	Short:   "tilewm control-socket client",
	Version: "0.1.0",
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Dump the window and space state reported by the compositor bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		sock := platform.NewSocket(socketPath, timeout)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sock.Refresh(ctx); err != nil {
			errorColor.Fprintf(os.Stderr, "refresh failed: %v\n", err)
			return err
		}

		entries := dumpEntries(sock)
		if jsonOutput {
			return printJSON(entries)
		}
		output.PrintWindowsTable(entries)

		displays := sock.Displays()
		spaceIDs := make([]types.SpaceId, 0)
		windowCounts := make(map[types.SpaceId]int)
		for _, d := range displays {
			ids, _ := sock.DisplaySpaces(d)
			for _, id := range ids {
				spaceIDs = append(spaceIDs, id)
				ws, _ := sock.SpaceWindows(id)
				windowCounts[id] = len(ws)
			}
		}
		output.PrintSpacesTable(spaceIDs,
			func(id types.SpaceId) int { return windowCounts[id] },
			func(id types.SpaceId) types.LayoutKind { return types.LayoutBSP },
		)
		return nil
	},
}

var saDiagnoseCmd = &cobra.Command{
	Use:   "diagnose <mach-o-file>",
	Short: "Run SA pattern discovery against a Mach-O file and print the diagnostic report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		img, err := pattern.Open(data)
		if err != nil {
			return err
		}
		defer img.Close()

		report := pattern.NewDiscoverer(img).Discover()
		if jsonOutput {
			return printJSON(report.Results)
		}
		printDiagnosticReport(report)
		return nil
	},
}

func printDiagnosticReport(report pattern.Report) {
	for _, t := range pattern.AllTargets {
		res, ok := report.Results[t]
		if !ok {
			continue
		}
		if res.Found {
			fmt.Printf("%-18s FOUND   method=%-20s address=0x%x\n", t, res.Method, res.Address)
			continue
		}
		errorColor.Printf("%-18s MISSING %s\n", t, res.Suggestion)
	}
	if !report.AllFound() {
		fmt.Printf("\n%d target(s) unresolved: %v\n", len(report.Missing()), report.Missing())
	}
}

func dumpEntries(sock *platform.Socket) []window.Entry {
	var entries []window.Entry
	for _, d := range sock.Displays() {
		spaceIDs, _ := sock.DisplaySpaces(d)
		for _, spaceID := range spaceIDs {
			windowIDs, _ := sock.SpaceWindows(spaceID)
			for _, id := range windowIDs {
				frame, _ := sock.WindowFrame(id)
				pid, _ := sock.WindowOwnerPid(id)
				entries = append(entries, window.Entry{ID: id, SpaceID: spaceID, Pid: pid, Frame: frame})
			}
		}
	}
	return entries
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", platform.DefaultSocketPath, "compositor bridge socket path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
	})

	saCmd := &cobra.Command{Use: "sa", Short: "SA (scripting addition) subsystem commands"}
	saCmd.AddCommand(saDiagnoseCmd)

	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(saCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
