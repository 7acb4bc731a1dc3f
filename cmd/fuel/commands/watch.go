// ABOUTME: CLI command that prints ledger changes made by other surfaces
// ABOUTME: Runs until interrupted, one line per changed bucket
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/bus"
)

var watchBuckets []string

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes made by other surfaces",
		Long: `Print a line for every ledger change made by another surface (the HTTP
server, an MCP agent, another terminal). Stops on Ctrl-C.

Examples:
  fuel watch
  fuel watch --bucket foodEntries --bucket workouts
  fuel watch --format json`,
		RunE: runWatch,
	}

	cmd.Flags().StringArrayVar(&watchBuckets, "bucket", nil, "Only show this bucket (can be repeated)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	out := cmd.OutOrStdout()
	cancel, err := a.Ledger.Watch(ctx, func(c bus.Change) {
		mu.Lock()
		defer mu.Unlock()
		if jsonOutput() {
			line, err := json.Marshal(c)
			if err == nil {
				fmt.Fprintf(out, "%s\n", line)
			}
			return
		}
		fmt.Fprintf(out, "%s  %-14s from %s%s\n",
			c.At.In(a.Ledger.Location()).Format("15:04:05"), c.Bucket, c.Origin, describeChange(c))
	}, watchBuckets...)
	if err != nil {
		return err
	}
	defer cancel()

	if !quiet {
		fmt.Fprintf(os.Stderr, "Watching for changes as %s (Ctrl-C to stop)...\n", a.Surface.Origin())
	}
	<-ctx.Done()
	return nil
}

// describeChange summarizes the payload: record count for lists, removal
// when the bucket is gone
func describeChange(c bus.Change) string {
	if len(c.Value) == 0 {
		return ""
	}
	var items []json.RawMessage
	if err := json.Unmarshal(c.Value, &items); err == nil {
		return fmt.Sprintf(" (%d records)", len(items))
	}
	if string(c.Value) == "null" {
		return " (removed)"
	}
	return " (updated)"
}
