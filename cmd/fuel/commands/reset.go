// ABOUTME: CLI command that deletes every ledger bucket
// ABOUTME: Requires --confirm so a stray invocation does nothing
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirm bool

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all ledger data",
		Long: `Delete the profile, every food, workout, water and weight entry and all
conversations. Other surfaces are notified of the removal.

WARNING: This cannot be undone. Run "fuel export" first to keep a copy.`,
		RunE: runReset,
	}

	cmd.Flags().BoolVar(&resetConfirm, "confirm", false, "Confirm the reset")

	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL ledger data!")
		fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
		return nil
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Ledger.ResetAll(); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Ledger reset")
	}
	return nil
}
