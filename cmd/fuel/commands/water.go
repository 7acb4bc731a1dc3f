// ABOUTME: CLI commands to add, list and remove water intake
// ABOUTME: Amounts are in millilitres, one glass when omitted
package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

var waterDate string

// NewWaterCmd creates the water command group
func NewWaterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Log and review water intake",
		Long: `Log and review water intake in millilitres.

Examples:
  fuel water add
  fuel water add 500
  fuel water list --date 2026-03-01`,
	}

	addCmd := &cobra.Command{
		Use:   "add [ml]",
		Short: "Log a drink of water (250 ml by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWaterAdd,
	}
	addCmd.Flags().StringVar(&waterDate, "date", "", "Day to log against (YYYY-MM-DD, today, yesterday)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List water intake for a day",
		RunE:  runWaterList,
	}
	listCmd.Flags().StringVar(&waterDate, "date", "", "Day to list (YYYY-MM-DD, today, yesterday)")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newRemoveCmd(ledger.KindWater))

	return cmd
}

func runWaterAdd(cmd *cobra.Command, args []string) error {
	amount := models.DefaultWaterMl
	if len(args) == 1 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("amount must be a positive number of ml, got %q", args[0])
		}
		amount = v
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, waterDate)
	if err != nil {
		return err
	}
	createdAt, err := entryTime(a.Ledger, day)
	if err != nil {
		return err
	}

	saved, err := a.Ledger.AddWater(models.WaterEntry{Amount: amount, CreatedAt: createdAt})
	if err != nil {
		return fmt.Errorf("logging water: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd, saved)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s ml of water [%s]\n", formatAmount(saved.Amount), saved.ID)
	}
	return nil
}

func runWaterList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, waterDate)
	if err != nil {
		return err
	}
	entries, err := a.Ledger.WaterForDay(day)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No water logged on %s\n", day)
		}
		return nil
	}

	var total float64
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTIME\tML\n")
	fmt.Fprintf(w, "--\t----\t--\n")
	for _, e := range entries {
		total += e.Amount
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.CreatedAt.In(a.Ledger.Location()).Format("15:04"), formatAmount(e.Amount))
	}
	fmt.Fprintf(w, "\tTotal\t%s\n", formatAmount(total))
	return w.Flush()
}
