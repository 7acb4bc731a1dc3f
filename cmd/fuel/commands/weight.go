// ABOUTME: CLI commands to record, list and remove body weight
// ABOUTME: One weight per day; setting it again overwrites the day's value
package commands

import (
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

var (
	weightDate string
	weightFrom string
	weightTo   string
)

// NewWeightCmd creates the weight command group
func NewWeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Record and review body weight",
		Long: `Record and review body weight in kilograms.

Examples:
  fuel weight set 81.4
  fuel weight set 81.9 --date yesterday
  fuel weight list --from 2026-01-01 --to 2026-01-31`,
	}

	setCmd := &cobra.Command{
		Use:   "set [kg]",
		Short: "Record the weight for a day",
		Args:  cobra.ExactArgs(1),
		RunE:  runWeightSet,
	}
	setCmd.Flags().StringVar(&weightDate, "date", "", "Day to record (YYYY-MM-DD, today, yesterday)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded weights",
		Long: `List recorded weights, oldest first.

With --from and --to only that range is shown along with the change
between its first and last entries.`,
		RunE: runWeightList,
	}
	listCmd.Flags().StringVar(&weightFrom, "from", "", "First day of the range (YYYY-MM-DD, defaults to 30 days before --to)")
	listCmd.Flags().StringVar(&weightTo, "to", "", "Last day of the range (YYYY-MM-DD, defaults to today)")

	cmd.AddCommand(setCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newRemoveCmd(ledger.KindWeight))

	return cmd
}

func runWeightSet(cmd *cobra.Command, args []string) error {
	kg, err := strconv.ParseFloat(args[0], 64)
	if err != nil || kg <= 0 {
		return fmt.Errorf("weight must be a positive number of kg, got %q", args[0])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, weightDate)
	if err != nil {
		return err
	}
	entry, err := a.Ledger.UpsertWeight(day, kg)
	if err != nil {
		return fmt.Errorf("recording weight: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("weight must be a positive number of kg, got %q", args[0])
	}

	if jsonOutput() {
		return writeJSON(cmd, entry)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Weight on %s set to %s kg\n", entry.Date, formatAmount(entry.Weight))
	}
	return nil
}

func runWeightList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var (
		points []models.WeightEntry
		trend  *aggregate.Trend
	)
	if weightFrom != "" || weightTo != "" {
		to, err := resolveDay(a.Ledger, weightTo)
		if err != nil {
			return err
		}
		from, err := models.ShiftDay(to, -30)
		if err != nil {
			return err
		}
		if weightFrom != "" {
			if from, err = resolveDay(a.Ledger, weightFrom); err != nil {
				return err
			}
		}
		t, err := aggregate.WeightTrend(a.Ledger.Snapshot(), from, to)
		if err != nil {
			return err
		}
		trend = &t
		points = t.Points
	} else {
		points = a.Ledger.Weights()
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	}

	if jsonOutput() {
		if trend != nil {
			return writeJSON(cmd, trend)
		}
		return writeJSON(cmd, points)
	}
	if len(points) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No weights recorded")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tKG\n")
	fmt.Fprintf(w, "----\t--\n")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Date, formatAmount(p.Weight))
	}
	if trend != nil {
		fmt.Fprintf(w, "Change\t%+.1f\n", trend.Change)
	}
	return w.Flush()
}
