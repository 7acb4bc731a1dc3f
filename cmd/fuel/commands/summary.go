// ABOUTME: CLI commands for daily, weekly and monthly summaries
// ABOUTME: Renders totals, macro split, calorie target and period rollups
package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/aggregate"
)

var (
	summaryDate  string
	summaryMonth string
)

// NewTodayCmd creates the today command
func NewTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show totals, macro split and calorie target for a day",
		Long: `Show one day's calories eaten and burned, water, macros and how much
of the daily calorie target is left.

Examples:
  fuel today
  fuel today --date yesterday
  fuel today --format json`,
		RunE: runToday,
	}
	cmd.Flags().StringVar(&summaryDate, "date", "", "Day to summarize (YYYY-MM-DD, today, yesterday)")
	return cmd
}

// NewWeekCmd creates the week command
func NewWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the Sunday-to-Saturday week with daily averages",
		Long: `Show each day of the week containing --date (today by default) and
the averages over the days that have food or workouts logged.`,
		RunE: runWeek,
	}
	cmd.Flags().StringVar(&summaryDate, "date", "", "Any day in the week (YYYY-MM-DD, today, yesterday)")
	return cmd
}

// NewMonthCmd creates the month command
func NewMonthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the month's logged days and rollup",
		Long: `Show which days of a month have entries, with month totals, daily
averages and the highest and lowest calorie days.

Examples:
  fuel month
  fuel month --month 2026-02`,
		RunE: runMonth,
	}
	cmd.Flags().StringVar(&summaryMonth, "month", "", "Month to show (YYYY-MM, defaults to the current month)")
	return cmd
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, summaryDate)
	if err != nil {
		return err
	}
	summary := aggregate.SummarizeDay(a.Ledger.Snapshot(), day)

	if jsonOutput() {
		return writeJSON(cmd, summary)
	}

	t := summary.Totals
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t\n", day)
	fmt.Fprintf(w, "----------\t\n")
	fmt.Fprintf(w, "Eaten\t%.0f kcal (%d items)\n", t.Calories, t.FoodCount)
	fmt.Fprintf(w, "Burned\t%.0f kcal (%d workouts)\n", t.CaloriesBurned, t.WorkoutCount)
	fmt.Fprintf(w, "Net\t%.0f kcal\n", t.Net)
	fmt.Fprintf(w, "Water\t%.0f ml\n", t.WaterMl)
	fmt.Fprintf(w, "Macros\tprotein %.0fg (%.0f%%), carbs %.0fg (%.0f%%), fat %.0fg (%.0f%%)\n",
		t.Protein, summary.Breakdown.Protein,
		t.Carbs, summary.Breakdown.Carbs,
		t.Fat, summary.Breakdown.Fat)
	if summary.Target != nil && summary.Remaining != nil {
		fmt.Fprintf(w, "Target\t%.0f kcal\n", summary.Target.Calories)
		fmt.Fprintf(w, "Remaining\t%.0f kcal\n", *summary.Remaining)
	}
	return w.Flush()
}

func runWeek(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, summaryDate)
	if err != nil {
		return err
	}
	week, err := aggregate.WeeklyAverages(a.Ledger.Snapshot(), day)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd, week)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	writeTotalsHeader(w)
	for _, d := range week.Days {
		writeTotalsRow(w, d.Day, d)
	}
	avg := week.Average
	fmt.Fprintf(w, "avg (%d days)\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
		week.ActiveDays, avg.Calories, avg.CaloriesBurned, avg.Net, avg.Protein, avg.Carbs, avg.Fat, avg.WaterMl)
	return w.Flush()
}

func runMonth(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	month := a.Ledger.Now()
	if summaryMonth != "" {
		month, err = time.Parse("2006-01", summaryMonth)
		if err != nil {
			return fmt.Errorf("--month must be YYYY-MM, got %q", summaryMonth)
		}
	}

	snap := a.Ledger.Snapshot()
	calendar := aggregate.MonthlyCalendarIndex(snap, month.Month(), month.Year())
	rollup := aggregate.MonthlyRollup(snap, month.Month(), month.Year())

	if jsonOutput() {
		return writeJSON(cmd, map[string]interface{}{
			"calendar": calendar.Days(),
			"rollup":   rollup,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d days with entries\n", rollup.Month, len(calendar))
	writeCalendar(out, calendar, month)
	fmt.Fprintln(out)

	if len(rollup.Days) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeTotalsHeader(w)
	for _, d := range rollup.Days {
		writeTotalsRow(w, d.Day, d)
	}
	writeTotalsRow(w, "total", rollup.Total)
	avg := rollup.Average
	fmt.Fprintf(w, "avg (%d days)\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
		rollup.ActiveDays, avg.Calories, avg.CaloriesBurned, avg.Net, avg.Protein, avg.Carbs, avg.Fat, avg.WaterMl)
	if err := w.Flush(); err != nil {
		return err
	}

	if rollup.Highest != nil && rollup.Lowest != nil {
		fmt.Fprintf(out, "\nHighest: %s (%.0f kcal)  Lowest: %s (%.0f kcal)\n",
			rollup.Highest.Day, rollup.Highest.Calories, rollup.Lowest.Day, rollup.Lowest.Calories)
	}
	return nil
}

func writeTotalsHeader(w io.Writer) {
	fmt.Fprintf(w, "DAY\tEATEN\tBURNED\tNET\tPROTEIN\tCARBS\tFAT\tWATER\n")
	fmt.Fprintf(w, "---\t-----\t------\t---\t-------\t-----\t---\t-----\n")
}

func writeTotalsRow(w io.Writer, label string, t aggregate.Totals) {
	fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
		label, t.Calories, t.CaloriesBurned, t.Net, t.Protein, t.Carbs, t.Fat, t.WaterMl)
}

// writeCalendar prints a Sunday-first month grid with logged days starred
func writeCalendar(out io.Writer, days aggregate.DaySet, month time.Time) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	fmt.Fprintln(out, " Su  Mo  Tu  We  Th  Fr  Sa")

	var line strings.Builder
	line.WriteString(strings.Repeat("    ", int(first.Weekday())))
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		mark := " "
		if days.Has(d.Format("2006-01-02")) {
			mark = "*"
		}
		fmt.Fprintf(&line, "%s%2d ", mark, d.Day())
		if d.Weekday() == time.Saturday {
			fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
}
