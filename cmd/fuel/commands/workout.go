// ABOUTME: CLI commands to add, list and remove workouts
// ABOUTME: Burn is estimated from type and duration when not given
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

var (
	workoutMinutes  float64
	workoutCalories float64
	workoutType     string
	workoutDate     string
)

// NewWorkoutCmd creates the workout command group
func NewWorkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log and review workouts",
		Long: `Log and review workouts.

Examples:
  fuel workout add "morning run" --minutes 40
  fuel workout add "leg day" --minutes 50 --type strength --calories 320
  fuel workout list --format json`,
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Log a workout",
		Long: `Log a workout for today or --date.

The type is inferred from the name when --type is not given, and the
calories burned are estimated from type and minutes unless --calories is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWorkoutAdd,
	}
	addCmd.Flags().Float64Var(&workoutMinutes, "minutes", models.DefaultWorkoutMinutes, "Duration in minutes")
	addCmd.Flags().Float64Var(&workoutCalories, "calories", 0, "Calories burned (estimated when omitted)")
	addCmd.Flags().StringVar(&workoutType, "type", "", "Workout type (cardio, strength, yoga, sports, walking, cycling, swimming, dancing)")
	addCmd.Flags().StringVar(&workoutDate, "date", "", "Day to log against (YYYY-MM-DD, today, yesterday)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts for a day",
		RunE:  runWorkoutList,
	}
	listCmd.Flags().StringVar(&workoutDate, "date", "", "Day to list (YYYY-MM-DD, today, yesterday)")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newRemoveCmd(ledger.KindWorkout))

	return cmd
}

func runWorkoutAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, workoutDate)
	if err != nil {
		return err
	}
	createdAt, err := entryTime(a.Ledger, day)
	if err != nil {
		return err
	}

	if workoutType != "" && !models.WorkoutType(workoutType).Valid() {
		return fmt.Errorf("unknown workout type %q", workoutType)
	}

	entry := models.WorkoutEntry{
		Name:      strings.Join(args, " "),
		Duration:  workoutMinutes,
		Type:      models.WorkoutType(workoutType),
		CreatedAt: createdAt,
	}
	if cmd.Flags().Changed("calories") {
		entry.CaloriesBurned = models.Float(workoutCalories)
	}

	saved, err := a.Ledger.AddWorkout(entry)
	if err != nil {
		return fmt.Errorf("logging workout: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd, saved)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s (%s min %s, %s kcal burned) [%s]\n",
			saved.Name, formatAmount(saved.Duration), saved.Type, formatAmount(saved.Burned()), saved.ID)
	}
	return nil
}

func runWorkoutList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, workoutDate)
	if err != nil {
		return err
	}
	entries, err := a.Ledger.WorkoutsForDay(day)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No workouts logged on %s\n", day)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTYPE\tNAME\tMINUTES\tBURNED\n")
	fmt.Fprintf(w, "--\t----\t----\t-------\t------\n")
	for _, wo := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			wo.ID, wo.Type, truncate(wo.Name, 30), formatAmount(wo.Duration), formatAmount(wo.Burned()))
	}
	return w.Flush()
}
