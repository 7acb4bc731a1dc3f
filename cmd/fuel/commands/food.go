// ABOUTME: CLI commands to add, list and remove food entries
// ABOUTME: Macros are optional and imputed from calories when left out
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
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodQuantity float64
	foodUnit     string
	foodMeal     string
	foodDate     string
)

// NewFoodCmd creates the food command group
func NewFoodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Log and review food entries",
		Long: `Log and review food entries.

Examples:
  fuel food add "greek yogurt" --calories 150 --protein 15
  fuel food add toast --calories 90 --quantity 2 --unit slice --meal breakfast
  fuel food list --date yesterday
  fuel food rm 1767225600000-ab12cd34`,
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Log a food entry",
		Long: `Log a food entry for today or --date.

The meal type is inferred from the time of day unless --meal is given.
Protein, carbs and fat are optional.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFoodAdd,
	}
	addCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories (kcal)")
	addCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein in grams")
	addCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbs in grams")
	addCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat in grams")
	addCmd.Flags().Float64Var(&foodQuantity, "quantity", models.DefaultFoodQuantity, "Quantity")
	addCmd.Flags().StringVar(&foodUnit, "unit", string(models.DefaultFoodUnit), "Unit (gram, piece, cup, tablespoon, teaspoon, ml, slice, bowl, plate)")
	addCmd.Flags().StringVar(&foodMeal, "meal", "", "Meal type (breakfast, lunch, dinner, snacks, other)")
	addCmd.Flags().StringVar(&foodDate, "date", "", "Day to log against (YYYY-MM-DD, today, yesterday)")
	_ = addCmd.MarkFlagRequired("calories")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List food entries for a day",
		RunE:  runFoodList,
	}
	listCmd.Flags().StringVar(&foodDate, "date", "", "Day to list (YYYY-MM-DD, today, yesterday)")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newRemoveCmd(ledger.KindFood))

	return cmd
}

func runFoodAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, foodDate)
	if err != nil {
		return err
	}
	createdAt, err := entryTime(a.Ledger, day)
	if err != nil {
		return err
	}

	entry := models.FoodEntry{
		Name:      strings.Join(args, " "),
		Quantity:  foodQuantity,
		Unit:      models.Unit(foodUnit),
		Calories:  foodCalories,
		MealType:  models.MealType(foodMeal),
		CreatedAt: createdAt,
	}
	if cmd.Flags().Changed("protein") {
		entry.Protein = models.Float(foodProtein)
	}
	if cmd.Flags().Changed("carbs") {
		entry.Carbs = models.Float(foodCarbs)
	}
	if cmd.Flags().Changed("fat") {
		entry.Fat = models.Float(foodFat)
	}

	saved, err := a.Ledger.AddFood(entry)
	if err != nil {
		return fmt.Errorf("logging food: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd, saved)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s (%s kcal, %s) [%s]\n",
			saved.Name, formatAmount(saved.Calories), saved.MealType, saved.ID)
	}
	return nil
}

func runFoodList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	day, err := resolveDay(a.Ledger, foodDate)
	if err != nil {
		return err
	}
	entries, err := a.Ledger.FoodForDay(day)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No food logged on %s\n", day)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tMEAL\tNAME\tQTY\tKCAL\tPROTEIN\tCARBS\tFAT\n")
	fmt.Fprintf(w, "--\t----\t----\t---\t----\t-------\t-----\t---\n")
	for _, f := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			f.ID, f.MealType, truncate(f.Name, 30),
			formatAmount(f.Quantity), f.Unit,
			formatAmount(f.Calories),
			formatGrams(f.Protein), formatGrams(f.Carbs), formatGrams(f.Fat))
	}
	return w.Flush()
}

// newRemoveCmd builds the "rm" subcommand shared by every record kind
func newRemoveCmd(kind ledger.Kind) *cobra.Command {
	use, what := "rm [id]", "entry id"
	if kind == ledger.KindWeight {
		use, what = "rm [date]", "day (YYYY-MM-DD)"
	}
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Remove a %s entry", kind),
		Long:  fmt.Sprintf("Remove a %s entry by %s.", kind, what),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			removed, err := a.Ledger.Remove(kind, args[0])
			if err != nil {
				return fmt.Errorf("removing %s: %w", kind, err)
			}
			if !removed {
				return fmt.Errorf("no %s entry %q", kind, args[0])
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s %s\n", kind, args[0])
			}
			return nil
		},
	}
}
