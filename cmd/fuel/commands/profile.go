// ABOUTME: CLI command to view and update the user profile
// ABOUTME: Shows the profile with its daily calorie target and merges field updates
package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/models"
)

// profileFlags maps set flags to profile keys
var profileFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"name", models.ProfileName, "Name"},
	{"age", models.ProfileAge, "Age in years"},
	{"gender", models.ProfileGender, "Gender (male, female, other)"},
	{"height", models.ProfileHeight, "Height in cm"},
	{"weight", models.ProfileWeight, "Weight in kg"},
	{"goal", models.ProfileGoal, "Goal (loss, maintain, gain)"},
	{"target-weight", models.ProfileTargetWeight, "Target weight in kg"},
	{"activity", models.ProfileActivityLevel, "Activity level (sedentary, light, moderate, very, extra)"},
	{"diet", models.ProfileDietPreference, "Diet preference (vegetarian, non-vegetarian, mixed)"},
	{"location", models.ProfileWorkoutLocation, "Workout location (gym, home, outdoor)"},
}

var (
	profileValues        = map[string]*string{}
	profileDeleteConfirm bool
)

// NewProfileCmd creates profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and manage the user profile",
		Long: `View and manage your profile.

Age, height, weight, goal and activity level drive the daily calorie
target shown by "fuel today".

Examples:
  fuel profile
  fuel profile --format json
  fuel profile set --name Sam --age 34 --height 178 --weight 82
  fuel profile set --goal loss --activity moderate`,
		RunE: runProfileShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update profile fields. Only the flags you pass are changed; invalid
values are ignored.

Examples:
  fuel profile set --weight 80.5
  fuel profile set --goal maintain --target-weight 78`,
		RunE: runProfileSet,
	}

	profileValues = map[string]*string{}
	for _, f := range profileFlags {
		v := new(string)
		profileValues[f.flag] = v
		setCmd.Flags().StringVar(v, f.flag, "", f.usage)
	}

	rmCmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete the profile and all ledger data",
		Long: `Delete the profile. Every entry and conversation belongs to it, so they
are removed as well.

WARNING: This cannot be undone.

Examples:
  fuel profile rm --confirm`,
		RunE: runProfileDelete,
	}
	rmCmd.Flags().BoolVar(&profileDeleteConfirm, "confirm", false, "Confirm the deletion")

	cmd.AddCommand(setCmd)
	cmd.AddCommand(rmCmd)

	return cmd
}

type profileView struct {
	Profile *models.Profile   `json:"profile"`
	Target  *aggregate.Target `json:"target,omitempty"`
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	profile, ok := a.Ledger.Profile()
	if !ok {
		if jsonOutput() {
			return writeJSON(cmd, profileView{})
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No profile found. Create one with: fuel profile set --name \"Your Name\"\n")
		}
		return nil
	}
	return printProfile(cmd, profile)
}

func printProfile(cmd *cobra.Command, profile *models.Profile) error {
	view := profileView{Profile: profile}
	if target, ok := aggregate.CalorieTarget(profile); ok {
		view.Target = &target
	}

	if jsonOutput() {
		return writeJSON(cmd, view)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tVALUE\n")
	fmt.Fprintf(w, "-----\t-----\n")

	text := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}
	number := func(v float64, unit string) string {
		if v <= 0 {
			return "(not set)"
		}
		return formatAmount(v) + unit
	}

	fmt.Fprintf(w, "Name\t%s\n", text(profile.Name))
	fmt.Fprintf(w, "Age\t%s\n", number(float64(profile.Age), ""))
	fmt.Fprintf(w, "Gender\t%s\n", text(profile.Gender))
	fmt.Fprintf(w, "Height\t%s\n", number(profile.Height, " cm"))
	fmt.Fprintf(w, "Weight\t%s\n", number(profile.Weight, " kg"))
	fmt.Fprintf(w, "Goal\t%s\n", text(string(profile.Goal)))
	fmt.Fprintf(w, "Target Weight\t%s\n", number(profile.TargetWeight, " kg"))
	fmt.Fprintf(w, "Activity\t%s\n", text(string(profile.ActivityLevel)))
	fmt.Fprintf(w, "Diet\t%s\n", text(string(profile.DietPreference)))
	fmt.Fprintf(w, "Location\t%s\n", text(string(profile.WorkoutLocation)))
	if view.Target != nil {
		fmt.Fprintf(w, "Daily Target\t%.0f kcal\n", view.Target.Calories)
	}
	if !profile.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Last Updated\t%s\n", formatTime(profile.UpdatedAt))
	}

	return w.Flush()
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	patch := map[string]interface{}{}
	for _, f := range profileFlags {
		if cmd.Flags().Changed(f.flag) {
			patch[f.key] = *profileValues[f.flag]
		}
	}
	if len(patch) == 0 {
		return fmt.Errorf("no fields specified. Use --name, --age, --weight, etc")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	profile, applied, err := a.Ledger.UpdateProfile(patch)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if len(applied) == 0 {
		return fmt.Errorf("no valid profile values were given")
	}

	if jsonOutput() {
		return printProfile(cmd, &profile)
	}
	if !quiet {
		sort.Strings(applied)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile updated (%s)\n", strings.Join(applied, ", "))
	}
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if !profileDeleteConfirm {
		fmt.Fprintln(cmd.OutOrStdout(), "This will delete the profile and ALL ledger data!")
		fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
		return nil
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Ledger.DeleteProfile(); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile deleted")
	}
	return nil
}
