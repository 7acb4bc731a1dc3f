// ABOUTME: Root command for the fuel CLI with global output flags
// ABOUTME: Registers every subcommand and owns the shared verbose/quiet/format state
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Output formats accepted by --format
const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗██╗   ██╗███████╗██╗
██╔════╝██║   ██║██╔════╝██║
█████╗  ██║   ██║█████╗  ██║
██╔══╝  ██║   ██║██╔══╝  ██║
██║     ╚██████╔╝███████╗███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Local nutrition ledger",
		Long: banner + `

Log food, workouts, water and body weight to a local ledger and see
daily, weekly and monthly totals. Every surface (this CLI, the HTTP
server, MCP agents) shares the same ledger and hears each other's
changes.

Examples:
  fuel food add "oatmeal" --calories 300 --protein 10
  fuel today
  fuel week --format json
  fuel chat "had a chicken salad for lunch"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !containsString([]string{formatAuto, formatTable, formatJSON}, outputFormat) {
				return fmt.Errorf("--format must be auto, table or json, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logs on stderr)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress confirmations")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", formatAuto, "Output format: auto, table or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewFoodCmd())
	cmd.AddCommand(NewWorkoutCmd())
	cmd.AddCommand(NewWaterCmd())
	cmd.AddCommand(NewWeightCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewTodayCmd())
	cmd.AddCommand(NewWeekCmd())
	cmd.AddCommand(NewMonthCmd())
	cmd.AddCommand(NewApplyCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewConversationsCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewResetCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewInstallSkillCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
