// ABOUTME: CLI commands to export the ledger and import a previous export
// ABOUTME: Supports JSON, YAML and a read-only Markdown report
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/ledger"
)

var (
	exportType   string
	exportOutput string
	importType   string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole ledger",
		Long: `Export the profile, all entries and conversations.

JSON and YAML exports can be read back with "fuel import". Markdown is a
human-readable report grouped by day.

Examples:
  fuel export > ledger.json
  fuel export --type yaml --output ledger.yaml
  fuel export --type markdown`,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportType, "type", "t", ledger.FormatJSON, "Export type: json, yaml or markdown")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a JSON or YAML export",
		Long: `Merge a previous export into the ledger. Entries that already exist are
skipped, and the profile is only imported when none is stored.

Examples:
  fuel import ledger.json
  fuel import backup.yaml
  cat ledger.json | fuel import -`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVarP(&importType, "type", "t", "", "Input type: json or yaml (default from file extension)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := a.Ledger.WriteExport(out, exportType); err != nil {
		return err
	}
	if exportOutput != "" && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported ledger to %s\n", exportOutput)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}

	format := importType
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
		if format != ledger.FormatYAML && format != "yml" {
			format = ledger.FormatJSON
		}
	}

	data, err := ledger.ParseExport(raw, format)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	stats, err := a.Ledger.Import(data)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd, stats)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d food, %d workouts, %d water, %d weights, %d conversations",
			stats.Food, stats.Workouts, stats.Water, stats.Weights, stats.Conversations)
		if stats.Profile {
			fmt.Fprint(cmd.OutOrStdout(), " and the profile")
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
