// ABOUTME: CLI command that runs the directive protocol over free text
// ABOUTME: Reads text from arguments, a file or stdin and reports what changed
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/directive"
)

var applyFile string

// NewApplyCmd creates the apply command
func NewApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [text]",
		Short: "Apply FOOD_UPDATE and other directives from text",
		Long: `Apply ledger directives embedded in text.

Recognized lines are FOOD_UPDATE, WORKOUT_UPDATE, WEIGHT_UPDATE and
PROFILE_UPDATE. Everything else is printed back unchanged.

Examples:
  fuel apply "FOOD_UPDATE: banana:105, toast:90"
  fuel apply --file reply.txt
  pbpaste | fuel apply -`,
		RunE: runApply,
	}

	cmd.Flags().StringVarP(&applyFile, "file", "f", "", "Read text from file")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	text, err := readApplyText(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text given")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	result := directive.NewApplier(a.Ledger, a.Log).Apply(cmd.Context(), text)
	if jsonOutput() {
		return writeJSON(cmd, result)
	}
	return printResult(cmd, result)
}

func readApplyText(cmd *cobra.Command, args []string) (string, error) {
	if applyFile != "" {
		content, err := os.ReadFile(applyFile)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(content), nil
	}
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(content), nil
	}
	return strings.Join(args, " "), nil
}

// printResult shows the cleaned text followed by applied and skipped directives
func printResult(cmd *cobra.Command, result directive.Result) error {
	out := cmd.OutOrStdout()
	if text := strings.TrimSpace(result.Text); text != "" {
		fmt.Fprintln(out, text)
	}
	if quiet {
		return nil
	}

	for _, m := range result.Applied {
		fmt.Fprintf(out, "✓ %s %s\n", m.Keyword, m.Summary)
	}
	if len(result.Skipped) > 0 && verbose {
		w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SKIPPED\tSEGMENT\tREASON\n")
		for _, s := range result.Skipped {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Keyword, truncate(s.Segment, 40), s.Reason)
		}
		return w.Flush()
	}
	return nil
}
