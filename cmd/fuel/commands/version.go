// ABOUTME: Version command to display build and ledger format information
// ABOUTME: Reports the build, export format, MCP tools and directive keywords the binary speaks
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/directive"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/mcp"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// versionReport is what "fuel version" prints: the build plus the formats
// another surface or an older export must agree with.
type versionReport struct {
	VersionInfo
	ExportFormat string   `json:"exportFormat"`
	MCPTools     []string `json:"mcpTools"`
	Directives   []string `json:"directives"`
}

// SetVersion sets the version information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

func currentVersionReport() versionReport {
	keywords := make([]string, len(directive.Keywords))
	for i, kw := range directive.Keywords {
		keywords[i] = string(kw)
	}
	return versionReport{
		VersionInfo:  versionInfo,
		ExportFormat: ledger.ExportVersion,
		MCPTools:     mcp.ToolNames(),
		Directives:   keywords,
	}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the build version, commit and date, along with the export
format version, the MCP tools and the directive keywords this binary
understands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := currentVersionReport()
			if jsonOutput() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fuel %s\n", report.Version)
			fmt.Fprintf(out, "Commit:     %s\n", report.Commit)
			fmt.Fprintf(out, "Built:      %s\n", report.Date)
			fmt.Fprintf(out, "Export:     v%s\n", report.ExportFormat)
			fmt.Fprintf(out, "MCP tools:  %d\n", len(report.MCPTools))
			fmt.Fprintf(out, "Directives: %s\n", strings.Join(report.Directives, ", "))
			return nil
		},
	}

	return cmd
}
