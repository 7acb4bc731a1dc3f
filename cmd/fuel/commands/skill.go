// ABOUTME: Install Claude Code skill for the fuel ledger
// ABOUTME: Renders the skill's tool list from the registered MCP tools and installs it

package commands

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/mcp"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

const (
	skillToolPrefix   = "mcp__fuel__"
	skillToolsMarker  = "{{tools}}"
	skillTemplatePath = "skill/SKILL.md"
)

// NewInstallSkillCmd creates the install-skill command
func NewInstallSkillCmd() *cobra.Command {
	var (
		skipConfirm bool
		printOnly   bool
		skillsDir   string
	)

	cmd := &cobra.Command{
		Use:   "install-skill",
		Short: "Install Claude Code skill",
		Long: `Install the fuel skill for Claude Code.

The skill lists every tool the fuel MCP server exposes, so Claude Code
knows when to log meals, workouts, water and weight. Re-running after an
upgrade refreshes the tool list; an installed skill that is already
current is left alone.

Examples:
  fuel install-skill
  fuel install-skill --yes
  fuel install-skill --print > SKILL.md
  fuel install-skill --dir ./skills`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := renderSkill()
			if err != nil {
				return err
			}
			if printOnly {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			return installSkill(cmd, content, skillsDir, skipConfirm)
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Write the rendered skill to stdout instead of installing it")
	cmd.Flags().StringVar(&skillsDir, "dir", "", "Skills directory (default: ~/.claude/skills)")
	return cmd
}

// renderSkill fills the embedded skill's tool section from the MCP tool definitions.
func renderSkill() ([]byte, error) {
	tmpl, err := skillFS.ReadFile(skillTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if !bytes.Contains(tmpl, []byte(skillToolsMarker)) {
		return nil, fmt.Errorf("embedded skill has no %s section", skillToolsMarker)
	}

	var tools strings.Builder
	for i, tool := range mcp.Tools() {
		if i > 0 {
			tools.WriteByte('\n')
		}
		fmt.Fprintf(&tools, "- `%s%s` - %s", skillToolPrefix, tool.Name, tool.Description)
	}
	return bytes.Replace(tmpl, []byte(skillToolsMarker), []byte(tools.String()), 1), nil
}

// missingSkillTools returns the registered tools an installed skill does not mention.
func missingSkillTools(installed []byte) []string {
	var missing []string
	for _, name := range mcp.ToolNames() {
		if !bytes.Contains(installed, []byte("`"+skillToolPrefix+name+"`")) {
			missing = append(missing, name)
		}
	}
	return missing
}

func installSkill(cmd *cobra.Command, content []byte, skillsDir string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	if skillsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		skillsDir = filepath.Join(home, ".claude", "skills")
	}
	skillDir := filepath.Join(skillsDir, "fuel")
	skillPath := filepath.Join(skillDir, "SKILL.md")
	toolCount := len(mcp.ToolNames())

	existing, err := os.ReadFile(skillPath)
	switch {
	case err == nil && bytes.Equal(existing, content):
		fmt.Fprintf(out, "✓ fuel skill is up to date (%d tools)\n", toolCount)
		return nil
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("failed to read installed skill: %w", err)
	}

	fmt.Fprintf(out, "Fuel skill for Claude Code (%d MCP tools)\n\n", toolCount)
	fmt.Fprintf(out, "Destination:\n  %s\n\n", skillPath)
	if err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		if missing := missingSkillTools(existing); len(missing) > 0 {
			fmt.Fprintf(out, "Tools missing from the installed skill: %s\n", strings.Join(missing, ", "))
		}
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		fmt.Fprint(out, "Install the fuel skill? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation cancelled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	if err := os.MkdirAll(skillDir, 0755); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, "✓ Installed fuel skill successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Add the MCP server with: fuel mcp")
	fmt.Fprintln(out, "Try asking Claude: \"I had a turkey sandwich for lunch\" or \"How many calories do I have left today?\"")
	return nil
}
