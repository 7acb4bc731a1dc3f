// ABOUTME: Tests for version command
// ABOUTME: Verifies build info plus the export format, MCP tools and directive keywords

package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/mcp"
)

func keepVersionInfo(t *testing.T) {
	t.Helper()
	original := versionInfo
	t.Cleanup(func() { versionInfo = original })
}

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
}

func TestVersionCmd_Output(t *testing.T) {
	keepVersionInfo(t)
	SetVersion("1.2.3", "abc123", "2026-01-31")

	cmd := NewVersionCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	outputStr := output.String()
	expectedParts := []string{
		"fuel 1.2.3",
		"Commit:     abc123",
		"Built:      2026-01-31",
		"Export:     v" + ledger.ExportVersion,
		"Directives: FOOD_UPDATE, WORKOUT_UPDATE, WEIGHT_UPDATE, PROFILE_UPDATE",
	}
	for _, expected := range expectedParts {
		if !strings.Contains(outputStr, expected) {
			t.Errorf("Output should contain %q, got:\n%s", expected, outputStr)
		}
	}
}

func TestVersionCmd_CountsRegisteredTools(t *testing.T) {
	out, err := runFuel(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	want := "MCP tools:  10"
	if len(mcp.ToolNames()) != 10 {
		t.Fatalf("expected 10 registered MCP tools, got %v", mcp.ToolNames())
	}
	if !strings.Contains(out, want) {
		t.Errorf("output should contain %q, got:\n%s", want, out)
	}
}

func TestSetVersion(t *testing.T) {
	keepVersionInfo(t)

	testCases := []struct {
		version string
		commit  string
		date    string
	}{
		{"1.0.0", "deadbeef", "2026-01-01"},
		{"dev", "none", "unknown"},
		{"2.0.0-beta", "1234567890abcdef", "2026-06-15T10:30:00Z"},
	}

	for _, tc := range testCases {
		t.Run(tc.version, func(t *testing.T) {
			SetVersion(tc.version, tc.commit, tc.date)

			want := VersionInfo{Version: tc.version, Commit: tc.commit, Date: tc.date}
			if versionInfo != want {
				t.Errorf("versionInfo = %+v, want %+v", versionInfo, want)
			}
		})
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	keepVersionInfo(t)
	SetVersion("0.4.0", "cafe", "2026-03-01")

	out, err := runFuel(t, "--format", "json", "version")
	if err != nil {
		t.Fatalf("version --format json error = %v", err)
	}

	var report struct {
		Version      string   `json:"version"`
		Commit       string   `json:"commit"`
		ExportFormat string   `json:"exportFormat"`
		MCPTools     []string `json:"mcpTools"`
		Directives   []string `json:"directives"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode %q: %v", out, err)
	}
	if report.Version != "0.4.0" || report.Commit != "cafe" {
		t.Errorf("build = %s/%s, want 0.4.0/cafe", report.Version, report.Commit)
	}
	if report.ExportFormat != ledger.ExportVersion {
		t.Errorf("exportFormat = %q, want %q", report.ExportFormat, ledger.ExportVersion)
	}
	if strings.Join(report.MCPTools, ",") != strings.Join(mcp.ToolNames(), ",") {
		t.Errorf("mcpTools = %v, want %v", report.MCPTools, mcp.ToolNames())
	}
	if len(report.Directives) != 4 || report.Directives[0] != "FOOD_UPDATE" {
		t.Errorf("directives = %v", report.Directives)
	}
}
