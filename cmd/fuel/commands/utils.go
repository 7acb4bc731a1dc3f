// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Opens the ledger app, resolves --date and renders values for tables and JSON
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/app"
	"github.com/harper/fuel-ledger/internal/config"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
)

// cliSurface labels this process's origin on the change bus
const cliSurface = "cli"

// openApp loads .env and the environment config, then opens the ledger
func openApp(cmd *cobra.Command) (*app.App, error) {
	return openAppAs(cmd, cliSurface)
}

// openAppAs opens the ledger as a surface of the given kind. Each process
// gets its own origin unless FUEL_SURFACE_ID pins one.
func openAppAs(cmd *cobra.Command, kind string) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.SurfaceKind = kind

	log, err := logger.New(cfg.LogMode, verbose)
	if err != nil {
		log = logger.FromEnv(verbose)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	return a, nil
}

// resolveDay turns a --date value into a calendar day. Empty means today;
// "today" and "yesterday" are accepted as well as YYYY-MM-DD.
func resolveDay(l *ledger.Ledger, value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return l.Today(), nil
	case "yesterday":
		return models.ShiftDay(l.Today(), -1)
	}
	if !models.ValidDay(value) {
		return "", fmt.Errorf("%w: %q (use YYYY-MM-DD)", ledger.ErrInvalidDay, value)
	}
	return value, nil
}

// entryTime is the createdAt for a record logged against day: now when day
// is today, otherwise noon of that day
func entryTime(l *ledger.Ledger, day string) (time.Time, error) {
	if day == l.Today() {
		return l.Now(), nil
	}
	start, err := models.ParseDay(day, l.Location())
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(12 * time.Hour), nil
}

func jsonOutput() bool {
	return outputFormat == formatJSON
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	return nil
}

// formatAmount prints a number without trailing zeros
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatGrams prints an optional macro, "-" when it was not recorded
func formatGrams(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatAmount(*v) + "g"
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// containsString checks if a slice contains a string
func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
