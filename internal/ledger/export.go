// ABOUTME: Export and import of the whole ledger
// ABOUTME: Supports JSON, YAML and Markdown export; imports merge by record identity
package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
)

// ExportVersion is the version stamped on exports
const ExportVersion = "1.0"

// Export formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ExportData is the complete exportable ledger
type ExportData struct {
	Version       string                `yaml:"version" json:"version"`
	ExportedAt    string                `yaml:"exported_at" json:"exportedAt"`
	Tool          string                `yaml:"tool" json:"tool"`
	Profile       *models.Profile       `yaml:"profile,omitempty" json:"profile,omitempty"`
	Food          []models.FoodEntry    `yaml:"food" json:"foodEntries"`
	Workouts      []models.WorkoutEntry `yaml:"workouts" json:"workouts"`
	Water         []models.WaterEntry   `yaml:"water" json:"waterIntake"`
	Weights       []models.WeightEntry  `yaml:"weights" json:"weightEntries"`
	Conversations []models.Conversation `yaml:"conversations,omitempty" json:"conversations,omitempty"`
}

// ImportStats counts what an import added
type ImportStats struct {
	Food          int  `json:"food"`
	Workouts      int  `json:"workouts"`
	Water         int  `json:"water"`
	Weights       int  `json:"weights"`
	Conversations int  `json:"conversations"`
	Profile       bool `json:"profile"`
}

// Export reads the whole ledger
func (l *Ledger) Export() *ExportData {
	profile, _ := l.Profile()
	return &ExportData{
		Version:       ExportVersion,
		ExportedAt:    l.now().Format(time.RFC3339),
		Tool:          "fuel",
		Profile:       profile,
		Food:          l.Food(),
		Workouts:      l.Workouts(),
		Water:         l.Water(),
		Weights:       l.Weights(),
		Conversations: l.Conversations(),
	}
}

// WriteExport encodes the ledger to w in format
func (l *Ledger) WriteExport(w io.Writer, format string) error {
	data := l.Export()
	switch strings.ToLower(format) {
	case FormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML, "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	case FormatMarkdown, "md":
		return writeMarkdown(w, data, l.loc)
	}
	return fmt.Errorf("unknown export format %q (use json, yaml or markdown)", format)
}

func writeMarkdown(w io.Writer, data *ExportData, loc *time.Location) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fuel Export\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", data.ExportedAt)

	if p := data.Profile; p != nil {
		b.WriteString("## Profile\n\n")
		if p.Name != "" {
			fmt.Fprintf(&b, "- **Name:** %s\n", p.Name)
		}
		if p.Age > 0 {
			fmt.Fprintf(&b, "- **Age:** %d\n", p.Age)
		}
		if p.Weight > 0 {
			fmt.Fprintf(&b, "- **Weight:** %.1f kg\n", p.Weight)
		}
		if p.Goal != "" {
			fmt.Fprintf(&b, "- **Goal:** %s\n", p.Goal)
		}
		if p.TargetWeight > 0 {
			fmt.Fprintf(&b, "- **Target weight:** %.1f kg\n", p.TargetWeight)
		}
		if p.ActivityLevel != "" {
			fmt.Fprintf(&b, "- **Activity level:** %s\n", p.ActivityLevel)
		}
		b.WriteString("\n")
	}

	if len(data.Food) > 0 {
		b.WriteString("## Food\n\n")
		b.WriteString("| Day | Meal | Name | Quantity | Calories |\n")
		b.WriteString("|-----|------|------|----------|----------|\n")
		for _, f := range data.Food {
			fmt.Fprintf(&b, "| %s | %s | %s | %g %s | %.0f |\n",
				models.DayOf(f.CreatedAt, loc), f.MealType, f.Name, f.Quantity, f.Unit, f.Calories)
		}
		b.WriteString("\n")
	}

	if len(data.Workouts) > 0 {
		b.WriteString("## Workouts\n\n")
		b.WriteString("| Day | Name | Type | Minutes | Burned |\n")
		b.WriteString("|-----|------|------|---------|--------|\n")
		for _, wk := range data.Workouts {
			fmt.Fprintf(&b, "| %s | %s | %s | %.0f | %.0f |\n",
				models.DayOf(wk.CreatedAt, loc), wk.Name, wk.Type, wk.Duration, wk.Burned())
		}
		b.WriteString("\n")
	}

	if len(data.Water) > 0 {
		b.WriteString("## Water\n\n")
		for _, wt := range data.Water {
			fmt.Fprintf(&b, "- %s: %.0f ml\n", models.DayOf(wt.CreatedAt, loc), wt.Amount)
		}
		b.WriteString("\n")
	}

	if len(data.Weights) > 0 {
		b.WriteString("## Weight\n\n")
		for _, wt := range data.Weights {
			fmt.Fprintf(&b, "- %s: %.1f kg\n", wt.Date, wt.Weight)
		}
		b.WriteString("\n")
	}

	if len(data.Conversations) > 0 {
		b.WriteString("## Conversations\n\n")
		for _, c := range data.Conversations {
			fmt.Fprintf(&b, "### %s\n\n", c.Title)
			for _, m := range c.Messages {
				who := "User"
				if m.Sender == models.SenderAssistant {
					who = "Coach"
				}
				fmt.Fprintf(&b, "**%s:** %s\n\n", who, m.Text)
			}
			b.WriteString("---\n\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ParseExport decodes a JSON or YAML export
func ParseExport(raw []byte, format string) (*ExportData, error) {
	var data ExportData
	switch strings.ToLower(format) {
	case FormatJSON, "":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode JSON export: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode YAML export: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown import format %q (use json or yaml)", format)
	}
	return &data, nil
}

// Import merges data into the ledger. Records whose identity already
// exists are skipped; the profile is only imported when none is stored.
func (l *Ledger) Import(data *ExportData) (ImportStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		stats ImportStats
		err   error
	)
	if stats.Food, err = mergeBucket(l, BucketFood, data.Food, func(f models.FoodEntry) string { return f.ID }); err != nil {
		return stats, err
	}
	if stats.Workouts, err = mergeBucket(l, BucketWorkouts, data.Workouts, func(w models.WorkoutEntry) string { return w.ID }); err != nil {
		return stats, err
	}
	if stats.Water, err = mergeBucket(l, BucketWater, data.Water, func(w models.WaterEntry) string { return w.ID }); err != nil {
		return stats, err
	}
	if stats.Weights, err = mergeBucket(l, BucketWeight, data.Weights, func(w models.WeightEntry) string { return w.Date }); err != nil {
		return stats, err
	}
	if stats.Conversations, err = mergeBucket(l, BucketConversations, data.Conversations, func(c models.Conversation) string { return c.ID }); err != nil {
		return stats, err
	}

	if data.Profile != nil {
		_, ok, err := storage.LoadObject[models.Profile](l.store, BucketProfile)
		if err != nil {
			return stats, fmt.Errorf("failed to import profile: %w", err)
		}
		if !ok {
			if err := storage.WriteObject(l.store, BucketProfile, data.Profile); err != nil {
				return stats, fmt.Errorf("failed to import profile: %w", err)
			}
			stats.Profile = true
		}
	}
	return stats, nil
}

func mergeBucket[T any](l *Ledger, bucket string, incoming []T, key func(T) string) (int, error) {
	if len(incoming) == 0 {
		return 0, nil
	}
	existing, err := storage.LoadBucket[T](l.store, bucket)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", bucket, err)
	}
	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[key(item)] = true
	}
	added := 0
	for _, item := range incoming {
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		existing = append(existing, item)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := storage.WriteBucket(l.store, bucket, existing); err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", bucket, err)
	}
	return added, nil
}
