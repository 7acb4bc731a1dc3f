// ABOUTME: Tests for the MCP tool handlers and registration
// ABOUTME: Calls handlers directly against an in-memory ledger
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func newTestHandlers(t *testing.T) (*Handlers, *ledger.Ledger) {
	t.Helper()
	now := time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)
	l := ledger.New(storage.NewMemory(),
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocation(time.UTC))
	t.Cleanup(func() { _ = l.Close() })
	return NewHandlers(l, nil), l
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, v interface{}) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

func TestRegisterTools(t *testing.T) {
	_, l := newTestHandlers(t)
	server := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(false))
	RegisterTools(server, l, nil)

	want := []string{
		"log_food", "log_workout", "log_water", "log_weight", "remove_entry",
		"daily_summary", "weekly_summary", "apply_directives", "get_profile", "update_profile",
	}
	tools := server.ListTools()
	if len(tools) != len(want) {
		t.Errorf("registered %d tools, want %d", len(tools), len(want))
	}
	for _, name := range want {
		tool, ok := tools[name]
		if !ok {
			t.Errorf("tool %q not registered", name)
			continue
		}
		if tool.Handler == nil {
			t.Errorf("tool %q has no handler", name)
		}
	}

	names := ToolNames()
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("ToolNames() = %v, want %v", names, want)
	}
}

func TestLogFood(t *testing.T) {
	h, l := newTestHandlers(t)

	res, _ := h.LogFood(context.Background(), call("log_food", map[string]any{
		"name":     "oatmeal",
		"calories": 300.0,
		"protein":  10.0,
	}))

	var got struct {
		Entry struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			MealType string   `json:"mealType"`
			Protein  *float64 `json:"protein"`
			Carbs    *float64 `json:"carbs"`
		} `json:"entry"`
	}
	decode(t, res, &got)

	if got.Entry.ID == "" || got.Entry.Name != "oatmeal" {
		t.Errorf("entry = %+v", got.Entry)
	}
	if got.Entry.Protein == nil || *got.Entry.Protein != 10 {
		t.Errorf("Protein = %v, want 10", got.Entry.Protein)
	}
	if got.Entry.Carbs != nil {
		t.Error("Carbs should stay unset so it is imputed")
	}
	if got.Entry.MealType != "lunch" {
		t.Errorf("MealType = %q, want lunch at noon", got.Entry.MealType)
	}
	if len(l.Food()) != 1 {
		t.Errorf("Food() = %d entries, want 1", len(l.Food()))
	}
}

func TestLogFoodMissingArgs(t *testing.T) {
	h, _ := newTestHandlers(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"no name", map[string]any{"calories": 100.0}},
		{"no calories", map[string]any{"name": "apple"}},
		{"bad calories", map[string]any{"name": "apple", "calories": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.LogFood(context.Background(), call("log_food", tt.args))
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if !res.IsError {
				t.Error("expected a tool error")
			}
		})
	}
}

func TestLogWorkoutAndWater(t *testing.T) {
	h, l := newTestHandlers(t)

	res, _ := h.LogWorkout(context.Background(), call("log_workout", map[string]any{"name": "evening run", "duration": 40.0}))
	if res.IsError {
		t.Fatalf("log_workout error: %s", resultText(t, res))
	}
	res, _ = h.LogWater(context.Background(), call("log_water", map[string]any{}))
	if res.IsError {
		t.Fatalf("log_water error: %s", resultText(t, res))
	}

	workouts := l.Workouts()
	if len(workouts) != 1 || workouts[0].Duration != 40 || workouts[0].Burned() <= 0 {
		t.Errorf("Workouts() = %+v", workouts)
	}
	water := l.Water()
	if len(water) != 1 || water[0].Amount != 250 {
		t.Errorf("Water() = %+v", water)
	}
}

func TestLogWeight(t *testing.T) {
	h, l := newTestHandlers(t)

	res, _ := h.LogWeight(context.Background(), call("log_weight", map[string]any{"weight": 72.4}))
	if res.IsError {
		t.Fatalf("log_weight error: %s", resultText(t, res))
	}
	res, _ = h.LogWeight(context.Background(), call("log_weight", map[string]any{"weight": 72.0, "date": "2026-04-08"}))
	if res.IsError {
		t.Fatalf("log_weight error: %s", resultText(t, res))
	}

	weights := l.Weights()
	if len(weights) != 1 || weights[0].Weight != 72 {
		t.Errorf("Weights() = %+v, want one entry of 72", weights)
	}

	res, _ = h.LogWeight(context.Background(), call("log_weight", map[string]any{"weight": -1.0}))
	if !res.IsError {
		t.Error("negative weight should be rejected")
	}
	res, _ = h.LogWeight(context.Background(), call("log_weight", map[string]any{"weight": 70.0, "date": "April 8"}))
	if !res.IsError {
		t.Error("malformed date should be rejected")
	}
}

func TestRemoveEntry(t *testing.T) {
	h, l := newTestHandlers(t)
	water, _ := l.AddWater(models.WaterEntry{Amount: 500})

	res, _ := h.RemoveEntry(context.Background(), call("remove_entry", map[string]any{"kind": "water", "id": water.ID}))
	var got struct {
		Removed bool `json:"removed"`
	}
	decode(t, res, &got)
	if !got.Removed {
		t.Error("removed = false, want true")
	}

	res, _ = h.RemoveEntry(context.Background(), call("remove_entry", map[string]any{"kind": "snack", "id": "x"}))
	if !res.IsError {
		t.Error("unknown kind should be rejected")
	}
}

func TestDailySummary(t *testing.T) {
	h, l := newTestHandlers(t)
	_, _ = h.LogFood(context.Background(), call("log_food", map[string]any{"name": "rice", "calories": 200.0}))
	_, _, _ = l.UpdateProfile(map[string]interface{}{"age": 30, "gender": "male", "height": 180, "weight": 80})

	res, _ := h.DailySummary(context.Background(), call("daily_summary", map[string]any{}))
	var got struct {
		Totals struct {
			Day      string  `json:"day"`
			Calories float64 `json:"calories"`
			Protein  float64 `json:"protein"`
		} `json:"totals"`
		Target *struct {
			Calories float64 `json:"calories"`
		} `json:"target"`
	}
	decode(t, res, &got)

	if got.Totals.Day != "2026-04-08" || got.Totals.Calories != 200 || got.Totals.Protein != 30 {
		t.Errorf("totals = %+v", got.Totals)
	}
	if got.Target == nil {
		t.Error("target should be reported for a complete profile")
	}
}

func TestWeeklySummary(t *testing.T) {
	h, _ := newTestHandlers(t)
	_, _ = h.LogFood(context.Background(), call("log_food", map[string]any{"name": "rice", "calories": 400.0}))

	res, _ := h.WeeklySummary(context.Background(), call("weekly_summary", map[string]any{"date": "2026-04-08"}))
	var got struct {
		Start      string `json:"start"`
		ActiveDays int    `json:"activeDays"`
		Days       []any  `json:"days"`
	}
	decode(t, res, &got)

	if got.Start != "2026-04-05" {
		t.Errorf("Start = %q, want 2026-04-05", got.Start)
	}
	if got.ActiveDays != 1 || len(got.Days) != 7 {
		t.Errorf("ActiveDays = %d, Days = %d", got.ActiveDays, len(got.Days))
	}
}

func TestApplyDirectives(t *testing.T) {
	h, l := newTestHandlers(t)

	res, _ := h.ApplyDirectives(context.Background(), call("apply_directives", map[string]any{
		"text": "Great!\nFOOD_UPDATE: toast:150\nWEIGHT_UPDATE: 71",
	}))
	var got struct {
		Text    string `json:"text"`
		Applied []any  `json:"applied"`
	}
	decode(t, res, &got)

	if strings.Contains(got.Text, "UPDATE") {
		t.Errorf("Text still has directives: %q", got.Text)
	}
	if len(got.Applied) != 2 {
		t.Errorf("Applied = %d, want 2", len(got.Applied))
	}
	if len(l.Food()) != 1 || len(l.Weights()) != 1 {
		t.Error("directives should have written food and weight")
	}
}

func TestProfileTools(t *testing.T) {
	h, _ := newTestHandlers(t)

	res, _ := h.GetProfile(context.Background(), call("get_profile", map[string]any{}))
	if got := resultText(t, res); got != `{"profile":null}` {
		t.Errorf("get_profile on empty ledger = %s", got)
	}

	res, _ = h.UpdateProfile(context.Background(), call("update_profile", map[string]any{
		"name":  "Robin",
		"goal":  "gain",
		"bogus": "x",
	}))
	var updated struct {
		Success bool     `json:"success"`
		Applied []string `json:"applied"`
		Profile struct {
			Name string `json:"name"`
			Goal string `json:"goal"`
		} `json:"profile"`
	}
	decode(t, res, &updated)
	if !updated.Success || len(updated.Applied) != 2 || updated.Profile.Name != "Robin" || updated.Profile.Goal != "gain" {
		t.Errorf("update_profile = %+v", updated)
	}

	res, _ = h.UpdateProfile(context.Background(), call("update_profile", map[string]any{"goal": "bulk"}))
	if !res.IsError {
		t.Error("update with only invalid values should be rejected")
	}
	res, _ = h.UpdateProfile(context.Background(), call("update_profile", map[string]any{}))
	if !res.IsError {
		t.Error("empty update should be rejected")
	}
}
