// ABOUTME: MCP tool handler implementations for the fuel ledger server
// ABOUTME: Each handler validates arguments, writes through the ledger and returns JSON text
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/directive"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	ledger  *ledger.Ledger
	applier *directive.Applier
	log     *logger.Logger
}

// NewHandlers creates handlers over l. log may be nil.
func NewHandlers(l *ledger.Ledger, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		ledger:  l,
		applier: directive.NewApplier(l, log),
		log:     log.With("component", "mcp"),
	}
}

// jsonResult marshals v into a text result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// optionalFloat returns the numeric argument key, or nil when it is absent
func optionalFloat(request mcp.CallToolRequest, key string) *float64 {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

// day returns the date argument or today, validated
func (h *Handlers) day(request mcp.CallToolRequest) (string, error) {
	day := request.GetString("date", "")
	if day == "" {
		return h.ledger.Today(), nil
	}
	if !models.ValidDay(day) {
		return "", fmt.Errorf("date must be YYYY-MM-DD, got %q", day)
	}
	return day, nil
}

// LogFood handles the log_food tool
func (h *Handlers) LogFood(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	calories, err := request.RequireFloat("calories")
	if err != nil {
		return mcp.NewToolResultError("calories argument is required and must be a number"), nil
	}

	entry, err := h.ledger.AddFood(models.FoodEntry{
		Name:     name,
		Calories: calories,
		Quantity: request.GetFloat("quantity", models.DefaultFoodQuantity),
		Unit:     models.Unit(request.GetString("unit", string(models.DefaultFoodUnit))),
		MealType: models.MealType(request.GetString("meal_type", "")),
		Protein:  optionalFloat(request, "protein"),
		Carbs:    optionalFloat(request, "carbs"),
		Fat:      optionalFloat(request, "fat"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log food: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"entry": entry})
}

// LogWorkout handles the log_workout tool
func (h *Handlers) LogWorkout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}

	entry, err := h.ledger.AddWorkout(models.WorkoutEntry{
		Name:           name,
		Duration:       request.GetFloat("duration", models.DefaultWorkoutMinutes),
		CaloriesBurned: optionalFloat(request, "calories_burned"),
		Type:           models.WorkoutType(request.GetString("type", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log workout: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"entry": entry})
}

// LogWater handles the log_water tool
func (h *Handlers) LogWater(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := h.ledger.AddWater(models.WaterEntry{
		Amount: request.GetFloat("amount", models.DefaultWaterMl),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log water: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"entry": entry})
}

// LogWeight handles the log_weight tool
func (h *Handlers) LogWeight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kg, err := request.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight argument is required and must be a number"), nil
	}
	day, err := h.day(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := h.ledger.UpsertWeight(day, kg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log weight: %v", err)), nil
	}
	if entry == nil {
		return mcp.NewToolResultError("weight must be a positive number"), nil
	}

	return jsonResult(map[string]interface{}{"entry": entry})
}

// RemoveEntry handles the remove_entry tool
func (h *Handlers) RemoveEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawKind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind argument is required and must be a string"), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	kind, err := ledger.ParseKind(rawKind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	removed, err := h.ledger.Remove(kind, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove entry: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"kind":    kind,
		"id":      id,
		"removed": removed,
	})
}

// DailySummary handles the daily_summary tool
func (h *Handlers) DailySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := h.day(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(aggregate.SummarizeDay(h.ledger.Snapshot(), day))
}

// WeeklySummary handles the weekly_summary tool
func (h *Handlers) WeeklySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := h.day(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	week, err := aggregate.WeeklyAverages(h.ledger.Snapshot(), day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize week: %v", err)), nil
	}

	return jsonResult(week)
}

// ApplyDirectives handles the apply_directives tool
func (h *Handlers) ApplyDirectives(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	return jsonResult(h.applier.Apply(ctx, text))
}

// GetProfile handles the get_profile tool
func (h *Handlers) GetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, ok := h.ledger.Profile()
	if !ok {
		return jsonResult(map[string]interface{}{"profile": nil})
	}

	response := map[string]interface{}{"profile": profile}
	if target, ok := aggregate.CalorieTarget(profile); ok {
		response["target"] = target
	}
	return jsonResult(response)
}

// UpdateProfile handles the update_profile tool
func (h *Handlers) UpdateProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if len(args) == 0 {
		return mcp.NewToolResultError("at least one profile field is required"), nil
	}

	profile, applied, err := h.ledger.UpdateProfile(args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save profile: %v", err)), nil
	}
	if len(applied) == 0 {
		return mcp.NewToolResultError("no valid profile fields were provided"), nil
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"applied": applied,
		"profile": profile,
	})
}
