// ABOUTME: MCP tool definitions and registration for the fuel ledger server
// ABOUTME: Defines JSON schemas for the logging, summary, directive and profile tools
package mcp

import (
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func dateProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Calendar day as YYYY-MM-DD (default: today)",
	}
}

// Tools returns the definition of every tool the server exposes, in registration order
func Tools() []mcp.Tool {
	return []mcp.Tool{
		// 1. log_food
		{
			Name:        "log_food",
			Description: "Log a food item. Macros that are left out are estimated from calories.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "What was eaten",
					},
					"calories": map[string]interface{}{
						"type":        "number",
						"description": "Calories (kcal)",
					},
					"quantity": map[string]interface{}{
						"type":        "number",
						"description": "Amount eaten (default: 1)",
					},
					"unit": map[string]interface{}{
						"type":        "string",
						"description": "Unit of quantity (default: piece)",
					},
					"meal_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"breakfast", "lunch", "dinner", "snacks", "other"},
						"description": "Meal (default: inferred from the time of day)",
					},
					"protein": map[string]interface{}{"type": "number", "description": "Protein in grams"},
					"carbs":   map[string]interface{}{"type": "number", "description": "Carbs in grams"},
					"fat":     map[string]interface{}{"type": "number", "description": "Fat in grams"},
				},
				Required: []string{"name", "calories"},
			},
		},
		// 2. log_workout
		{
			Name:        "log_workout",
			Description: "Log a workout. Calories burned are estimated from type and duration when omitted.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Workout name (e.g., 'morning run')",
					},
					"duration": map[string]interface{}{
						"type":        "number",
						"description": "Duration in minutes (default: 30)",
					},
					"calories_burned": map[string]interface{}{
						"type":        "number",
						"description": "Calories burned (optional)",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cardio", "strength", "yoga", "sports", "walking", "cycling", "swimming", "dancing"},
						"description": "Workout type (default: inferred from the name)",
					},
				},
				Required: []string{"name"},
			},
		},
		// 3. log_water
		{
			Name:        "log_water",
			Description: "Log water intake in millilitres.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Amount in ml (default: 250)",
						"default":     250,
					},
				},
			},
		},
		// 4. log_weight
		{
			Name:        "log_weight",
			Description: "Record body weight for a day. A day holds at most one weight; logging again replaces it.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"weight": map[string]interface{}{
						"type":        "number",
						"description": "Weight in kilograms",
					},
					"date": dateProperty(),
				},
				Required: []string{"weight"},
			},
		},
		// 5. remove_entry
		{
			Name:        "remove_entry",
			Description: "Remove a logged record. Weight records are identified by their date.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"food", "workout", "water", "weight"},
						"description": "Record kind",
					},
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Record id (or YYYY-MM-DD for weight)",
					},
				},
				Required: []string{"kind", "id"},
			},
		},
		// 6. daily_summary
		{
			Name:        "daily_summary",
			Description: "Get totals, macro split and calorie target for a day.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"date": dateProperty(),
				},
			},
		},
		// 7. weekly_summary
		{
			Name:        "weekly_summary",
			Description: "Get per-day totals and averages for the Sunday-start week containing a day.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"date": dateProperty(),
				},
			},
		},
		// 8. apply_directives
		{
			Name:        "apply_directives",
			Description: "Apply FOOD_UPDATE, WORKOUT_UPDATE, WEIGHT_UPDATE and PROFILE_UPDATE lines found in text and return the cleaned text.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text containing directive lines",
					},
				},
				Required: []string{"text"},
			},
		},
		// 9. get_profile
		{
			Name:        "get_profile",
			Description: "Get the user profile and calorie target.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
		// 10. update_profile
		{
			Name:        "update_profile",
			Description: "Update profile fields. All fields are optional - only provided fields are changed.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name":   map[string]interface{}{"type": "string", "description": "User's name"},
					"age":    map[string]interface{}{"type": "number", "description": "Age in years"},
					"gender": map[string]interface{}{"type": "string", "description": "male, female or other"},
					"height": map[string]interface{}{"type": "number", "description": "Height in cm"},
					"weight": map[string]interface{}{"type": "number", "description": "Weight in kg"},
					"goal": map[string]interface{}{
						"type": "string",
						"enum": []string{"gain", "loss", "maintain"},
					},
					"targetWeight": map[string]interface{}{"type": "number", "description": "Target weight in kg"},
					"activityLevel": map[string]interface{}{
						"type": "string",
						"enum": []string{"sedentary", "light", "moderate", "very", "extra"},
					},
					"dietPreference": map[string]interface{}{
						"type": "string",
						"enum": []string{"vegetarian", "non-vegetarian", "mixed"},
					},
					"workoutLocation": map[string]interface{}{
						"type": "string",
						"enum": []string{"gym", "home", "outdoor"},
					},
				},
			},
		},
	}
}

// ToolNames returns the names of the exposed tools
func ToolNames() []string {
	tools := Tools()
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	return names
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, l *ledger.Ledger, log *logger.Logger) *Handlers {
	handlers := NewHandlers(l, log)
	byName := handlers.toolHandlers()
	for _, tool := range Tools() {
		server.AddTool(tool, byName[tool.Name])
	}
	return handlers
}

func (h *Handlers) toolHandlers() map[string]mcpserver.ToolHandlerFunc {
	return map[string]mcpserver.ToolHandlerFunc{
		"log_food":         h.LogFood,
		"log_workout":      h.LogWorkout,
		"log_water":        h.LogWater,
		"log_weight":       h.LogWeight,
		"remove_entry":     h.RemoveEntry,
		"daily_summary":    h.DailySummary,
		"weekly_summary":   h.WeeklySummary,
		"apply_directives": h.ApplyDirectives,
		"get_profile":      h.GetProfile,
		"update_profile":   h.UpdateProfile,
	}
}
