package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/rowplan/internal/csvexport"
	"github.com/meltforce/rowplan/internal/models"
)

// generationFailed is the only detail a caller sees when generation fails.
const generationFailed = "Failed to generate workouts"

var periodItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":        map[string]any{"type": "string"},
		"name":      map[string]any{"type": "string"},
		"startDate": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
		"endDate":   map[string]any{"type": "string", "description": "YYYY-MM-DD"},
		"distribution": map[string]any{
			"type":        "object",
			"description": "Percentage per zone, e.g. {\"UT2\":70,\"UT1\":20,\"AT\":10,\"TR\":0,\"AN\":0}",
		},
	},
	"required": []string{"name", "startDate", "endDate", "distribution"},
}

var workoutItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"date":            map[string]any{"type": "string"},
		"intensity":       map[string]any{"type": "string"},
		"description":     map[string]any{"type": "string"},
		"durationMinutes": map[string]any{"type": "number"},
	},
	"required": []string{"date", "intensity", "description", "durationMinutes"},
}

// --- Tool definitions ---

var toolGenerateWorkoutPlan = mcp.NewTool("generate_workout_plan",
	mcp.WithDescription("Generate a day-by-day rowing workout schedule for the given training periods. Returns an array of {date, intensity, description, durationMinutes}."),
	mcp.WithArray("periods", mcp.Required(), mcp.Description("Training periods with date ranges and intensity distributions"), mcp.Items(periodItemSchema)),
)

var toolRenderPlanCSV = mcp.NewTool("render_plan_csv",
	mcp.WithDescription("Render a workout plan as CSV text with the columns Date, Intensity, Workout Description, Duration (min). Returns the CSV and its suggested filename."),
	mcp.WithArray("workouts", mcp.Required(), mcp.Description("Workouts as returned by generate_workout_plan"), mcp.Items(workoutItemSchema)),
)

var toolListIntensities = mcp.NewTool("list_intensities",
	mcp.WithDescription("List the five rowing intensity zones (UT2, UT1, AT, TR, AN) with their meanings."),
)

// decodeArg re-encodes a raw tool argument into dst. A JSON string holding
// the value is accepted as well.
func decodeArg(req mcp.CallToolRequest, name string, dst any) error {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return fmt.Errorf("%s parameter is required", name)
	}
	var data []byte
	if s, isString := raw.(string); isString {
		data = []byte(s)
	} else {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// --- Handlers ---

func (h *handlers) generateWorkoutPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var periods []models.TrainingPeriod
	if err := decodeArg(req, "periods", &periods); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.src.Generate(ctx, periods)
	if err != nil {
		h.log.Error("mcp generate_workout_plan", "periods", len(periods), "error", err)
		return mcp.NewToolResultError(generationFailed), nil
	}
	if plan == nil {
		plan = models.WorkoutPlan{}
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// csvResult is the payload of render_plan_csv.
type csvResult struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

func (h *handlers) renderPlanCSV(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var plan models.WorkoutPlan
	if err := decodeArg(req, "workouts", &plan); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(csvResult{
		Filename: csvexport.Filename(time.Now()),
		CSV:      csvexport.Render(plan),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listIntensities(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(models.IntensityCatalog())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) intensityCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(models.IntensityCatalog())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
