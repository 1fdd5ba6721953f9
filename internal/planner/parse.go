package planner

import (
	"fmt"
	"time"

	"github.com/meltforce/rowplan/internal/llm"
	"github.com/meltforce/rowplan/internal/models"
)

const dateLayout = "2006-01-02"

// parsePlan decodes the model reply into a WorkoutPlan. Every element must
// be an object carrying the four fields with the expected primitive types.
// Unknown keys are dropped.
func parsePlan(text string) (models.WorkoutPlan, error) {
	raw, err := llm.ExtractJSON[[]map[string]any](text, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON array", llm.ErrInvalidOutput)
	}

	plan := make(models.WorkoutPlan, 0, len(raw))
	for i, obj := range raw {
		if obj == nil {
			return nil, fmt.Errorf("workout %d: not an object", i)
		}
		date, err := stringField(obj, "date")
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		intensity, err := stringField(obj, "intensity")
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		desc, err := stringField(obj, "description")
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		v, ok := obj["durationMinutes"]
		if !ok {
			return nil, fmt.Errorf("workout %d: missing durationMinutes", i)
		}
		duration, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("workout %d: durationMinutes is %T, want number", i, v)
		}
		plan = append(plan, models.GeneratedWorkout{
			Date:            date,
			Intensity:       models.Intensity(intensity),
			Description:     desc,
			DurationMinutes: duration,
		})
	}
	return plan, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s is %T, want string", key, v)
	}
	return s, nil
}

// ValidatePlan checks the content of a parsed plan: known intensity tags,
// YYYY-MM-DD dates and positive durations.
func ValidatePlan(plan models.WorkoutPlan) error {
	for i, w := range plan {
		if !w.Intensity.Valid() {
			return fmt.Errorf("workout %d: unknown intensity %q", i, w.Intensity)
		}
		if _, err := time.Parse(dateLayout, w.Date); err != nil {
			return fmt.Errorf("workout %d: malformed date %q", i, w.Date)
		}
		if w.DurationMinutes <= 0 {
			return fmt.Errorf("workout %d: non-positive duration %v", i, w.DurationMinutes)
		}
	}
	return nil
}
