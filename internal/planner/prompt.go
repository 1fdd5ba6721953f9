package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meltforce/rowplan/internal/llm"
	"github.com/meltforce/rowplan/internal/models"
)

// planSchema constrains the reply to an array of GeneratedWorkout objects.
var planSchema = llm.SchemaFor[models.WorkoutPlan]()

// BuildPrompt renders the instruction sent to the model. A nil period list
// is serialized as [].
func BuildPrompt(periods []models.TrainingPeriod) (string, error) {
	if periods == nil {
		periods = []models.TrainingPeriod{}
	}
	data, err := json.Marshal(periods)
	if err != nil {
		return "", fmt.Errorf("serializing periods: %w", err)
	}

	meanings := make([]string, 0, len(models.Intensities))
	for _, in := range models.Intensities {
		meanings = append(meanings, fmt.Sprintf("%s: %s.", in, in.Meaning()))
	}
	tags := make([]string, 0, len(models.Intensities))
	for _, in := range models.Intensities {
		tags = append(tags, string(in))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a rowing workout schedule based on these training periods: %s.\n", data)
	fmt.Fprintf(&b, "For each day in each period, assign a workout intensity (%s) following the percentage distribution provided.\n", strings.Join(tags, ", "))
	b.WriteString(strings.Join(meanings, " "))
	b.WriteString("\nMake the schedule realistic (e.g., rest days, varying intensities).\n")
	b.WriteString(`Return an array of objects: { date: "YYYY-MM-DD", intensity: "UT2", description: "Detailed workout description", durationMinutes: 60 }`)
	return b.String(), nil
}
