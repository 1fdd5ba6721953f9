package models

// GeneratedWorkout is one scheduled session as produced by the model.
// The jsonschema tags drive the response schema sent to the provider.
type GeneratedWorkout struct {
	Date            string    `json:"date" jsonschema_description:"Calendar date, YYYY-MM-DD"`
	Intensity       Intensity `json:"intensity" jsonschema:"enum=UT2,enum=UT1,enum=AT,enum=TR,enum=AN" jsonschema_description:"Training zone tag"`
	Description     string    `json:"description" jsonschema_description:"Detailed workout description"`
	DurationMinutes float64   `json:"durationMinutes" jsonschema_description:"Session length in minutes"`
}

// WorkoutPlan is the ordered reply of one generation call.
type WorkoutPlan []GeneratedWorkout

// GenerateRequest is the body of POST /api/generate-workouts.
type GenerateRequest struct {
	Periods []TrainingPeriod `json:"periods"`
}

// GenerateResponse is the success body of POST /api/generate-workouts.
type GenerateResponse struct {
	Workouts WorkoutPlan `json:"workouts"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
