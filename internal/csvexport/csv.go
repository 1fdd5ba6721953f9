// Package csvexport materializes a workout plan as a downloadable table.
package csvexport

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/rowplan/internal/models"
)

// Header is the fixed first row of every export.
var Header = []string{"Date", "Intensity", "Workout Description", "Duration (min)"}

const (
	csvExt  = ".csv"
	xlsxExt = ".xlsx"
)

// Render turns workouts into CSV text in input order. Only the description is
// quoted (with embedded quotes doubled); date, intensity and duration are
// written raw. Rows are separated by "\n" with no trailing newline.
func Render(workouts models.WorkoutPlan) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, w := range workouts {
		b.WriteByte('\n')
		b.WriteString(w.Date)
		b.WriteByte(',')
		b.WriteString(string(w.Intensity))
		b.WriteByte(',')
		b.WriteString(quote(w.Description))
		b.WriteByte(',')
		b.WriteString(FormatDuration(w.DurationMinutes))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatDuration writes minutes as the shortest decimal: 60, 45.5.
func FormatDuration(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// Filename returns rowing_plan_<date>.csv for the UTC calendar date of now.
func Filename(now time.Time) string {
	return baseName(now) + csvExt
}

func baseName(now time.Time) string {
	return "rowing_plan_" + now.UTC().Format("2006-01-02")
}

// WriteFile renders workouts into dir under Filename(now) and returns the
// written path.
func WriteFile(dir string, workouts models.WorkoutPlan, now time.Time) (string, error) {
	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, []byte(Render(workouts)), 0o644); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}
	return path, nil
}
