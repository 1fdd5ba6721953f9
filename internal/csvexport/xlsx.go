package csvexport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/meltforce/rowplan/internal/models"
)

// SheetName is the single worksheet of an xlsx export.
const SheetName = "Plan"

// XLSXFilename returns rowing_plan_<date>.xlsx for the UTC calendar date of now.
func XLSXFilename(now time.Time) string {
	return baseName(now) + xlsxExt
}

// BuildWorkbook lays out the same table as Render in one sheet. Durations
// are stored as numbers.
func BuildWorkbook(workouts models.WorkoutPlan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	f.SetCellStyle(SheetName, "A1", "D1", headerStyle)

	for i, w := range workouts {
		row := []any{w.Date, string(w.Intensity), w.Description, w.DurationMinutes}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(SheetName, "A", "B", 12)
	f.SetColWidth(SheetName, "C", "C", 60)
	f.SetColWidth(SheetName, "D", "D", 15)
	return f, nil
}

// RenderXLSX returns the workbook bytes for workouts.
func RenderXLSX(workouts models.WorkoutPlan) ([]byte, error) {
	f, err := BuildWorkbook(workouts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSXFile writes the workbook into dir under XLSXFilename(now) and
// returns the written path.
func WriteXLSXFile(dir string, workouts models.WorkoutPlan, now time.Time) (string, error) {
	data, err := RenderXLSX(workouts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, XLSXFilename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing xlsx: %w", err)
	}
	return path, nil
}
