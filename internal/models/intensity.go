package models

import "strings"

// Intensity is a rowing training-zone tag.
type Intensity string

// The five training zones, in display order.
const (
	IntensityUT2 Intensity = "UT2"
	IntensityUT1 Intensity = "UT1"
	IntensityAT  Intensity = "AT"
	IntensityTR  Intensity = "TR"
	IntensityAN  Intensity = "AN"
)

// Intensities lists every zone in display order.
var Intensities = []Intensity{IntensityUT2, IntensityUT1, IntensityAT, IntensityTR, IntensityAN}

var intensityMeanings = map[Intensity]string{
	IntensityUT2: "Aerobic Base (long, steady)",
	IntensityUT1: "Intensive Aerobic",
	IntensityAT:  "Threshold",
	IntensityTR:  "Transport",
	IntensityAN:  "Anaerobic",
}

// Valid reports whether i is one of the five zones.
func (i Intensity) Valid() bool {
	_, ok := intensityMeanings[i]
	return ok
}

// Meaning returns the human label for the zone, or "" for unknown tags.
func (i Intensity) Meaning() string {
	return intensityMeanings[i]
}

// ParseIntensity resolves a tag case-insensitively ("ut2" -> UT2).
// The second return value is false when the tag is not a known zone.
func ParseIntensity(s string) (Intensity, bool) {
	i := Intensity(strings.ToUpper(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", false
	}
	return i, true
}

// IntensityInfo describes a zone for API and tool listings.
type IntensityInfo struct {
	Tag     Intensity `json:"tag"`
	Meaning string    `json:"meaning"`
}

// IntensityCatalog returns the zones with their meanings in display order.
func IntensityCatalog() []IntensityInfo {
	out := make([]IntensityInfo, 0, len(Intensities))
	for _, i := range Intensities {
		out = append(out, IntensityInfo{Tag: i, Meaning: i.Meaning()})
	}
	return out
}
