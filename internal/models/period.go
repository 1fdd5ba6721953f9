package models

// Distribution maps every zone to an integer percentage in [0,100].
// The five values are expected to total 100 but nothing enforces it.
type Distribution map[Intensity]int

// DefaultDistribution is the split assigned to newly created periods.
func DefaultDistribution() Distribution {
	return Distribution{
		IntensityUT2: 70,
		IntensityUT1: 20,
		IntensityAT:  10,
		IntensityTR:  0,
		IntensityAN:  0,
	}
}

// Total sums the percentages of the five zones.
func (d Distribution) Total() int {
	total := 0
	for _, i := range Intensities {
		total += d[i]
	}
	return total
}

// Balanced reports whether the distribution totals exactly 100.
func (d Distribution) Balanced() bool {
	return d.Total() == 100
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// TrainingPeriod is a contiguous calendar block with an intensity split.
// StartDate <= EndDate is expected but not enforced.
type TrainingPeriod struct {
	ID           string       `json:"id" yaml:"id" toml:"id"`
	Name         string       `json:"name" yaml:"name" toml:"name"`
	StartDate    string       `json:"startDate" yaml:"startDate" toml:"startDate"`
	EndDate      string       `json:"endDate" yaml:"endDate" toml:"endDate"`
	Distribution Distribution `json:"distribution" yaml:"distribution" toml:"distribution"`
}

// Clone returns a deep copy of the period.
func (p TrainingPeriod) Clone() TrainingPeriod {
	p.Distribution = p.Distribution.Clone()
	return p
}
