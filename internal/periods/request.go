package periods

import (
	"fmt"

	"github.com/meltforce/rowplan/internal/models"
)

// Request packages the current list as a full generation request body.
// Each call is independent; there are no partial updates.
func (s *Store) Request() models.GenerateRequest {
	return models.GenerateRequest{Periods: s.Snapshot()}
}

// Warning flags a period whose distribution does not total 100.
type Warning struct {
	PeriodID string
	Name     string
	Total    int
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: distribution totals %d%%, expected 100%%", w.Name, w.Total)
}

// Warnings lists unbalanced periods. They never block a request.
func (s *Store) Warnings() []Warning {
	var out []Warning
	for _, p := range s.Snapshot() {
		if total := p.Distribution.Total(); total != 100 {
			out = append(out, Warning{PeriodID: p.ID, Name: p.Name, Total: total})
		}
	}
	return out
}
