// Package periods holds the client-side list of training periods.
package periods

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/rowplan/internal/models"
)

const dateLayout = "2006-01-02"

var (
	// ErrPeriodNotFound indicates no period has the given id.
	ErrPeriodNotFound = errors.New("period not found")

	// ErrUnknownIntensity indicates a tag outside the five zones.
	ErrUnknownIntensity = errors.New("unknown intensity")

	// ErrPercentOutOfRange indicates a percentage outside [0,100].
	ErrPercentOutOfRange = errors.New("percentage must be between 0 and 100")
)

// Listener is notified with the new snapshot after every mutation.
type Listener func([]models.TrainingPeriod)

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name      *string
	StartDate *string
	EndDate   *string
}

// Store is the period list owned by one session. Listeners run
// synchronously on the mutating goroutine, after the lock is released.
type Store struct {
	mu        sync.Mutex
	periods   []models.TrainingPeriod
	listeners map[int]Listener
	nextSub   int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{listeners: map[int]Listener{}}
}

// Add appends a new period with the default one-week window starting on
// now's UTC date and the default distribution.
func (s *Store) Add(now time.Time) models.TrainingPeriod {
	day := now.UTC()
	s.mu.Lock()
	p := models.TrainingPeriod{
		ID:           uuid.NewString(),
		Name:         fmt.Sprintf("Period %d", len(s.periods)+1),
		StartDate:    day.Format(dateLayout),
		EndDate:      day.Add(7 * 24 * time.Hour).Format(dateLayout),
		Distribution: models.DefaultDistribution(),
	}
	s.periods = append(s.periods, p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return p.Clone()
}

// Remove deletes the period with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	s.periods = slices.Delete(s.periods, idx, idx+1)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Update applies a partial update to the period with the given id.
func (s *Store) Update(id string, patch Patch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	p := &s.periods[idx]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// UpdateDistribution sets one zone's percentage for the given period.
// Other zones are untouched, so the total may drift away from 100.
func (s *Store) UpdateDistribution(id string, intensity models.Intensity, value int) error {
	if !intensity.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownIntensity, intensity)
	}
	if value < 0 || value > 100 {
		return fmt.Errorf("%w: got %d", ErrPercentOutOfRange, value)
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	dist := s.periods[idx].Distribution.Clone()
	dist[intensity] = value
	s.periods[idx].Distribution = dist
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Load replaces the whole list. Periods without an id get a fresh UUID and
// missing zones default to 0.
func (s *Store) Load(periods []models.TrainingPeriod) {
	loaded := make([]models.TrainingPeriod, 0, len(periods))
	for _, p := range periods {
		p = p.Clone()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Distribution == nil {
			p.Distribution = models.Distribution{}
		}
		for _, i := range models.Intensities {
			if _, ok := p.Distribution[i]; !ok {
				p.Distribution[i] = 0
			}
		}
		loaded = append(loaded, p)
	}

	s.mu.Lock()
	s.periods = loaded
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Snapshot returns a deep copy of the list in insertion order.
func (s *Store) Snapshot() []models.TrainingPeriod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of periods.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.periods)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.periods, func(p models.TrainingPeriod) bool { return p.ID == id })
}

func (s *Store) snapshotLocked() []models.TrainingPeriod {
	out := make([]models.TrainingPeriod, len(s.periods))
	for i, p := range s.periods {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) notify(snap []models.TrainingPeriod) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
