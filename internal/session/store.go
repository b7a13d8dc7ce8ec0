// Package session holds the in-progress workout and turns it into a saved
// workout record.
package session

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// Field names an editable set field.
type Field string

const (
	FieldReps   Field = "reps"
	FieldWeight Field = "weight"
)

// Set is one attempt of an exercise. Reps and Weight hold the raw text the
// user typed; they are parsed only when the workout is saved.
type Set struct {
	ID          string            `json:"id"`
	Reps        string            `json:"reps"`
	Weight      string            `json:"weight"`
	WeightUnit  models.WeightUnit `json:"weightUnit"`
	IsCompleted bool              `json:"isCompleted"`
}

// Exercise is a catalog exercise selected for the current session.
type Exercise struct {
	ID        string `json:"id"`
	CatalogID string `json:"catalogId"`
	Name      string `json:"name"`
	Sets      []Set  `json:"sets"`
}

// Snapshot is a copy of the session state handed to observers.
type Snapshot struct {
	Exercises  []Exercise
	WeightUnit models.WeightUnit
}

// Mutation is a change to the exercise list: either a full replacement or a
// function of the current list. Build one with Replace or Update.
type Mutation struct {
	next   []Exercise
	update func(prev []Exercise) []Exercise
}

// Replace returns a Mutation that swaps in next.
func Replace(next []Exercise) Mutation {
	return Mutation{next: next}
}

// Update returns a Mutation that computes the next list from the latest one.
func Update(fn func(prev []Exercise) []Exercise) Mutation {
	return Mutation{update: fn}
}

func (m Mutation) apply(prev []Exercise) []Exercise {
	if m.update != nil {
		return m.update(prev)
	}
	return m.next
}

// PreferenceStore persists the weight-unit preference across restarts.
type PreferenceStore interface {
	LoadWeightUnit() (models.WeightUnit, error)
	SaveWeightUnit(unit models.WeightUnit) error
}

// Store holds the in-progress workout. All methods are safe for concurrent use;
// observers are called after the change is applied, outside the lock.
type Store struct {
	mu         sync.Mutex
	exercises  []Exercise
	weightUnit models.WeightUnit

	prefs     PreferenceStore
	log       *slog.Logger
	newID     func() string
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewStore creates an empty session, restoring the weight unit from prefs.
// prefs may be nil, in which case the preference lives only in memory.
func NewStore(prefs PreferenceStore, log *slog.Logger) *Store {
	s := &Store{
		weightUnit: models.DefaultWeightUnit,
		prefs:      prefs,
		log:        log,
		newID:      uuid.NewString,
		observers:  make(map[int]func(Snapshot)),
	}
	if prefs != nil {
		unit, err := prefs.LoadWeightUnit()
		switch {
		case err != nil:
			log.Warn("loading weight unit preference", "error", err)
		case unit.Valid():
			s.weightUnit = unit
		}
	}
	return s
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Exercises returns a copy of the current exercise list.
func (s *Store) Exercises() []Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneExercises(s.exercises)
}

// WeightUnit returns the unit new sets are created with.
func (s *Store) WeightUnit() models.WeightUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weightUnit
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ReplaceExercises applies m atomically. Update functions always see the
// result of every previously applied mutation.
func (s *Store) ReplaceExercises(m Mutation) {
	s.mu.Lock()
	s.exercises = cloneExercises(m.apply(cloneExercises(s.exercises)))
	snap, obs := s.snapshotLocked(), s.observerList()
	s.mu.Unlock()
	notify(obs, snap)
}

// AddExercise appends a new exercise with no sets and returns its local id.
func (s *Store) AddExercise(name, catalogID string) string {
	id := s.newID()
	s.ReplaceExercises(Update(func(prev []Exercise) []Exercise {
		return append(prev, Exercise{ID: id, CatalogID: catalogID, Name: name, Sets: []Set{}})
	}))
	return id
}

// RemoveExercise drops an exercise and its sets. Unknown ids are ignored.
func (s *Store) RemoveExercise(exerciseID string) {
	s.ReplaceExercises(Update(func(prev []Exercise) []Exercise {
		return slices.DeleteFunc(prev, func(e Exercise) bool { return e.ID == exerciseID })
	}))
}

// AddSet appends an empty, incomplete set in the current weight unit and
// returns its id. Nothing changes if the exercise does not exist.
func (s *Store) AddSet(exerciseID string) string {
	id := s.newID()
	unit := s.WeightUnit()
	s.ReplaceExercises(Update(mapExercise(exerciseID, func(e Exercise) Exercise {
		e.Sets = append(e.Sets, Set{ID: id, WeightUnit: unit})
		return e
	})))
	return id
}

// UpdateSet stores the raw text value for reps or weight.
func (s *Store) UpdateSet(exerciseID, setID string, field Field, value string) error {
	if field != FieldReps && field != FieldWeight {
		return fmt.Errorf("unknown set field %q", field)
	}
	s.ReplaceExercises(Update(mapSet(exerciseID, setID, func(set Set) Set {
		if field == FieldReps {
			set.Reps = value
		} else {
			set.Weight = value
		}
		return set
	})))
	return nil
}

// ToggleSetCompletion flips a set's completed flag.
func (s *Store) ToggleSetCompletion(exerciseID, setID string) {
	s.ReplaceExercises(Update(mapSet(exerciseID, setID, func(set Set) Set {
		set.IsCompleted = !set.IsCompleted
		return set
	})))
}

// RemoveSet drops a set from an exercise.
func (s *Store) RemoveSet(exerciseID, setID string) {
	s.ReplaceExercises(Update(mapExercise(exerciseID, func(e Exercise) Exercise {
		e.Sets = slices.DeleteFunc(e.Sets, func(set Set) bool { return set.ID == setID })
		return e
	})))
}

// SetWeightUnit changes the unit for sets added from now on and persists it.
// Existing sets keep their unit.
func (s *Store) SetWeightUnit(unit models.WeightUnit) error {
	if !unit.Valid() {
		return fmt.Errorf("invalid weight unit %q", unit)
	}
	s.mu.Lock()
	s.weightUnit = unit
	snap, obs := s.snapshotLocked(), s.observerList()
	s.mu.Unlock()

	notify(obs, snap)

	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.SaveWeightUnit(unit); err != nil {
		s.log.Error("saving weight unit preference", "unit", unit, "error", err)
		return fmt.Errorf("saving weight unit: %w", err)
	}
	return nil
}

// Reset clears all exercises. The weight unit is kept.
func (s *Store) Reset() {
	s.ReplaceExercises(Replace(nil))
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Exercises: cloneExercises(s.exercises), WeightUnit: s.weightUnit}
}

func (s *Store) observerList() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}

func notify(obs []func(Snapshot), snap Snapshot) {
	for _, fn := range obs {
		fn(snap)
	}
}

// mapExercise returns an update that rewrites the exercise with the given id.
func mapExercise(exerciseID string, fn func(Exercise) Exercise) func([]Exercise) []Exercise {
	return func(prev []Exercise) []Exercise {
		for i := range prev {
			if prev[i].ID == exerciseID {
				prev[i] = fn(prev[i])
			}
		}
		return prev
	}
}

// mapSet returns an update that rewrites one set of one exercise.
func mapSet(exerciseID, setID string, fn func(Set) Set) func([]Exercise) []Exercise {
	return mapExercise(exerciseID, func(e Exercise) Exercise {
		for i := range e.Sets {
			if e.Sets[i].ID == setID {
				e.Sets[i] = fn(e.Sets[i])
			}
		}
		return e
	})
}

func cloneExercises(in []Exercise) []Exercise {
	if in == nil {
		return []Exercise{}
	}
	out := make([]Exercise, len(in))
	for i, e := range in {
		e.Sets = append([]Set{}, e.Sets...)
		out[i] = e
	}
	return out
}
