package models

import (
	"fmt"
	"math"
	"time"
)

// WeightUnit is the unit a set's weight was entered in.
type WeightUnit string

const (
	Pounds    WeightUnit = "lbs"
	Kilograms WeightUnit = "kg"
)

// DefaultWeightUnit is used when no preference has been stored.
const DefaultWeightUnit = Pounds

// Valid reports whether u is one of the supported units.
func (u WeightUnit) Valid() bool {
	return u == Pounds || u == Kilograms
}

// ParseWeightUnit parses "lbs" or "kg".
func ParseWeightUnit(s string) (WeightUnit, error) {
	u := WeightUnit(s)
	if !u.Valid() {
		return "", fmt.Errorf("unknown weight unit %q (want lbs or kg)", s)
	}
	return u, nil
}

// WorkoutRecord is a saved workout.
type WorkoutRecord struct {
	ID          string           `json:"id,omitempty"`
	UserID      string           `json:"userId"`
	Date        time.Time        `json:"date"`
	DurationSec int              `json:"duration"`
	Exercises   []RecordExercise `json:"exercises"`
}

// RecordExercise is one exercise entry of a saved workout. Name is only
// populated when the record is read back with its exercise reference resolved.
type RecordExercise struct {
	Key        string      `json:"key"`
	ExerciseID string      `json:"exerciseId"`
	Name       string      `json:"name,omitempty"`
	Sets       []RecordSet `json:"sets"`
}

// RecordSet is one completed set of a saved workout.
type RecordSet struct {
	Key        string     `json:"key"`
	Reps       int        `json:"reps"`
	Weight     float64    `json:"weight"`
	WeightUnit WeightUnit `json:"weightUnit"`
}

// Validate checks the record before it is written. It mirrors the document
// schema: a user, a non-negative duration, and at least one set per exercise.
func (w *WorkoutRecord) Validate() error {
	if w.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if w.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if w.DurationSec < 0 {
		return fmt.Errorf("duration must be >= 0")
	}
	if len(w.Exercises) == 0 {
		return fmt.Errorf("at least one exercise is required")
	}
	for i, ex := range w.Exercises {
		if ex.ExerciseID == "" {
			return fmt.Errorf("exercises[%d]: exercise reference is required", i)
		}
		if len(ex.Sets) == 0 {
			return fmt.Errorf("exercises[%d]: at least one set is required", i)
		}
		for j, s := range ex.Sets {
			if s.Reps < 0 || s.Weight < 0 {
				return fmt.Errorf("exercises[%d].sets[%d]: reps and weight must be >= 0", i, j)
			}
			if s.Reps > math.MaxInt32 {
				return fmt.Errorf("exercises[%d].sets[%d]: reps out of range", i, j)
			}
			if !s.WeightUnit.Valid() {
				return fmt.Errorf("exercises[%d].sets[%d]: invalid weight unit %q", i, j, s.WeightUnit)
			}
		}
	}
	return nil
}
