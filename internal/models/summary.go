package models

import "math"

// TotalSets counts the sets across all exercises of a workout.
func (w *WorkoutRecord) TotalSets() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// ExerciseNames lists the resolved exercise names in order, skipping blanks.
func (w *WorkoutRecord) ExerciseNames() []string {
	var names []string
	for _, ex := range w.Exercises {
		if ex.Name != "" {
			names = append(names, ex.Name)
		}
	}
	return names
}

// Volume sums weight*reps over sets that have both. The unit reported is the
// unit of the last counted set, defaulting to lbs.
func (w *WorkoutRecord) Volume() (float64, WeightUnit) {
	total := 0.0
	unit := DefaultWeightUnit
	for _, ex := range w.Exercises {
		for _, s := range ex.Sets {
			if s.Weight != 0 && s.Reps != 0 {
				total += s.Weight * float64(s.Reps)
				if s.WeightUnit != "" {
					unit = s.WeightUnit
				}
			}
		}
	}
	return total, unit
}

// Volume sums weight*reps for a single exercise entry.
func (e *RecordExercise) Volume() float64 {
	total := 0.0
	for _, s := range e.Sets {
		total += s.Weight * float64(s.Reps)
	}
	return total
}

// ProfileStats aggregates a user's workout history.
type ProfileStats struct {
	TotalWorkouts      int     `json:"total_workouts"`
	TotalDurationSec   int     `json:"total_duration_sec"`
	AverageDurationSec int     `json:"average_duration_sec"`
	TotalSets          int     `json:"total_sets"`
	TotalVolume        float64 `json:"total_volume"`
}

// ComputeProfileStats folds a history into profile totals. The average is
// rounded to the nearest second.
func ComputeProfileStats(history []WorkoutRecord) ProfileStats {
	var st ProfileStats
	for i := range history {
		w := &history[i]
		st.TotalWorkouts++
		st.TotalDurationSec += w.DurationSec
		st.TotalSets += w.TotalSets()
		vol, _ := w.Volume()
		st.TotalVolume += vol
	}
	if st.TotalWorkouts > 0 {
		st.AverageDurationSec = int(math.Round(float64(st.TotalDurationSec) / float64(st.TotalWorkouts)))
	}
	return st
}
