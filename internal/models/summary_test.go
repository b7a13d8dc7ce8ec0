package models

import (
	"testing"
	"time"
)

func sampleRecord(duration int) WorkoutRecord {
	return WorkoutRecord{
		ID:          "w1",
		UserID:      "user_1",
		Date:        time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationSec: duration,
		Exercises: []RecordExercise{
			{Key: "a", ExerciseID: "ex-bench", Name: "Bench Press", Sets: []RecordSet{
				{Key: "s1", Reps: 10, Weight: 100, WeightUnit: Pounds},
				{Key: "s2", Reps: 8, Weight: 110, WeightUnit: Pounds},
			}},
			{Key: "b", ExerciseID: "ex-pushup", Name: "", Sets: []RecordSet{
				{Key: "s1", Reps: 20, Weight: 0, WeightUnit: Kilograms},
			}},
		},
	}
}

// TestTotalSets verifies sets are counted across every exercise entry.
func TestTotalSets(t *testing.T) {
	w := sampleRecord(60)
	if got := w.TotalSets(); got != 3 {
		t.Errorf("TotalSets() = %d, want 3", got)
	}
}

// TestVolumeSkipsZeroWeight verifies bodyweight sets (weight 0) do not
// contribute to volume and do not change the reported unit.
func TestVolumeSkipsZeroWeight(t *testing.T) {
	w := sampleRecord(60)
	vol, unit := w.Volume()
	if vol != 1880 {
		t.Errorf("volume = %v, want 1880", vol)
	}
	if unit != Pounds {
		t.Errorf("unit = %q, want lbs", unit)
	}
}

// TestExerciseNamesSkipsUnresolved verifies blank names are left out.
func TestExerciseNamesSkipsUnresolved(t *testing.T) {
	w := sampleRecord(60)
	names := w.ExerciseNames()
	if len(names) != 1 || names[0] != "Bench Press" {
		t.Errorf("ExerciseNames() = %v, want [Bench Press]", names)
	}
}

// TestComputeProfileStats verifies totals and the rounded average duration.
func TestComputeProfileStats(t *testing.T) {
	st := ComputeProfileStats([]WorkoutRecord{sampleRecord(100), sampleRecord(201)})
	if st.TotalWorkouts != 2 {
		t.Errorf("TotalWorkouts = %d, want 2", st.TotalWorkouts)
	}
	if st.TotalDurationSec != 301 {
		t.Errorf("TotalDurationSec = %d, want 301", st.TotalDurationSec)
	}
	if st.AverageDurationSec != 151 {
		t.Errorf("AverageDurationSec = %d, want 151", st.AverageDurationSec)
	}
	if st.TotalSets != 6 {
		t.Errorf("TotalSets = %d, want 6", st.TotalSets)
	}

	empty := ComputeProfileStats(nil)
	if empty.AverageDurationSec != 0 || empty.TotalWorkouts != 0 {
		t.Errorf("empty stats = %+v, want zero", empty)
	}
}

// TestValidate covers the record checks applied before a write.
func TestValidate(t *testing.T) {
	ok := sampleRecord(10)
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(w *WorkoutRecord)
	}{
		{"missing user", func(w *WorkoutRecord) { w.UserID = "" }},
		{"zero date", func(w *WorkoutRecord) { w.Date = time.Time{} }},
		{"negative duration", func(w *WorkoutRecord) { w.DurationSec = -1 }},
		{"no exercises", func(w *WorkoutRecord) { w.Exercises = nil }},
		{"missing ref", func(w *WorkoutRecord) { w.Exercises[0].ExerciseID = "" }},
		{"empty sets", func(w *WorkoutRecord) { w.Exercises[1].Sets = nil }},
		{"negative reps", func(w *WorkoutRecord) { w.Exercises[0].Sets[0].Reps = -3 }},
		{"bad unit", func(w *WorkoutRecord) { w.Exercises[0].Sets[1].WeightUnit = "stone" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sampleRecord(10)
			tt.mutate(&w)
			if err := w.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestDifficulty verifies parsing and display labels, including the unknown tier.
func TestDifficulty(t *testing.T) {
	tests := []struct {
		in    string
		want  Difficulty
		label string
	}{
		{"beginner", DifficultyBeginner, "Beginner"},
		{" Advanced ", DifficultyAdvanced, "Advanced"},
		{"intermediate", DifficultyIntermediate, "Intermediate"},
		{"", "", "Unknown"},
		{"elite", "", "Unknown"},
	}
	for _, tt := range tests {
		d := ParseDifficulty(tt.in)
		if d != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, d, tt.want)
		}
		if d.Label() != tt.label {
			t.Errorf("Label(%q) = %q, want %q", d, d.Label(), tt.label)
		}
	}
}

// TestParseWeightUnit verifies only lbs and kg are accepted.
func TestParseWeightUnit(t *testing.T) {
	if u, err := ParseWeightUnit("kg"); err != nil || u != Kilograms {
		t.Errorf("ParseWeightUnit(kg) = %q, %v", u, err)
	}
	if _, err := ParseWeightUnit("KG"); err == nil {
		t.Error("expected error for upper-case unit")
	}
}
