package models

import "strings"

// Difficulty is the catalog difficulty tier of an exercise.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty normalizes a stored tier. Unrecognized or empty values
// return "" (unknown).
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return d
	default:
		return ""
	}
}

// Label returns the display text for the tier.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// CatalogExercise is an entry in the exercise library.
type CatalogExercise struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	ImageRef    *string    `json:"image_ref,omitempty"`
	ImageAlt    *string    `json:"image_alt,omitempty"`
	VideoURL    *string    `json:"video_url,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// ExerciseRef is the minimal id/name pair returned by name lookups.
type ExerciseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
