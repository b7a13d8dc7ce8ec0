package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/ironlog/internal/models"
)

const seedYAML = `
exercises:
  - name: Push Ups
    description: Bodyweight press from a plank position.
    difficulty: beginner
    image:
      ref: image-pushups
      alt: Push up at the bottom position
  - name: Barbell Squat
    difficulty: Intermediate
    video_url: https://example.com/squat
  - name: Muscle Up
    active: false
`

// TestParse verifies defaults, optional fields and difficulty normalization.
func TestParse(t *testing.T) {
	got, err := Parse([]byte(seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	push := got[0]
	if push.Difficulty != models.DifficultyBeginner || !push.IsActive {
		t.Errorf("push = %+v", push)
	}
	if push.ImageRef == nil || *push.ImageRef != "image-pushups" || push.ImageAlt == nil {
		t.Errorf("push image = %v / %v", push.ImageRef, push.ImageAlt)
	}

	squat := got[1]
	if squat.Difficulty != models.DifficultyIntermediate {
		t.Errorf("squat difficulty = %q", squat.Difficulty)
	}
	if squat.VideoURL == nil || *squat.VideoURL != "https://example.com/squat" {
		t.Errorf("squat video = %v", squat.VideoURL)
	}
	if squat.ImageRef != nil {
		t.Errorf("squat image = %v, want nil", *squat.ImageRef)
	}

	if got[2].IsActive {
		t.Error("muscle up should be inactive")
	}
	if got[2].Difficulty.Label() != "Unknown" {
		t.Errorf("muscle up label = %q", got[2].Difficulty.Label())
	}
}

// TestParseRejects covers entries that cannot be seeded.
func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"missing name":   "exercises:\n  - description: x\n",
		"duplicate name": "exercises:\n  - name: A\n  - name: A\n",
		"bad difficulty": "exercises:\n  - name: A\n    difficulty: elite\n",
		"bad yaml":       "exercises: [",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestLoadMissingFile verifies a missing seed file is reported.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestLoadFile verifies Load reads from disk.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}
