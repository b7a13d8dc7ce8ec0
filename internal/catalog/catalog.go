// Package catalog reads exercise library seed files.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"gopkg.in/yaml.v3"
)

type file struct {
	Exercises []entry `yaml:"exercises"`
}

type entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	Image       *struct {
		Ref string `yaml:"ref"`
		Alt string `yaml:"alt"`
	} `yaml:"image"`
	VideoURL string `yaml:"video_url"`
	Active   *bool  `yaml:"active"`
}

// Load reads a YAML seed file.
func Load(path string) ([]models.CatalogExercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Entries default to active; names must be unique.
func Parse(data []byte) ([]models.CatalogExercise, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	seen := make(map[string]bool, len(f.Exercises))
	out := make([]models.CatalogExercise, 0, len(f.Exercises))
	for i, e := range f.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("exercises[%d]: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("exercises[%d]: duplicate name %q", i, name)
		}
		seen[name] = true

		if e.Difficulty != "" && models.ParseDifficulty(e.Difficulty) == "" {
			return nil, fmt.Errorf("exercises[%d]: unknown difficulty %q", i, e.Difficulty)
		}

		ex := models.CatalogExercise{
			Name:        name,
			Description: strings.TrimSpace(e.Description),
			Difficulty:  models.ParseDifficulty(e.Difficulty),
			IsActive:    e.Active == nil || *e.Active,
		}
		if e.Image != nil && e.Image.Ref != "" {
			ref, alt := e.Image.Ref, e.Image.Alt
			ex.ImageRef = &ref
			if alt != "" {
				ex.ImageAlt = &alt
			}
		}
		if e.VideoURL != "" {
			v := e.VideoURL
			ex.VideoURL = &v
		}
		out = append(out, ex)
	}
	return out, nil
}
