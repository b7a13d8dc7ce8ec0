package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

const exerciseColumns = `id, name, description, difficulty, image_ref, image_alt, video_url, is_active`

// ListExercises returns the catalog ordered by name. A non-empty query keeps
// only exercises whose name contains it, case-insensitively.
func (db *DB) ListExercises(ctx context.Context, query string) ([]models.CatalogExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY name ASC`,
		query)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.CatalogExercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ex)
	}
	return result, rows.Err()
}

// GetExercise returns a catalog exercise, or nil if there is none with that id.
func (db *DB) GetExercise(ctx context.Context, id string) (*models.CatalogExercise, error) {
	exerciseID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, exerciseID)
	ex, err := scanExercise(row)
	if isNoRows(err) {
		return nil, nil
	}
	return ex, err
}

// FindExerciseByName returns the exercise whose name matches exactly, or nil.
func (db *DB) FindExerciseByName(ctx context.Context, name string) (*models.ExerciseRef, error) {
	var id uuid.UUID
	var ref models.ExerciseRef
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name FROM exercises WHERE name = $1 LIMIT 1`, name,
	).Scan(&id, &ref.Name)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding exercise %q: %w", name, err)
	}
	ref.ID = id.String()
	return &ref, nil
}

// UpsertExercises inserts catalog entries, updating existing ones matched by
// name. Returns the number of rows written.
func (db *DB) UpsertExercises(ctx context.Context, exercises []models.CatalogExercise) (int, error) {
	written := 0
	for _, ex := range exercises {
		var difficulty *string
		if ex.Difficulty != "" {
			d := string(ex.Difficulty)
			difficulty = &d
		}
		tag, err := db.Pool.Exec(ctx,
			`INSERT INTO exercises (name, description, difficulty, image_ref, image_alt, video_url, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (name) DO UPDATE SET
			     description = EXCLUDED.description,
			     difficulty  = EXCLUDED.difficulty,
			     image_ref   = EXCLUDED.image_ref,
			     image_alt   = EXCLUDED.image_alt,
			     video_url   = EXCLUDED.video_url,
			     is_active   = EXCLUDED.is_active`,
			ex.Name, ex.Description, difficulty, ex.ImageRef, ex.ImageAlt, ex.VideoURL, ex.IsActive)
		if err != nil {
			return written, fmt.Errorf("upserting exercise %q: %w", ex.Name, err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

func scanExercise(row interface{ Scan(dest ...any) error }) (*models.CatalogExercise, error) {
	var (
		ex         models.CatalogExercise
		id         uuid.UUID
		difficulty *string
	)
	if err := row.Scan(&id, &ex.Name, &ex.Description, &difficulty,
		&ex.ImageRef, &ex.ImageAlt, &ex.VideoURL, &ex.IsActive); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	ex.ID = id.String()
	if difficulty != nil {
		ex.Difficulty = models.ParseDifficulty(*difficulty)
	}
	return &ex, nil
}
