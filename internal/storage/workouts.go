package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertWorkout writes a workout with its exercises and sets in one
// transaction and returns the new id.
func (db *DB) InsertWorkout(ctx context.Context, rec *models.WorkoutRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidWorkout, err)
	}

	exerciseIDs := make([]uuid.UUID, len(rec.Exercises))
	for i, ex := range rec.Exercises {
		id, err := uuid.Parse(ex.ExerciseID)
		if err != nil {
			return "", fmt.Errorf("%w: exercises[%d]: unknown exercise %q", ErrInvalidWorkout, i, ex.ExerciseID)
		}
		exerciseIDs[i] = id
	}

	workoutID := uuid.New()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning workout insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, date, duration_sec) VALUES ($1, $2, $3, $4)`,
		workoutID, rec.UserID, rec.Date, rec.DurationSec)
	if err != nil {
		return "", fmt.Errorf("inserting workout: %w", err)
	}

	batch := &pgx.Batch{}
	for i, ex := range rec.Exercises {
		batch.Queue(
			`INSERT INTO workout_exercises (workout_id, position, key, exercise_id) VALUES ($1, $2, $3, $4)`,
			workoutID, i, ex.Key, exerciseIDs[i])
		for j, s := range ex.Sets {
			batch.Queue(
				`INSERT INTO workout_sets (workout_id, exercise_position, position, key, reps, weight, weight_unit)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				workoutID, i, j, s.Key, s.Reps, s.Weight, string(s.WeightUnit))
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("%w: references an unknown exercise", ErrInvalidWorkout)
		}
		return "", fmt.Errorf("inserting workout entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing workout: %w", err)
	}
	return workoutID.String(), nil
}

// DeleteWorkout removes a workout and its entries. Returns false if it did
// not exist.
func (db *DB) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	workoutID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, workoutID)
	if err != nil {
		return false, fmt.Errorf("deleting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const workoutSelect = `SELECT w.id, w.user_id, w.date, w.duration_sec,
	 we.position, we.key, we.exercise_id, e.name,
	 ws.key, ws.reps, ws.weight, ws.weight_unit
	 FROM workouts w
	 LEFT JOIN workout_exercises we ON we.workout_id = w.id
	 LEFT JOIN exercises e ON e.id = we.exercise_id
	 LEFT JOIN workout_sets ws ON ws.workout_id = we.workout_id AND ws.exercise_position = we.position`

// QueryWorkouts returns a user's workouts, newest first, with exercise names
// resolved.
func (db *DB) QueryWorkouts(ctx context.Context, userID string) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx,
		workoutSelect+`
		 WHERE w.user_id = $1
		 ORDER BY w.date DESC, w.id, we.position, ws.position`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	flat, err := scanWorkoutRows(rows)
	if err != nil {
		return nil, err
	}
	return assembleWorkouts(flat), nil
}

// GetWorkout returns one workout, or nil if it does not exist.
func (db *DB) GetWorkout(ctx context.Context, id string) (*models.WorkoutRecord, error) {
	workoutID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	rows, err := db.Pool.Query(ctx,
		workoutSelect+`
		 WHERE w.id = $1
		 ORDER BY we.position, ws.position`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	defer rows.Close()

	flat, err := scanWorkoutRows(rows)
	if err != nil {
		return nil, err
	}
	workouts := assembleWorkouts(flat)
	if len(workouts) == 0 {
		return nil, nil
	}
	return &workouts[0], nil
}

// GetProfileStats summarizes a user's whole history.
func (db *DB) GetProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	history, err := db.QueryWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeProfileStats(history)
	return &stats, nil
}

// workoutRow is one row of the workout/exercise/set join. Exercise and set
// columns are nil when the left join found nothing.
type workoutRow struct {
	WorkoutID   uuid.UUID
	UserID      string
	Date        time.Time
	DurationSec int

	Position     *int
	ExerciseKey  *string
	ExerciseID   *uuid.UUID
	ExerciseName *string

	SetKey     *string
	Reps       *int
	Weight     *float64
	WeightUnit *string
}

func scanWorkoutRows(rows pgx.Rows) ([]workoutRow, error) {
	var result []workoutRow
	for rows.Next() {
		var r workoutRow
		if err := rows.Scan(&r.WorkoutID, &r.UserID, &r.Date, &r.DurationSec,
			&r.Position, &r.ExerciseKey, &r.ExerciseID, &r.ExerciseName,
			&r.SetKey, &r.Reps, &r.Weight, &r.WeightUnit); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// assembleWorkouts folds ordered join rows back into nested records. Rows
// must be grouped by workout and ordered by exercise then set position.
func assembleWorkouts(rows []workoutRow) []models.WorkoutRecord {
	result := []models.WorkoutRecord{}
	var cur *models.WorkoutRecord
	lastPos := -1

	for _, r := range rows {
		if cur == nil || cur.ID != r.WorkoutID.String() {
			result = append(result, models.WorkoutRecord{
				ID:          r.WorkoutID.String(),
				UserID:      r.UserID,
				Date:        r.Date.UTC(),
				DurationSec: r.DurationSec,
				Exercises:   []models.RecordExercise{},
			})
			cur = &result[len(result)-1]
			lastPos = -1
		}
		if r.Position == nil {
			continue
		}
		if *r.Position != lastPos {
			ex := models.RecordExercise{Sets: []models.RecordSet{}}
			if r.ExerciseKey != nil {
				ex.Key = *r.ExerciseKey
			}
			if r.ExerciseID != nil {
				ex.ExerciseID = r.ExerciseID.String()
			}
			if r.ExerciseName != nil {
				ex.Name = *r.ExerciseName
			}
			cur.Exercises = append(cur.Exercises, ex)
			lastPos = *r.Position
		}
		if r.SetKey == nil {
			continue
		}
		set := models.RecordSet{Key: *r.SetKey}
		if r.Reps != nil {
			set.Reps = *r.Reps
		}
		if r.Weight != nil {
			set.Weight = *r.Weight
		}
		if r.WeightUnit != nil {
			set.WeightUnit = models.WeightUnit(*r.WeightUnit)
		}
		ex := &cur.Exercises[len(cur.Exercises)-1]
		ex.Sets = append(ex.Sets, set)
	}
	return result
}
