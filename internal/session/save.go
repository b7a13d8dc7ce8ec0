package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrSaveInProgress is returned when Save is called while another save
	// has not finished.
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrNothingToSave is returned when no exercise has a completed set with
	// both reps and weight filled in.
	ErrNothingToSave = errors.New("no completed sets to save")
)

// ExerciseNotFoundError reports a session exercise with no catalog match.
type ExerciseNotFoundError struct {
	Name string
}

func (e *ExerciseNotFoundError) Error() string {
	return fmt.Sprintf("exercise %q not found in database", e.Name)
}

// Gateway is the part of the remote data gateway the saver needs.
type Gateway interface {
	FetchExerciseByName(ctx context.Context, name string) (*models.ExerciseRef, error)
	CreateWorkout(ctx context.Context, record *models.WorkoutRecord) (string, error)
}

// Saver turns the session into a workout record and submits it. At most one
// save runs at a time.
type Saver struct {
	store  *Store
	gw     Gateway
	timer  Timer
	userID string
	log    *slog.Logger

	inFlight *semaphore.Weighted
	now      func() time.Time
	newKey   func() string
}

// NewSaver creates a Saver for userID's session.
func NewSaver(store *Store, gw Gateway, timer Timer, userID string, log *slog.Logger) *Saver {
	return &Saver{
		store:    store,
		gw:       gw,
		timer:    timer,
		userID:   userID,
		log:      log,
		inFlight: semaphore.NewWeighted(1),
		now:      time.Now,
		newKey:   uuid.NewString,
	}
}

// Save submits the session as a new workout and returns the created id.
// The store is never modified; resetting it after success is up to the caller.
func (s *Saver) Save(ctx context.Context) (string, error) {
	if !s.inFlight.TryAcquire(1) {
		return "", ErrSaveInProgress
	}
	defer s.inFlight.Release(1)

	duration := s.timer.ElapsedSeconds()
	exercises := s.store.Exercises()

	refs, err := s.resolve(ctx, exercises)
	if err != nil {
		s.log.Error("save workout: resolving exercises", "user", s.userID, "error", err)
		return "", err
	}

	entries := Aggregate(exercises, refs, s.newKey)
	if len(entries) == 0 {
		s.log.Info("save workout: nothing to save", "user", s.userID, "exercises", len(exercises))
		return "", ErrNothingToSave
	}

	record := &models.WorkoutRecord{
		UserID:      s.userID,
		Date:        s.now().UTC(),
		DurationSec: duration,
		Exercises:   entries,
	}

	id, err := s.gw.CreateWorkout(ctx, record)
	if err != nil {
		s.log.Error("save workout: create failed", "user", s.userID, "error", err)
		return "", fmt.Errorf("creating workout: %w", err)
	}

	s.log.Info("workout saved", "user", s.userID, "id", id,
		"exercises", len(entries), "duration_sec", duration)
	return id, nil
}

// resolve looks up every exercise by name concurrently and returns catalog
// ids keyed by local exercise id. Any miss fails the whole lookup.
func (s *Saver) resolve(ctx context.Context, exercises []Exercise) (map[string]string, error) {
	ids := make([]string, len(exercises))

	g, ctx := errgroup.WithContext(ctx)
	for i, ex := range exercises {
		g.Go(func() error {
			ref, err := s.gw.FetchExerciseByName(ctx, ex.Name)
			if err != nil {
				return fmt.Errorf("looking up %q: %w", ex.Name, err)
			}
			if ref == nil {
				return &ExerciseNotFoundError{Name: ex.Name}
			}
			ids[i] = ref.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make(map[string]string, len(exercises))
	for i, ex := range exercises {
		refs[ex.ID] = ids[i]
	}
	return refs, nil
}

// Aggregate converts session exercises into record entries. Only completed
// sets with non-empty reps and weight are kept; reps and weight that fail to
// parse become 0. Exercises left with no sets are dropped. refs maps local
// exercise ids to catalog ids.
func Aggregate(exercises []Exercise, refs map[string]string, newKey func() string) []models.RecordExercise {
	var out []models.RecordExercise
	for _, ex := range exercises {
		var sets []models.RecordSet
		for _, set := range ex.Sets {
			reps := strings.TrimSpace(set.Reps)
			weight := strings.TrimSpace(set.Weight)
			if !set.IsCompleted || reps == "" || weight == "" {
				continue
			}
			sets = append(sets, models.RecordSet{
				Key:        newKey(),
				Reps:       parseReps(reps),
				Weight:     parseWeight(weight),
				WeightUnit: set.WeightUnit,
			})
		}
		if len(sets) == 0 {
			continue
		}
		out = append(out, models.RecordExercise{
			Key:        newKey(),
			ExerciseID: refs[ex.ID],
			Name:       ex.Name,
			Sets:       sets,
		})
	}
	return out
}

// parseReps reads the leading integer of s, falling back to 0.
func parseReps(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseWeight reads the leading decimal number of s, falling back to 0.
func parseWeight(s string) float64 {
	end, dot := 0, false
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) {
		c := s[end]
		if c == '.' && !dot {
			dot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// UserMessage returns the text to show the user for a Save error.
func UserMessage(err error) string {
	var notFound *ExerciseNotFoundError
	switch {
	case err == nil:
		return "Your workout has been saved successfully."
	case errors.Is(err, ErrNothingToSave):
		return "Please complete at least one set before saving the workout."
	case errors.Is(err, ErrSaveInProgress):
		return "Your workout is already being saved."
	case errors.As(err, &notFound):
		return fmt.Sprintf("Exercise: %s not found in database", notFound.Name)
	default:
		return "There was an error saving your workout. Please try again."
	}
}
