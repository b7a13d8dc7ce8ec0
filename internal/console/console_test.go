package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	mu      sync.Mutex
	catalog []models.CatalogExercise
	saved   []*models.WorkoutRecord
	deleted []string
}

func (f *fakeRemote) FetchCatalog(_ context.Context, query string) ([]models.CatalogExercise, error) {
	var out []models.CatalogExercise
	for _, ex := range f.catalog {
		if strings.Contains(strings.ToLower(ex.Name), strings.ToLower(query)) {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (f *fakeRemote) FetchExerciseByName(_ context.Context, name string) (*models.ExerciseRef, error) {
	for _, ex := range f.catalog {
		if ex.Name == name {
			return &models.ExerciseRef{ID: ex.ID, Name: ex.Name}, nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) CreateWorkout(_ context.Context, rec *models.WorkoutRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = "w-new"
	f.saved = append(f.saved, rec)
	return rec.ID, nil
}

func (f *fakeRemote) FetchWorkoutHistory(_ context.Context, userID string) ([]models.WorkoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WorkoutRecord
	for _, w := range f.saved {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeRemote) FetchProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	history, _ := f.FetchWorkoutHistory(ctx, userID)
	st := models.ComputeProfileStats(history)
	return &st, nil
}

func (f *fakeRemote) DeleteWorkout(_ context.Context, id string) error {
	if id != "w-new" {
		return errors.New("workout not found")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type echoGuide struct{}

func (echoGuide) Generate(_ context.Context, name string) (string, error) {
	return "## Instructions\n1. Do " + name, nil
}

type harness struct {
	console *Console
	store   *session.Store
	remote  *fakeRemote
	out     *bytes.Buffer
	clock   *time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	clock := &now
	remote := &fakeRemote{catalog: []models.CatalogExercise{
		{ID: "e1", Name: "Squats", Difficulty: models.DifficultyBeginner},
		{ID: "e2", Name: "Bench Press", Difficulty: models.DifficultyIntermediate},
	}}
	store := session.NewStore(nil, log)
	watch := session.NewStopwatch(func() time.Time { return *clock })
	saver := session.NewSaver(store, remote, watch, "user-1", log)
	out := &bytes.Buffer{}
	c := New(store, saver, remote, echoGuide{}, watch, "user-1", strings.NewReader(""), out, log)
	return &harness{console: c, store: store, remote: remote, out: out, clock: clock}
}

func (h *harness) exec(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, h.console.Exec(context.Background(), line), line)
	}
}

func TestConsole_BuildAndSaveWorkout(t *testing.T) {
	h := newHarness(t)

	h.exec(t,
		"add squats",
		"set 1",
		"reps 1 1 10",
		"weight 1 1 135",
		"done 1 1",
		"set 1",
		"reps 1 2 8",
	)

	ex := h.store.Exercises()
	require.Len(t, ex, 1)
	assert.Equal(t, "Squats", ex[0].Name, "canonical catalog spelling is used")
	assert.Equal(t, "e1", ex[0].CatalogID)
	require.Len(t, ex[0].Sets, 2)

	*h.clock = h.clock.Add(61 * time.Minute)
	h.exec(t, "list")
	assert.Contains(t, h.out.String(), "61:00")

	h.exec(t, "save")
	require.Len(t, h.remote.saved, 1)
	rec := h.remote.saved[0]
	assert.Equal(t, 3660, rec.DurationSec)
	require.Len(t, rec.Exercises, 1)
	require.Len(t, rec.Exercises[0].Sets, 1, "only the completed set is saved")
	assert.Equal(t, 10, rec.Exercises[0].Sets[0].Reps)
	assert.Empty(t, h.store.Exercises(), "store resets after a save")
	assert.Contains(t, h.out.String(), "Your workout has been saved successfully.")

	h.out.Reset()
	h.exec(t, "history")
	assert.Contains(t, h.out.String(), "Today")
	assert.Contains(t, h.out.String(), "1h 1m")
	assert.Contains(t, h.out.String(), "1350 lbs")

	h.out.Reset()
	h.exec(t, "stats")
	assert.Contains(t, h.out.String(), "Total workouts:   1")
}

func TestConsole_CompletedSetIsLocked(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "add Squats", "set 1", "reps 1 1 5", "weight 1 1 100", "done 1 1")

	err := h.console.Exec(context.Background(), "reps 1 1 99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")
	assert.Error(t, h.console.Exec(context.Background(), "weight 1 1 300"))

	set := h.store.Exercises()[0].Sets[0]
	assert.Equal(t, "5", set.Reps)
	assert.Equal(t, "100", set.Weight)

	h.exec(t, "done 1 1", "reps 1 1 99")
	assert.Equal(t, "99", h.store.Exercises()[0].Sets[0].Reps, "reopened set is editable")
}

func TestConsole_NothingToSave(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "add Bench Press", "set 1")

	err := h.console.Exec(context.Background(), "save")
	require.Error(t, err)
	assert.Equal(t, "Please complete at least one set before saving the workout.", err.Error())
	assert.Empty(t, h.remote.saved)
	assert.Len(t, h.store.Exercises(), 1, "session is kept on failure")
}

func TestConsole_UnknownExerciseFailsSave(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "add Burpees", "set 1", "reps 1 1 10", "weight 1 1 0", "done 1 1")
	assert.Contains(t, h.out.String(), "not in the catalog")

	err := h.console.Exec(context.Background(), "save")
	require.Error(t, err)
	assert.Equal(t, "Exercise: Burpees not found in database", err.Error())
	assert.Empty(t, h.remote.saved)
}

func TestConsole_UnitAndRemove(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "unit kg", "add Squats", "set 1", "set 1", "rm 1 1")

	assert.Equal(t, models.Kilograms, h.store.WeightUnit())
	ex := h.store.Exercises()
	require.Len(t, ex[0].Sets, 1)
	assert.Equal(t, models.Kilograms, ex[0].Sets[0].WeightUnit)

	h.exec(t, "rm 1")
	assert.Empty(t, h.store.Exercises())

	assert.Error(t, h.console.Exec(context.Background(), "unit stone"))
	assert.Error(t, h.console.Exec(context.Background(), "reps 3 1 5"))
	assert.Error(t, h.console.Exec(context.Background(), "frobnicate"))
}

func TestConsole_CancelResetsTimer(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "add Squats")
	*h.clock = h.clock.Add(5 * time.Minute)
	h.exec(t, "cancel")

	assert.Empty(t, h.store.Exercises())
	assert.Equal(t, 0, h.console.stopwatch.ElapsedSeconds())
}

func TestConsole_GuideAndDelete(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "guide Bench Press")
	assert.Contains(t, h.out.String(), "1. Do Bench Press")

	h.exec(t, "delete w-new")
	assert.Equal(t, []string{"w-new"}, h.remote.deleted)
	assert.Error(t, h.console.Exec(context.Background(), "delete nope"))
}

func TestConsole_RunReadsUntilQuit(t *testing.T) {
	h := newHarness(t)
	h.console.in = strings.NewReader("add Squats\nbogus\nquit\nadd Bench Press\n")

	require.NoError(t, h.console.Run(context.Background()))
	assert.Len(t, h.store.Exercises(), 1)
	assert.Contains(t, h.out.String(), `unknown command "bogus"`)
}
