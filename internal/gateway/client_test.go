package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchExerciseByName_CachesHits(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/exercises/lookup", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("name") != "Squats" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.ExerciseRef{ID: "ex-1", Name: "Squats"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	ref, err := c.FetchExerciseByName(ctx, "Squats")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "ex-1", ref.ID)

	ref, err = c.FetchExerciseByName(ctx, "Squats")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int32(1), calls.Load(), "second lookup should be served from cache")

	missing, err := c.FetchExerciseByName(ctx, "Burpees")
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, _ = c.FetchExerciseByName(ctx, "Burpees")
	assert.Equal(t, int32(3), calls.Load(), "misses are not cached")
}

func TestFetchExerciseByName_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
	}))

	_, err := c.FetchExerciseByName(context.Background(), "Squats")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "database unavailable", se.Message)
}

func TestCreateWorkout(t *testing.T) {
	var got struct {
		WorkoutData models.WorkoutRecord `json:"workoutData"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workouts", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Workout saved successfully",
			"workoutId": "w-42",
		})
	}))

	rec := &models.WorkoutRecord{
		UserID:      "user-1",
		Date:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		DurationSec: 1800,
		Exercises: []models.RecordExercise{{
			Key:        "k1",
			ExerciseID: "ex-1",
			Sets:       []models.RecordSet{{Key: "s1", Reps: 10, Weight: 135, WeightUnit: models.Pounds}},
		}},
	}
	id, err := c.CreateWorkout(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "w-42", id)
	assert.Equal(t, "user-1", got.WorkoutData.UserID)
	require.Len(t, got.WorkoutData.Exercises, 1)
	assert.Equal(t, 135.0, got.WorkoutData.Exercises[0].Sets[0].Weight)
}

func TestCreateWorkout_Failure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Error saving workout"})
	}))

	_, err := c.CreateWorkout(context.Background(), &models.WorkoutRecord{UserID: "u"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Error saving workout", se.Message)
}

func TestDeleteWorkout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "w-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Workout deleted successfully"})
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.DeleteWorkout(context.Background(), "w-1"))
	assert.ErrorIs(t, c.DeleteWorkout(context.Background(), "w-2"), ErrWorkoutNotFound)
}

func TestFetchWorkoutByID_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	}))

	rec, err := c.FetchWorkoutByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchHistoryAndStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{userID}/workouts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.WorkoutRecord{
			{ID: "w2", UserID: r.PathValue("userID"), DurationSec: 60},
			{ID: "w1", UserID: r.PathValue("userID"), DurationSec: 120},
		})
	})
	mux.HandleFunc("GET /api/v1/users/{userID}/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.ProfileStats{TotalWorkouts: 2, TotalDurationSec: 180, AverageDurationSec: 90})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	history, err := c.FetchWorkoutHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "w2", history[0].ID)
	assert.Equal(t, "user-1", history[0].UserID)

	st, err := c.FetchProfileStats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 90, st.AverageDurationSec)
}

func TestFetchCatalog_PassesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"), "reads do not send the key")
		assert.Equal(t, "press", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, []models.CatalogExercise{{ID: "1", Name: "Bench Press", Difficulty: models.DifficultyIntermediate}})
	}))

	list, err := c.FetchCatalog(context.Background(), "press")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Intermediate", list[0].Difficulty.Label())
}
