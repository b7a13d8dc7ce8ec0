package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.ListExercises(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		s.log.Error("list exercises", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.CatalogExercise{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.db.GetExercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("get exercise", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ex == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// handleLookupExercise resolves an exact exercise name to its catalog reference.
func (s *Server) handleLookupExercise(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}

	ref, err := s.db.FindExerciseByName(r.Context(), name)
	if err != nil {
		s.log.Error("lookup exercise", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ref == nil {
		if s.metrics != nil {
			s.metrics.ExerciseLookupMisses.Inc()
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Exercise: " + name + " not found in database"})
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.QueryWorkouts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.log.Error("query workouts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if workouts == nil {
		workouts = []models.WorkoutRecord{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, err := s.db.GetWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("get workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if workout == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleProfileStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.db.GetProfileStats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.log.Error("profile stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type createWorkoutRequest struct {
	WorkoutData *models.WorkoutRecord `json:"workoutData"`
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.rejectWorkout(w, "invalid JSON: "+err.Error())
		return
	}
	if req.WorkoutData == nil {
		s.rejectWorkout(w, "workoutData is required")
		return
	}

	id, err := s.db.InsertWorkout(r.Context(), req.WorkoutData)
	if errors.Is(err, storage.ErrInvalidWorkout) {
		s.log.Warn("workout rejected", "user", req.WorkoutData.UserID, "error", err)
		s.rejectWorkout(w, err.Error())
		return
	}
	if err != nil {
		s.log.Error("save workout", "user", req.WorkoutData.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Error saving workout"})
		return
	}

	if s.metrics != nil {
		s.metrics.WorkoutsCreated.Inc()
	}
	s.log.Info("workout saved", "id", id, "user", req.WorkoutData.UserID, "exercises", len(req.WorkoutData.Exercises))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Workout saved successfully",
		"workoutId": id,
	})
}

func (s *Server) rejectWorkout(w http.ResponseWriter, msg string) {
	if s.metrics != nil {
		s.metrics.WorkoutsRejected.Inc()
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": msg})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := s.db.DeleteWorkout(r.Context(), id)
	if err != nil {
		s.log.Error("delete workout", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to delete workout"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "workout not found"})
		return
	}

	if s.metrics != nil {
		s.metrics.WorkoutsDeleted.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Workout deleted successfully"})
}

func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseName string `json:"exerciseName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ExerciseName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Exercise name is required"})
		return
	}
	if s.gen == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "AI guidance is not configured"})
		return
	}

	text, err := s.gen.Generate(r.Context(), req.ExerciseName)
	if err != nil {
		s.countGuidance("error")
		s.log.Error("guidance", "exercise", req.ExerciseName, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching AI response"})
		return
	}

	s.countGuidance("ok")
	writeJSON(w, http.StatusOK, map[string]string{"guidance": text, "message": text})
}

func (s *Server) countGuidance(outcome string) {
	if s.metrics != nil {
		s.metrics.GuidanceRequests.WithLabelValues(outcome).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
