package mcp

import (
	"context"
	"time"

	"github.com/claude/ironlog/internal/format"
	"github.com/claude/ironlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// workoutSummary is the history view of a workout: the numbers a user sees
// on a history card.
type workoutSummary struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	When      string   `json:"when"`
	Duration  string   `json:"duration"`
	Exercises []string `json:"exercises"`
	TotalSets int      `json:"total_sets"`
	Volume    float64  `json:"volume"`
	Unit      string   `json:"unit"`
}

func summarize(w *models.WorkoutRecord, now time.Time) workoutSummary {
	vol, unit := w.Volume()
	names := w.ExerciseNames()
	if names == nil {
		names = []string{}
	}
	return workoutSummary{
		ID:        w.ID,
		Date:      w.Date.UTC().Format(time.RFC3339),
		When:      format.DateOf(w.Date, now),
		Duration:  format.Duration(w.DurationSec),
		Exercises: names,
		TotalSets: w.TotalSets(),
		Volume:    vol,
		Unit:      string(unit),
	}
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises, optionally filtered by a case-insensitive name substring."),
	mcp.WithString("query", mcp.Description("Name substring to search for (e.g. 'press'). Omit to list everything.")),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Get one catalog exercise with its description, difficulty label and media references."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Catalog exercise ID")),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("List a user's saved workouts, newest first, with duration, exercises, total sets and volume."),
	mcp.WithString("user_id", mcp.Description("User ID. Defaults to the authenticated user.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a full workout record including every set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolGetProfileStats = mcp.NewTool("get_profile_stats",
	mcp.WithDescription("Get a user's total workouts, total and average duration, total sets and volume."),
	mcp.WithString("user_id", mcp.Description("User ID. Defaults to the authenticated user.")),
)

var toolGetExerciseGuidance = mcp.NewTool("get_exercise_guidance",
	mcp.WithDescription("Generate beginner-friendly Markdown instructions for an exercise: equipment, steps, tips, variations and safety."),
	mcp.WithString("exercise_name", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.ListExercises(ctx, req.GetString("query", ""))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"exercises": list})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	ex, err := h.ds.GetExercise(ctx, id)
	if err != nil {
		h.log.Error("mcp get_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if ex == nil {
		return mcp.NewToolResultError("exercise not found"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise":         ex,
		"difficulty_label": ex.Difficulty.Label(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := req.GetString("user_id", UserIDFromContext(ctx))
	if uid == "" {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	history, err := h.ds.QueryWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	now := time.Now()
	out := make([]workoutSummary, 0, len(history))
	for i := range history {
		out = append(out, summarize(&history[i], now))
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"workouts": out})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if w == nil {
		return mcp.NewToolResultError("workout not found"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout": w,
		"summary": summarize(w, time.Now()),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProfileStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := req.GetString("user_id", UserIDFromContext(ctx))
	if uid == "" {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	st, err := h.ds.GetProfileStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_profile_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"stats":            st,
		"total_duration":   format.Duration(st.TotalDurationSec),
		"average_duration": format.Duration(st.AverageDurationSec),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseGuidance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise_name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("exercise_name parameter is required"), nil
	}
	if h.gen == nil {
		return mcp.NewToolResultError("AI guidance is not configured"), nil
	}

	text, err := h.gen.Generate(ctx, name)
	if err != nil {
		h.log.Error("mcp get_exercise_guidance", "exercise", name, "error", err)
		return mcp.NewToolResultError("guidance failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
