package mcp

import (
	"context"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context, query string) ([]models.CatalogExercise, error)
	GetExercise(ctx context.Context, id string) (*models.CatalogExercise, error)
	QueryWorkouts(ctx context.Context, userID string) ([]models.WorkoutRecord, error)
	GetWorkout(ctx context.Context, id string) (*models.WorkoutRecord, error)
	GetProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
