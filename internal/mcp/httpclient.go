package mcp

import (
	"context"

	"github.com/claude/ironlog/internal/gateway"
	"github.com/claude/ironlog/internal/models"
)

// HTTPClient implements DataSource on top of the remote data gateway. Used for
// remote MCP mode where the binary runs locally (stdio) but data lives on the
// IronLog server.
type HTTPClient struct {
	gw *gateway.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient using gw for all reads.
func NewHTTPClient(gw *gateway.Client) *HTTPClient {
	return &HTTPClient{gw: gw}
}

func (c *HTTPClient) ListExercises(ctx context.Context, query string) ([]models.CatalogExercise, error) {
	return c.gw.FetchCatalog(ctx, query)
}

func (c *HTTPClient) GetExercise(ctx context.Context, id string) (*models.CatalogExercise, error) {
	return c.gw.FetchExerciseByID(ctx, id)
}

func (c *HTTPClient) QueryWorkouts(ctx context.Context, userID string) ([]models.WorkoutRecord, error) {
	return c.gw.FetchWorkoutHistory(ctx, userID)
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (*models.WorkoutRecord, error) {
	return c.gw.FetchWorkoutByID(ctx, id)
}

func (c *HTTPClient) GetProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	return c.gw.FetchProfileStats(ctx, userID)
}
