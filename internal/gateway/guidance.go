package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/claude/ironlog/internal/guidance"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrGuidanceInProgress is returned while an earlier guidance request is
	// still outstanding.
	ErrGuidanceInProgress = errors.New("gateway: guidance request already in progress")

	// ErrExerciseNameRequired is returned for a blank exercise name.
	ErrExerciseNameRequired = errors.New("gateway: exercise name is required")
)

// GuidanceClient fetches AI exercise guidance through the server. Only one
// request runs at a time.
type GuidanceClient struct {
	client   *Client
	inFlight *semaphore.Weighted
}

var _ guidance.Generator = (*GuidanceClient)(nil)

// NewGuidanceClient wraps a gateway Client.
func NewGuidanceClient(c *Client) *GuidanceClient {
	return &GuidanceClient{client: c, inFlight: semaphore.NewWeighted(1)}
}

// Generate returns Markdown instructions for the named exercise.
func (g *GuidanceClient) Generate(ctx context.Context, exerciseName string) (string, error) {
	if strings.TrimSpace(exerciseName) == "" {
		return "", ErrExerciseNameRequired
	}
	if !g.inFlight.TryAcquire(1) {
		return "", ErrGuidanceInProgress
	}
	defer g.inFlight.Release(1)

	payload := map[string]string{"exerciseName": exerciseName}
	body, status, err := g.client.do(ctx, http.MethodPost, "/api/v1/ai", nil, payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", &StatusError{Path: "/api/v1/ai", Code: status, Message: errorMessage(body)}
	}

	// Older servers only send "message".
	var resp struct {
		Guidance string `json:"guidance"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("gateway: decode guidance: %w", err)
	}
	if resp.Guidance != "" {
		return resp.Guidance, nil
	}
	return resp.Message, nil
}
