// Package gateway is the remote data gateway used by session clients. It talks
// to the IronLog REST API and implements session.Gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/session"
	"github.com/coocood/freecache"
)

const (
	cacheSize         = 4 * 1024 * 1024
	lookupCacheTTLSec = 5 * 60
)

// StatusError is returned for any non-success response from the server.
type StatusError struct {
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: %s returned %d: %s", e.Path, e.Code, e.Message)
}

// Client is the remote data gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *freecache.Cache
	log        *slog.Logger
}

var _ session.Gateway = (*Client)(nil)

// NewClient creates a Client for the server at baseURL. apiKey is sent on
// mutating requests.
func NewClient(baseURL, apiKey string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      freecache.NewCache(cacheSize),
		log:        log,
	}
}

// do sends a request and returns the body and status. Non-2xx statuses other
// than 404 become a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("gateway: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("gateway: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("gateway: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return respBody, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{Path: path, Code: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return respBody, resp.StatusCode, nil
}

// errorMessage pulls the server's error text out of a JSON error body.
func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// FetchCatalog lists catalog exercises. A non-empty query filters by name
// substring, case-insensitively.
func (c *Client) FetchCatalog(ctx context.Context, query string) ([]models.CatalogExercise, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	body, status, err := c.do(ctx, http.MethodGet, "/api/v1/exercises", params, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &StatusError{Path: "/api/v1/exercises", Code: status, Message: errorMessage(body)}
	}

	var out []models.CatalogExercise
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gateway: decode catalog: %w", err)
	}
	return out, nil
}

// FetchExerciseByID returns nil when the exercise does not exist.
func (c *Client) FetchExerciseByID(ctx context.Context, id string) (*models.CatalogExercise, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/v1/exercises/"+url.PathEscape(id), nil, nil)
	if err != nil || status == http.StatusNotFound {
		return nil, err
	}

	var ex models.CatalogExercise
	if err := json.Unmarshal(body, &ex); err != nil {
		return nil, fmt.Errorf("gateway: decode exercise: %w", err)
	}
	return &ex, nil
}

// FetchExerciseByName resolves an exact catalog name to its reference, or
// nil when no exercise has that name. Hits are cached for a few minutes;
// misses are not.
func (c *Client) FetchExerciseByName(ctx context.Context, name string) (*models.ExerciseRef, error) {
	key := []byte("name::" + name)
	if cached, err := c.cache.Get(key); err == nil {
		var ref models.ExerciseRef
		if err := json.Unmarshal(cached, &ref); err == nil {
			return &ref, nil
		}
		c.log.Warn("dropping undecodable cached exercise", "name", name)
		c.cache.Del(key)
	}

	params := url.Values{}
	params.Set("name", name)
	body, status, err := c.do(ctx, http.MethodGet, "/api/v1/exercises/lookup", params, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	var ref models.ExerciseRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, fmt.Errorf("gateway: decode exercise ref: %w", err)
	}
	if err := c.cache.Set(key, body, lookupCacheTTLSec); err != nil {
		c.log.Debug("exercise lookup not cached", "name", name, "error", err)
	}
	return &ref, nil
}

// FetchWorkoutHistory returns a user's workouts, newest first.
func (c *Client) FetchWorkoutHistory(ctx context.Context, userID string) ([]models.WorkoutRecord, error) {
	path := "/api/v1/users/" + url.PathEscape(userID) + "/workouts"
	body, status, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []models.WorkoutRecord{}, nil
	}

	var out []models.WorkoutRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gateway: decode history: %w", err)
	}
	return out, nil
}

// FetchWorkoutByID returns nil when the workout does not exist.
func (c *Client) FetchWorkoutByID(ctx context.Context, id string) (*models.WorkoutRecord, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/v1/workouts/"+url.PathEscape(id), nil, nil)
	if err != nil || status == http.StatusNotFound {
		return nil, err
	}

	var rec models.WorkoutRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("gateway: decode workout: %w", err)
	}
	return &rec, nil
}

type saveResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	WorkoutID string `json:"workoutId"`
}

// CreateWorkout submits a workout record and returns the assigned id.
func (c *Client) CreateWorkout(ctx context.Context, record *models.WorkoutRecord) (string, error) {
	payload := map[string]any{"workoutData": record}
	body, status, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", nil, payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", &StatusError{Path: "/api/v1/workouts", Code: status, Message: errorMessage(body)}
	}

	var resp saveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("gateway: decode save response: %w", err)
	}
	if !resp.Success || resp.WorkoutID == "" {
		return "", fmt.Errorf("gateway: save rejected: %s", resp.Message)
	}
	return resp.WorkoutID, nil
}

// ErrWorkoutNotFound is returned by DeleteWorkout for an unknown id.
var ErrWorkoutNotFound = errors.New("gateway: workout not found")

// DeleteWorkout removes a workout by id.
func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	_, status, err := c.do(ctx, http.MethodDelete, "/api/v1/workouts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ErrWorkoutNotFound
	}
	return nil
}

// FetchProfileStats returns workout totals for a user.
func (c *Client) FetchProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	path := "/api/v1/users/" + url.PathEscape(userID) + "/stats"
	body, status, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return &models.ProfileStats{}, nil
	}

	var st models.ProfileStats
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("gateway: decode profile stats: %w", err)
	}
	return &st, nil
}
