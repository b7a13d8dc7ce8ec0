package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/ironlog/internal/models"
	_ "modernc.org/sqlite"
)

// preferencesKey is the single entry holding the persisted part of the session.
const preferencesKey = "workout-storage"

// persistedState is the partial session state that survives restarts.
type persistedState struct {
	WeightUnit models.WeightUnit `json:"weightUnit"`
}

// Preferences stores the session's persisted state in a local SQLite file.
type Preferences struct {
	db *sql.DB
}

var _ PreferenceStore = (*Preferences)(nil)

// OpenPreferences opens (or creates) the SQLite database at dir/state.db.
func OpenPreferences(dir string) (*Preferences, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &Preferences{db: db}, nil
}

// LoadWeightUnit returns the stored unit, or the default when nothing has
// been saved yet.
func (p *Preferences) LoadWeightUnit() (models.WeightUnit, error) {
	var raw string
	err := p.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, preferencesKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultWeightUnit, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading preferences: %w", err)
	}

	var st persistedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return "", fmt.Errorf("decoding preferences: %w", err)
	}
	if !st.WeightUnit.Valid() {
		return models.DefaultWeightUnit, nil
	}
	return st.WeightUnit, nil
}

// SaveWeightUnit overwrites the stored unit.
func (p *Preferences) SaveWeightUnit(unit models.WeightUnit) error {
	data, err := json.Marshal(persistedState{WeightUnit: unit})
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		preferencesKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// Close closes the state database.
func (p *Preferences) Close() error {
	return p.db.Close()
}
