package session

import (
	"testing"

	"github.com/claude/ironlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_DefaultWhenEmpty(t *testing.T) {
	prefs, err := OpenPreferences(t.TempDir())
	require.NoError(t, err)
	defer prefs.Close()

	unit, err := prefs.LoadWeightUnit()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWeightUnit, unit)
}

func TestPreferences_PersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	prefs, err := OpenPreferences(dir)
	require.NoError(t, err)
	require.NoError(t, prefs.SaveWeightUnit(models.Kilograms))
	require.NoError(t, prefs.SaveWeightUnit(models.Pounds))
	require.NoError(t, prefs.SaveWeightUnit(models.Kilograms))
	require.NoError(t, prefs.Close())

	reopened, err := OpenPreferences(dir)
	require.NoError(t, err)
	defer reopened.Close()

	unit, err := reopened.LoadWeightUnit()
	require.NoError(t, err)
	assert.Equal(t, models.Kilograms, unit)
}

func TestPreferences_IgnoresUnknownUnit(t *testing.T) {
	prefs, err := OpenPreferences(t.TempDir())
	require.NoError(t, err)
	defer prefs.Close()

	_, err = prefs.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, preferencesKey, `{"weightUnit":"stone"}`)
	require.NoError(t, err)

	unit, err := prefs.LoadWeightUnit()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWeightUnit, unit)
}
