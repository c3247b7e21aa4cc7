package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/boardclock/internal/config"
	"github.com/cory-johannsen/boardclock/internal/timer"
)

func writePresets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "presets.yaml"), []byte(`
presets:
  - name: blitz
    player_count: 2
    bank_time_minutes: 5
`), 0644))
	return dir
}

func TestLoadConfig_DefaultsWithoutPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, timer.DefaultSettings(), cfg.Table.Settings())
}

func TestLoadPresets_NoDir(t *testing.T) {
	table := config.TableConfig{PlayerCount: 3, BankTimeMinutes: 10, TurnTimeSeconds: 30}
	catalog, settings, err := loadPresets(table, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Nil(t, catalog)
	assert.Equal(t, table.Settings(), settings)
}

func TestLoadPresets_DefaultPreset(t *testing.T) {
	table := config.TableConfig{
		PlayerCount:     4,
		BankTimeMinutes: 30,
		TurnTimeSeconds: 60,
		PresetDir:       writePresets(t),
		DefaultPreset:   "Blitz",
	}
	catalog, settings, err := loadPresets(table, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, catalog)
	assert.Equal(t, 1, catalog.Len())
	assert.Equal(t, 2, settings.PlayerCount)
	assert.Equal(t, 5, settings.BankTimeMinutes)
}

func TestLoadPresets_UnknownDefault(t *testing.T) {
	table := config.TableConfig{PresetDir: writePresets(t), DefaultPreset: "marathon"}
	_, _, err := loadPresets(table, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marathon")
}

func TestLoadPresets_MissingDir(t *testing.T) {
	table := config.TableConfig{PresetDir: filepath.Join(t.TempDir(), "nope")}
	_, _, err := loadPresets(table, zaptest.NewLogger(t))
	assert.Error(t, err)
}
