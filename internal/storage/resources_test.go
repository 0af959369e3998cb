package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOpponentYAML = `display_name: Meadow Slime
zone: meadow
max_health: 60
difficulty_tier: 1
experience_reward: 25
gold_reward: 10
static_pool:
  - prompt: "Which color results from mixing blue and yellow?"
    choices: ["Green", "Purple", "Orange", "Brown"]
    correct_choice_index: 0
`

const testMapYAML = `width: 40
height: 30
spawn_x: 5
spawn_y: 5
zones:
  - name: meadow
    encounter_enabled: true
    opponents: [slime]
    bounds:
      - {x: 0, y: 0, width: 40, height: 30}
`

func TestFileResources_LoadFromDataDir(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "opponents"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "maps"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "opponents", "slime.yaml"), []byte(testOpponentYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "maps", "overworld.yaml"), []byte(testMapYAML), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ls := NewLocalStorage(t.TempDir(), dataDir, logger)
	ctx := context.Background()

	o, err := ls.GetOpponent(ctx, "slime")
	require.NoError(t, err)
	assert.Equal(t, "slime", o.ID)
	assert.Equal(t, "Meadow Slime", o.DisplayName)
	assert.Equal(t, 60, o.MaxHealth)

	opponents, err := ls.ListOpponents(ctx)
	require.NoError(t, err)
	assert.Len(t, opponents, 1)

	m, err := ls.GetMap(ctx, "overworld")
	require.NoError(t, err)
	assert.Equal(t, "overworld", m.Name)
	require.Len(t, m.Zones, 1)
	assert.Equal(t, "meadow", m.Zones[0].Name)

	maps, err := ls.ListMaps(ctx)
	require.NoError(t, err)
	assert.Len(t, maps, 1)
}

func TestFileResources_MissingOpponent(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "opponents"), 0o755))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ls := NewLocalStorage(t.TempDir(), dataDir, logger)

	_, err := ls.GetOpponent(context.Background(), "nobody")
	assert.ErrorContains(t, err, "opponent not found")
}
