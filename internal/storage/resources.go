package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/worldmap"
)

// fileResources loads opponents and maps from YAML files under the
// data directory. Both storage backends embed it.
type fileResources struct {
	dataDir string
	logger  *slog.Logger
}

func (f *fileResources) opponentsDir() string {
	return filepath.Join(f.dataDir, "opponents")
}

func (f *fileResources) mapsDir() string {
	return filepath.Join(f.dataDir, "maps")
}

func (f *fileResources) GetOpponent(ctx context.Context, id string) (*opponent.Opponent, error) {
	path := filepath.Join(f.opponentsDir(), id+".yaml")
	o, err := opponent.LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opponent not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load opponent %s: %w", id, err)
	}
	return o, nil
}

func (f *fileResources) ListOpponents(ctx context.Context) (map[string]*opponent.Opponent, error) {
	opponents, err := opponent.LoadDir(f.opponentsDir())
	if err != nil {
		f.logger.Error("Failed to load opponents", "dir", f.opponentsDir(), "error", err)
		return nil, fmt.Errorf("failed to list opponents: %w", err)
	}
	return opponents, nil
}

func (f *fileResources) GetMap(ctx context.Context, name string) (*worldmap.Map, error) {
	path := filepath.Join(f.mapsDir(), name+".yaml")
	m, err := worldmap.LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("map not found: %s", name)
		}
		return nil, fmt.Errorf("failed to load map %s: %w", name, err)
	}
	return m, nil
}

func (f *fileResources) ListMaps(ctx context.Context) (map[string]*worldmap.Map, error) {
	maps, err := worldmap.LoadDir(f.mapsDir())
	if err != nil {
		f.logger.Error("Failed to load maps", "dir", f.mapsDir(), "error", err)
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	return maps, nil
}
