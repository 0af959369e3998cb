package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/pkg/campaign"
)

// LocalStorage implements the Storage interface with JSON snapshot
// files instead of Redis. It backs the console client and serves as
// the fallback store when a Redis save fails; losing a save must
// never end a session.
type LocalStorage struct {
	fileResources
	saveDir string
	logger  *slog.Logger
}

// Ensure LocalStorage implements Storage interface
var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage creates a storage instance writing campaign
// snapshots under saveDir.
func NewLocalStorage(saveDir string, dataDir string, logger *slog.Logger) *LocalStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	if saveDir == "" {
		saveDir = filepath.Join(dataDir, "saves")
	}
	return &LocalStorage{
		fileResources: fileResources{dataDir: dataDir, logger: logger},
		saveDir:       saveDir,
		logger:        logger,
	}
}

func (l *LocalStorage) Ping(ctx context.Context) error {
	if err := os.MkdirAll(l.saveDir, 0o755); err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	return nil
}

func (l *LocalStorage) Close() error {
	return nil
}

func (l *LocalStorage) snapshotPath(id uuid.UUID) string {
	return filepath.Join(l.saveDir, id.String()+".json")
}

func (l *LocalStorage) SaveCampaign(ctx context.Context, id uuid.UUID, cs *campaign.State) error {
	cs.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		l.logger.Error("Failed to marshal campaign", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	if err := os.MkdirAll(l.saveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	// Write then rename so a crash mid-save cannot corrupt the
	// previous snapshot.
	tmp := l.snapshotPath(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		l.logger.Error("Failed to write snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, l.snapshotPath(id)); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return nil
}

func (l *LocalStorage) LoadCampaign(ctx context.Context, id uuid.UUID) (*campaign.State, error) {
	data, err := os.ReadFile(l.snapshotPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Campaign snapshot not found", "uuid", id)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var cs campaign.State
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &cs, nil
}

func (l *LocalStorage) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(l.snapshotPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
