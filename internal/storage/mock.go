package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/worldmap"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]*campaign.State
	opponents map[string]*opponent.Opponent
	maps      map[string]*worldmap.Map
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		campaigns: make(map[uuid.UUID]*campaign.State),
		opponents: make(map[string]*opponent.Opponent),
		maps:      make(map[string]*worldmap.Map),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail campaign saves
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// AddOpponent registers an opponent definition
func (m *MockStorage) AddOpponent(o *opponent.Opponent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opponents[o.ID] = o
}

// AddMap registers a map definition
func (m *MockStorage) AddMap(wm *worldmap.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps[wm.Name] = wm
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveCampaign(ctx context.Context, id uuid.UUID, cs *campaign.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	copied := *cs
	m.campaigns[id] = &copied
	return nil
}

func (m *MockStorage) LoadCampaign(ctx context.Context, id uuid.UUID) (*campaign.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs, ok := m.campaigns[id]
	if !ok {
		return nil, nil
	}
	copied := *cs
	return &copied, nil
}

func (m *MockStorage) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.campaigns, id)
	return nil
}

func (m *MockStorage) GetOpponent(ctx context.Context, id string) (*opponent.Opponent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.opponents[id]
	if !ok {
		return nil, fmt.Errorf("opponent not found: %s", id)
	}
	return o, nil
}

func (m *MockStorage) ListOpponents(ctx context.Context) (map[string]*opponent.Opponent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*opponent.Opponent, len(m.opponents))
	for k, v := range m.opponents {
		out[k] = v
	}
	return out, nil
}

func (m *MockStorage) GetMap(ctx context.Context, name string) (*worldmap.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wm, ok := m.maps[name]
	if !ok {
		return nil, fmt.Errorf("map not found: %s", name)
	}
	return wm, nil
}

func (m *MockStorage) ListMaps(ctx context.Context) (map[string]*worldmap.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*worldmap.Map, len(m.maps))
	for k, v := range m.maps {
		out[k] = v
	}
	return out, nil
}
