package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/internal/services/events"
	"github.com/triviaquest/engine/internal/storage"
	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/quiz"
)

// ErrCampaignNotFound is returned when neither the primary store nor
// the fallback has a save for the requested id.
var ErrCampaignNotFound = fmt.Errorf("campaign not found")

// Manager owns the live sessions, one per campaign id, and creates,
// loads, and resets campaigns against storage.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	store       storage.Storage
	fallback    storage.Storage
	remote      quiz.RemoteService
	broadcaster *events.Broadcaster
	logger      *slog.Logger

	defaultMap       string
	autosaveInterval time.Duration
}

// ManagerConfig wires the manager's collaborators.
type ManagerConfig struct {
	Store            storage.Storage
	Fallback         storage.Storage
	Remote           quiz.RemoteService
	Broadcaster      *events.Broadcaster
	Logger           *slog.Logger
	DefaultMap       string
	AutosaveInterval time.Duration
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultMap == "" {
		cfg.DefaultMap = "overworld"
	}
	return &Manager{
		sessions:         make(map[uuid.UUID]*Session),
		store:            cfg.Store,
		fallback:         cfg.Fallback,
		remote:           cfg.Remote,
		broadcaster:      cfg.Broadcaster,
		logger:           cfg.Logger,
		defaultMap:       cfg.DefaultMap,
		autosaveInterval: cfg.AutosaveInterval,
	}
}

// Create starts a brand new campaign on the default map.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	world, err := m.store.GetMap(ctx, m.defaultMap)
	if err != nil {
		return nil, fmt.Errorf("failed to load map %s: %w", m.defaultMap, err)
	}

	pos := world.SpawnPosition()
	zone := ""
	if z := world.ZoneAt(pos.X, pos.Y); z != nil {
		zone = z.Name
	}
	state := campaign.New(m.defaultMap, pos, zone)

	return m.install(ctx, state)
}

// Get returns the live session, attaching one to a stored save if
// needed. Loads try the primary store first and fall back to the
// local snapshot store.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	state, err := m.store.LoadCampaign(ctx, id)
	if err != nil || state == nil {
		if err != nil {
			m.logger.Error("Campaign load failed, trying fallback", "campaign", id, "error", err)
		}
		if m.fallback != nil {
			state, err = m.fallback.LoadCampaign(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load campaign: %w", err)
			}
		}
	}
	if state == nil {
		return nil, ErrCampaignNotFound
	}

	return m.install(ctx, state)
}

// Reset wipes a campaign's save and starts it over at spawn, keeping
// the same id.
func (m *Manager) Reset(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.Remove(id)

	if err := m.store.DeleteCampaign(ctx, id); err != nil {
		// Deletion failures are logged, not fatal; the fresh save
		// overwrites the old one anyway.
		m.logger.Error("Failed to delete campaign save", "campaign", id, "error", err)
	}
	if m.fallback != nil {
		if err := m.fallback.DeleteCampaign(ctx, id); err != nil {
			m.logger.Error("Failed to delete fallback snapshot", "campaign", id, "error", err)
		}
	}

	world, err := m.store.GetMap(ctx, m.defaultMap)
	if err != nil {
		return nil, fmt.Errorf("failed to load map %s: %w", m.defaultMap, err)
	}

	pos := world.SpawnPosition()
	zone := ""
	if z := world.ZoneAt(pos.X, pos.Y); z != nil {
		zone = z.Name
	}
	state := campaign.New(m.defaultMap, pos, zone)
	state.ID = id

	return m.install(ctx, state)
}

// DeleteSave removes a campaign's saves from the primary store and
// the fallback.
func (m *Manager) DeleteSave(ctx context.Context, id uuid.UUID) error {
	err := m.store.DeleteCampaign(ctx, id)
	if m.fallback != nil {
		if ferr := m.fallback.DeleteCampaign(ctx, id); ferr != nil {
			m.logger.Error("Failed to delete fallback snapshot", "campaign", id, "error", ferr)
		}
	}
	return err
}

// Remove detaches a live session and stops its autosave loop.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.StopAutosave()
	}
}

// Shutdown saves every live session and stops autosave loops.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.StopAutosave()
		s.Save(ctx)
	}
}

// install builds the session for a campaign state and registers it.
func (m *Manager) install(ctx context.Context, state *campaign.State) (*Session, error) {
	world, err := m.store.GetMap(ctx, state.MapName)
	if err != nil {
		return nil, fmt.Errorf("failed to load map %s: %w", state.MapName, err)
	}
	opponents, err := m.store.ListOpponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load opponents: %w", err)
	}

	// Each session gets its own provider so prefetched questions scaled
	// to one campaign's level never leak into another campaign's battle.
	provider := quiz.NewProvider(m.remote, rand.New(rand.NewSource(time.Now().UnixNano())), m.logger)

	s, err := NewSession(Config{
		State:       state,
		World:       world,
		Opponents:   opponents,
		Store:       m.store,
		Fallback:    m.fallback,
		Provider:    provider,
		Broadcaster: m.broadcaster,
		Logger:      m.logger,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A concurrent Get may have installed the same campaign already.
	if existing, ok := m.sessions[state.ID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[state.ID] = s
	m.mu.Unlock()

	s.Save(ctx)
	if m.autosaveInterval > 0 {
		s.StartAutosave(context.WithoutCancel(ctx), m.autosaveInterval)
	}

	m.logger.Info("Session attached", "campaign", state.ID, "map", state.MapName)
	return s, nil
}
