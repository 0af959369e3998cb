// Package game runs one campaign's live session: exploration on the
// world map, random and fixed encounter triggering, the battle
// lifecycle, and best-effort persistence.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/triviaquest/engine/internal/services/events"
	"github.com/triviaquest/engine/internal/storage"
	"github.com/triviaquest/engine/pkg/battle"
	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/encounter"
	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/quiz"
	"github.com/triviaquest/engine/pkg/worldmap"
)

// Session coordinates one campaign. All public methods are safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	state     *campaign.State
	world     *worldmap.Map
	opponents map[string]*opponent.Opponent
	trigger   *encounter.Trigger
	battle    *battle.Battle

	store       storage.Storage
	fallback    storage.Storage
	provider    *quiz.Provider
	broadcaster *events.Broadcaster
	clock       battle.Clock
	rng         *rand.Rand
	logger      *slog.Logger

	lastTick     time.Time
	autosaveStop chan struct{}
}

// Config wires a session's collaborators. Fallback and Broadcaster
// may be nil.
type Config struct {
	State       *campaign.State
	World       *worldmap.Map
	Opponents   map[string]*opponent.Opponent
	Store       storage.Storage
	Fallback    storage.Storage
	Provider    *quiz.Provider
	Broadcaster *events.Broadcaster
	Clock       battle.Clock
	Rand        *rand.Rand
	Logger      *slog.Logger
}

// StepResult reports what happened after one move.
type StepResult struct {
	Position       campaign.Position `json:"position"`
	Zone           string            `json:"zone,omitempty"`
	Moved          bool              `json:"moved"`
	BattleStarted  bool              `json:"battle_started"`
	OpponentID     string            `json:"opponent_id,omitempty"`
	BattleSnapshot *battle.Snapshot  `json:"battle,omitempty"`
}

// NewSession builds a session around an existing campaign state.
func NewSession(cfg Config) (*Session, error) {
	if cfg.State == nil || cfg.World == nil {
		return nil, fmt.Errorf("session requires a campaign state and a map")
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Clock == nil {
		cfg.Clock = battle.SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Provider == nil {
		// Static pools only; remote generation is optional.
		cfg.Provider = quiz.NewProvider(nil, cfg.Rand, cfg.Logger)
	}

	s := &Session{
		state:       cfg.State,
		world:       cfg.World,
		opponents:   cfg.Opponents,
		trigger:     encounter.NewTrigger(cfg.Rand),
		store:       cfg.Store,
		fallback:    cfg.Fallback,
		provider:    cfg.Provider,
		broadcaster: cfg.Broadcaster,
		clock:       cfg.Clock,
		rng:         cfg.Rand,
		logger:      cfg.Logger,
		lastTick:    time.Now(),
	}

	// A save from an unknown position snaps back to spawn rather than
	// failing the load.
	if s.world.ZoneAt(s.state.Position.X, s.state.Position.Y) == nil {
		s.state.Position = s.world.SpawnPosition()
		s.state.Zone = ""
		if z := s.world.ZoneAt(s.state.Position.X, s.state.Position.Y); z != nil {
			s.state.Zone = z.Name
		}
	}

	return s, nil
}

// State returns the campaign state. Callers must not mutate it.
func (s *Session) State() *campaign.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InBattle reports whether a battle is running.
func (s *Session) InBattle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle != nil
}

// Move advances the player one tile. Movement is rejected while a
// battle is running. Walking into a fixed opponent that has not been
// defeated starts that battle unconditionally; otherwise each step in
// an encounter-enabled zone feeds the random trigger.
func (s *Session) Move(ctx context.Context, dir worldmap.Direction) (*StepResult, error) {
	s.mu.Lock()
	if s.battle != nil {
		s.mu.Unlock()
		return nil, ErrBattleInProgress
	}

	prev := s.state.Position
	prevZone := s.state.Zone
	pos, ok := s.world.Move(s.state.Position, dir)
	if !ok {
		res := &StepResult{Position: s.state.Position, Zone: s.state.Zone}
		s.mu.Unlock()
		return res, nil
	}

	s.state.Position = pos
	zone := s.world.ZoneAt(pos.X, pos.Y)
	if zone != nil {
		s.state.Zone = zone.Name
	} else {
		s.state.Zone = ""
	}

	res := &StepResult{Position: pos, Zone: s.state.Zone, Moved: true}

	// Fixed opponents ambush on contact until defeated.
	if id, found := s.world.FixedOpponentAt(pos.X, pos.Y); found && !s.state.IsBossDefeated(id) {
		opp, ok := s.opponents[id]
		if !ok {
			s.logger.Error("Fixed spawn references unknown opponent", "opponent", id)
			s.mu.Unlock()
			return res, nil
		}
		s.mu.Unlock()
		// A flee must not drop the player back onto the ambush tile.
		return s.beginBattle(ctx, opp, true, prev, prevZone, res)
	}

	// Safe zones never accumulate steps toward an encounter.
	enabled := zone != nil && zone.EncounterEnabled
	if s.trigger.Step(enabled) {
		if id, ok := s.world.PickOpponent(zone, s.rng); ok {
			if opp, known := s.opponents[id]; known {
				s.mu.Unlock()
				return s.beginBattle(ctx, opp, false, pos, res.Zone, res)
			}
			s.logger.Error("Zone references unknown opponent", "opponent", id, "zone", zone.Name)
		}
	}

	s.mu.Unlock()
	s.publish(ctx, events.EventTypeCampaignUpdated, map[string]interface{}{
		"position": pos,
		"zone":     res.Zone,
	})
	return res, nil
}

// beginBattle snapshots the campaign into an encounter and starts the
// battle state machine.
func (s *Session) beginBattle(ctx context.Context, opp *opponent.Opponent, fixed bool, ret campaign.Position, retZone string, res *StepResult) (*StepResult, error) {
	s.mu.Lock()
	enc := campaign.NewEncounter(opp, s.state)
	enc.Fixed = fixed
	enc.ReturnPosition = ret
	enc.ReturnZone = retZone

	// The battle outlives the request that triggered it; its timers
	// fire long after the handler has returned, so question fetches,
	// event publishes, and the final save must not run on a context
	// net/http has already cancelled.
	battleCtx := context.WithoutCancel(ctx)

	b := battle.New(enc, battle.Config{
		Provider: s.provider,
		Sink:     &broadcastSink{session: s, ctx: battleCtx},
		Clock:    s.clock,
		Logger:   s.logger,
		OnComplete: func(outcome battle.Outcome, enc *campaign.Encounter) {
			s.endBattle(battleCtx, outcome, enc)
		},
	})
	s.battle = b
	s.mu.Unlock()

	if err := b.Start(battleCtx); err != nil {
		s.mu.Lock()
		s.battle = nil
		s.mu.Unlock()
		return nil, err
	}

	s.logger.Info("Battle started", "campaign", s.state.ID, "opponent", opp.ID, "fixed", fixed)
	s.publish(ctx, events.EventTypeBattleStarted, map[string]interface{}{
		"opponent_id":   opp.ID,
		"opponent_name": opp.DisplayName,
		"max_health":    opp.MaxHealth,
	})

	res.BattleStarted = true
	res.OpponentID = opp.ID
	snap := b.Snapshot()
	res.BattleSnapshot = &snap
	return res, nil
}

// endBattle commits the encounter outcome back into the campaign and
// persists. Runs from the battle's completion hook.
func (s *Session) endBattle(ctx context.Context, outcome battle.Outcome, enc *campaign.Encounter) {
	s.mu.Lock()
	enc.Commit(s.state)

	switch outcome {
	case battle.OutcomeVictory:
		// Bosses and fixed opponents stay down once beaten.
		if enc.Opponent.IsBoss || enc.Fixed {
			s.state.RecordBossDefeat(enc.Opponent.ID)
		}
	case battle.OutcomeDefeat:
		// Defeat respawns at the map spawn point.
		s.state.Position = s.world.SpawnPosition()
		if z := s.world.ZoneAt(s.state.Position.X, s.state.Position.Y); z != nil {
			s.state.Zone = z.Name
		} else {
			s.state.Zone = ""
		}
	case battle.OutcomeFled:
		// Fleeing resumes exploration where the battle began.
		s.state.Position = enc.ReturnPosition
		s.state.Zone = enc.ReturnZone
	}

	s.battle = nil
	s.mu.Unlock()

	s.logger.Info("Battle ended", "campaign", s.state.ID, "opponent", enc.Opponent.ID, "outcome", outcome)
	s.Save(ctx)
}

// ErrBattleInProgress rejects exploration input during a battle and
// battle input outside one.
var ErrBattleInProgress = fmt.Errorf("battle in progress")

// ErrNoBattle is returned for battle input when no battle is running.
var ErrNoBattle = fmt.Errorf("no battle in progress")

// Answer submits an answer choice to the running battle.
func (s *Session) Answer(choice int) (bool, error) {
	s.mu.Lock()
	b := s.battle
	s.mu.Unlock()
	if b == nil {
		return false, ErrNoBattle
	}
	return b.SubmitAnswer(choice), nil
}

// Flee abandons the running battle.
func (s *Session) Flee() (bool, error) {
	s.mu.Lock()
	b := s.battle
	s.mu.Unlock()
	if b == nil {
		return false, ErrNoBattle
	}
	return b.Flee(), nil
}

// BattleSnapshot returns the running battle's display state, or nil.
func (s *Session) BattleSnapshot() *battle.Snapshot {
	s.mu.Lock()
	b := s.battle
	s.mu.Unlock()
	if b == nil {
		return nil
	}
	snap := b.Snapshot()
	return &snap
}

// Save persists the campaign. Persistence is best-effort: a failed
// primary save falls back to the local snapshot store, and a failed
// fallback only logs. Gameplay never stops for storage.
func (s *Session) Save(ctx context.Context) {
	s.mu.Lock()
	s.accumulatePlayTime()
	snapshot := *s.state
	id := snapshot.ID
	s.mu.Unlock()

	if s.store == nil {
		return
	}

	if err := s.store.SaveCampaign(ctx, id, &snapshot); err != nil {
		s.logger.Error("Campaign save failed", "campaign", id, "error", err)
		s.publish(ctx, events.EventTypeCampaignSaveFail, map[string]interface{}{"error": err.Error()})

		if s.fallback != nil {
			if ferr := s.fallback.SaveCampaign(ctx, id, &snapshot); ferr != nil {
				s.logger.Error("Fallback save failed", "campaign", id, "error", ferr)
				return
			}
			s.logger.Warn("Campaign saved to local fallback", "campaign", id)
		}
		return
	}

	s.publish(ctx, events.EventTypeCampaignSaved, nil)
}

// accumulatePlayTime folds elapsed wall-clock time into the save.
// Callers hold the session mutex.
func (s *Session) accumulatePlayTime() {
	now := time.Now()
	elapsed := now.Sub(s.lastTick)
	if elapsed > 0 {
		s.state.PlayTimeSeconds += int64(elapsed.Seconds())
	}
	s.lastTick = now
}

// StartAutosave saves the campaign on a fixed interval until the
// context is cancelled or StopAutosave is called.
func (s *Session) StartAutosave(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	if s.autosaveStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.autosaveStop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				s.Save(ctx)
			}
		}
	}()
}

// StopAutosave halts the autosave loop.
func (s *Session) StopAutosave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autosaveStop != nil {
		close(s.autosaveStop)
		s.autosaveStop = nil
	}
}

func (s *Session) publish(ctx context.Context, eventType events.EventType, data map[string]interface{}) {
	if s.broadcaster == nil {
		return
	}
	_ = s.broadcaster.Publish(ctx, s.state.ID, eventType, data)
}
