package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviaquest/engine/internal/storage"
	"github.com/triviaquest/engine/pkg/battle"
	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/quiz"
	"github.com/triviaquest/engine/pkg/worldmap"
)

func testPool(n int) []quiz.Question {
	pool := make([]quiz.Question, n)
	for i := range pool {
		pool[i] = quiz.Question{
			Prompt:             fmt.Sprintf("question %d", i),
			Choices:            []string{"right", "wrong", "wrong", "wrong"},
			CorrectChoiceIndex: 0,
		}
	}
	return pool
}

func testWorld() *worldmap.Map {
	return &worldmap.Map{
		Name:   "overworld",
		Width:  10,
		Height: 10,
		SpawnX: 0,
		SpawnY: 0,
		Zones: []worldmap.Zone{
			{
				Name:             "sanctuary",
				EncounterEnabled: false,
				Bounds:           []worldmap.Rect{{X: 0, Y: 0, Width: 10, Height: 5}},
			},
			{
				Name:             "meadow",
				EncounterEnabled: true,
				Opponents:        []string{"slime"},
				Bounds:           []worldmap.Rect{{X: 0, Y: 5, Width: 10, Height: 5}},
			},
		},
		FixedSpawns: []worldmap.FixedSpawn{
			{OpponentID: "warden", X: 3, Y: 0},
		},
	}
}

func testOpponents() map[string]*opponent.Opponent {
	return map[string]*opponent.Opponent{
		"slime": {
			ID: "slime", DisplayName: "Meadow Slime", Zone: "meadow",
			MaxHealth: 30, DifficultyTier: 1,
			ExperienceReward: 10, GoldReward: 5,
			QuestionSource: opponent.SourcePool, StaticPool: testPool(6),
		},
		"warden": {
			ID: "warden", DisplayName: "The Warden", Zone: "sanctuary", IsBoss: true,
			MaxHealth: 30, DifficultyTier: 3,
			ExperienceReward: 50, GoldReward: 40,
			QuestionSource: opponent.SourcePool, StaticPool: testPool(6),
		},
	}
}

type sessionFixture struct {
	session  *Session
	clock    *battle.FakeClock
	store    *storage.MockStorage
	fallback *storage.MockStorage
}

func newSessionFixture(t *testing.T, seed int64) *sessionFixture {
	t.Helper()

	world := testWorld()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &sessionFixture{
		clock:    battle.NewFakeClock(),
		store:    storage.NewMockStorage(),
		fallback: storage.NewMockStorage(),
	}
	f.store.AddMap(world)
	for _, o := range testOpponents() {
		f.store.AddOpponent(o)
	}

	state := campaign.New(world.Name, world.SpawnPosition(), "sanctuary")
	rng := rand.New(rand.NewSource(seed))

	s, err := NewSession(Config{
		State:     state,
		World:     world,
		Opponents: testOpponents(),
		Store:     f.store,
		Fallback:  f.fallback,
		Provider:  quiz.NewProvider(nil, rng, logger),
		Clock:     f.clock,
		Rand:      rng,
		Logger:    logger,
	})
	require.NoError(t, err)
	f.session = s
	return f
}

func TestSession_MoveUpdatesPosition(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, campaign.Position{X: 1, Y: 0}, res.Position)
	assert.Equal(t, "sanctuary", res.Zone)
	assert.False(t, res.BattleStarted)
}

func TestSession_MoveOffMapEdge(t *testing.T) {
	f := newSessionFixture(t, 1)

	res, err := f.session.Move(context.Background(), worldmap.North)
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, campaign.Position{X: 0, Y: 0}, res.Position)
}

func TestSession_SafeZoneNeverTriggers(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	// Pace along the sanctuary row, away from the fixed spawn
	for i := 0; i < 200; i++ {
		dir := worldmap.East
		if i%2 == 1 {
			dir = worldmap.West
		}
		res, err := f.session.Move(ctx, dir)
		require.NoError(t, err)
		require.False(t, res.BattleStarted, "step %d started a battle in a safe zone", i)
	}
}

func TestSession_FixedOpponentAmbushes(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := f.session.Move(ctx, worldmap.East)
		require.NoError(t, err)
		require.False(t, res.BattleStarted)
	}

	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	assert.True(t, res.BattleStarted)
	assert.Equal(t, "warden", res.OpponentID)
	assert.True(t, f.session.InBattle())

	// Exploration input is rejected mid-battle
	_, err = f.session.Move(ctx, worldmap.East)
	assert.ErrorIs(t, err, ErrBattleInProgress)
}

func TestSession_DefeatedFixedOpponentStaysDown(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	f.session.Move(ctx, worldmap.East)
	f.session.Move(ctx, worldmap.East)
	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	require.True(t, res.BattleStarted)

	// Defeat the warden with a correct answer
	f.clock.Advance(battle.IntroDelay)
	ok, err := f.session.Answer(0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, f.session.InBattle())
	assert.True(t, f.session.State().IsBossDefeated("warden"))

	// Walking over the same tile again is quiet now
	f.session.Move(ctx, worldmap.West)
	res, err = f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	assert.False(t, res.BattleStarted)
}

func TestSession_RandomEncounterEventuallyFires(t *testing.T) {
	f := newSessionFixture(t, 7)
	ctx := context.Background()

	// Head into the meadow
	for i := 0; i < 6; i++ {
		_, err := f.session.Move(ctx, worldmap.South)
		require.NoError(t, err)
	}

	started := false
	for i := 0; i < 2000 && !started; i++ {
		dir := worldmap.South
		if i%2 == 1 {
			dir = worldmap.North
		}
		res, err := f.session.Move(ctx, dir)
		require.NoError(t, err)
		started = res.BattleStarted
		if started {
			assert.Equal(t, "slime", res.OpponentID)
		}
	}
	assert.True(t, started, "random encounter never fired in the meadow")
}

func TestSession_VictoryPersistsRewards(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	f.session.Move(ctx, worldmap.East)
	f.session.Move(ctx, worldmap.East)
	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	require.True(t, res.BattleStarted)

	f.clock.Advance(battle.IntroDelay)
	ok, err := f.session.Answer(0)
	require.NoError(t, err)
	require.True(t, ok)

	state := f.session.State()
	assert.Equal(t, 50, state.Stats.Experience)
	assert.Equal(t, 40, state.Stats.Gold)

	saved, err := f.store.LoadCampaign(ctx, state.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 50, saved.Stats.Experience)
}

func TestSession_DefeatRespawnsAtSpawn(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	f.session.State().Stats.Gold = 100
	f.session.Move(ctx, worldmap.East)
	f.session.Move(ctx, worldmap.East)
	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	require.True(t, res.BattleStarted)

	f.clock.Advance(battle.IntroDelay)
	for i := 0; i < 5; i++ {
		ok, err := f.session.Answer(1)
		require.NoError(t, err)
		require.True(t, ok)
		if f.session.InBattle() {
			f.clock.Advance(battle.RevealAnswerDelay)
		}
	}

	state := f.session.State()
	assert.False(t, f.session.InBattle())
	assert.Equal(t, campaign.Position{X: 0, Y: 0}, state.Position)
	assert.Equal(t, 50, state.Stats.Gold)
	assert.Equal(t, state.Stats.MaxHealth, state.Stats.CurrentHealth)
	assert.False(t, state.IsBossDefeated("warden"), "losing must not mark the opponent defeated")
}

func TestSession_FleeFromAmbushStepsBack(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	f.session.Move(ctx, worldmap.East)
	f.session.Move(ctx, worldmap.East)
	res, err := f.session.Move(ctx, worldmap.East)
	require.NoError(t, err)
	require.True(t, res.BattleStarted)

	f.clock.Advance(battle.IntroDelay)
	ok, err := f.session.Flee()
	require.NoError(t, err)
	require.True(t, ok)

	// The player ends up on the tile they stepped from, not on the
	// warden's tile, so the ambush does not immediately re-trigger.
	state := f.session.State()
	assert.False(t, f.session.InBattle())
	assert.Equal(t, campaign.Position{X: 2, Y: 0}, state.Position)
	assert.False(t, state.IsBossDefeated("warden"))
}

// recordingRemote captures the context state seen by each remote fetch.
type recordingRemote struct {
	mu      sync.Mutex
	ctxErrs []error
}

func (r *recordingRemote) GenerateQuestions(ctx context.Context, req quiz.RemoteRequest, count int) ([]quiz.RemoteQuestion, error) {
	r.mu.Lock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []quiz.RemoteQuestion{{
		Question: quiz.Question{
			Prompt:             "remote question",
			Choices:            []string{"right", "wrong", "wrong", "wrong"},
			CorrectChoiceIndex: 0,
			RemoteID:           "r1",
		},
		RemoteID: "r1",
	}}, nil
}

func (r *recordingRemote) ReportAnswered(ctx context.Context, remoteID string, correct bool) error {
	return nil
}

func TestSession_BattleSurvivesRequestCancellation(t *testing.T) {
	world := testWorld()
	opponents := testOpponents()
	// A fixed, non-boss opponent that draws remote questions.
	opponents["warden"].IsBoss = false
	opponents["warden"].QuestionSource = opponent.SourceMixed

	remote := &recordingRemote{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rng := rand.New(rand.NewSource(1))
	clock := battle.NewFakeClock()
	store := storage.NewMockStorage()
	store.AddMap(world)

	state := campaign.New(world.Name, world.SpawnPosition(), "sanctuary")
	s, err := NewSession(Config{
		State:     state,
		World:     world,
		Opponents: opponents,
		Store:     store,
		Provider:  quiz.NewProvider(remote, rng, logger),
		Clock:     clock,
		Rand:      rng,
		Logger:    logger,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s.Move(ctx, worldmap.East)
	s.Move(ctx, worldmap.East)
	res, err := s.Move(ctx, worldmap.East)
	require.NoError(t, err)
	require.True(t, res.BattleStarted)

	// The handler has returned; net/http cancels the request context
	// before the intro timer fires.
	cancel()
	clock.Advance(battle.IntroDelay)

	snap := s.BattleSnapshot()
	require.NotNil(t, snap)
	require.NotNil(t, snap.Question, "battle stalled after request cancellation")
	assert.Equal(t, "remote question", snap.Question.Prompt)

	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.Len(t, remote.ctxErrs, 1)
	assert.NoError(t, remote.ctxErrs[0], "remote fetch ran on the cancelled request context")
}

func TestSession_SaveFallsBackWhenPrimaryFails(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	f.store.SetSaveError(fmt.Errorf("redis gone"))
	f.session.Save(ctx)

	state := f.session.State()
	saved, err := f.fallback.LoadCampaign(ctx, state.ID)
	require.NoError(t, err)
	require.NotNil(t, saved, "fallback snapshot missing after primary save failure")
}

func TestSession_BattleInputWithoutBattle(t *testing.T) {
	f := newSessionFixture(t, 1)

	_, err := f.session.Answer(0)
	assert.ErrorIs(t, err, ErrNoBattle)
	_, err = f.session.Flee()
	assert.ErrorIs(t, err, ErrNoBattle)
	assert.Nil(t, f.session.BattleSnapshot())
}
