package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviaquest/engine/pkg/campaign"
)

func setupTestRedis(t *testing.T) *RedisStorage {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs := NewRedisStorage(mr.Addr(), t.TempDir(), logger)
	t.Cleanup(func() { _ = rs.Close() })

	require.NoError(t, rs.Ping(context.Background()))
	return rs
}

func TestRedisStorage_CampaignRoundTrip(t *testing.T) {
	rs := setupTestRedis(t)
	ctx := context.Background()

	cs := campaign.New("overworld", campaign.Position{X: 3, Y: 4}, "meadow")
	cs.Stats.Gold = 42
	cs.RecordBossDefeat("archivist")

	require.NoError(t, rs.SaveCampaign(ctx, cs.ID, cs))
	assert.False(t, cs.UpdatedAt.IsZero())

	loaded, err := rs.LoadCampaign(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cs.ID, loaded.ID)
	assert.Equal(t, campaign.Position{X: 3, Y: 4}, loaded.Position)
	assert.Equal(t, 42, loaded.Stats.Gold)
	assert.True(t, loaded.IsBossDefeated("archivist"))
}

func TestRedisStorage_LoadMissingCampaign(t *testing.T) {
	rs := setupTestRedis(t)

	loaded, err := rs.LoadCampaign(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing campaign loads as nil, not an error")
}

func TestRedisStorage_DeleteCampaign(t *testing.T) {
	rs := setupTestRedis(t)
	ctx := context.Background()

	cs := campaign.New("overworld", campaign.Position{}, "meadow")
	require.NoError(t, rs.SaveCampaign(ctx, cs.ID, cs))
	require.NoError(t, rs.DeleteCampaign(ctx, cs.ID))

	loaded, err := rs.LoadCampaign(ctx, cs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting again is not an error
	assert.NoError(t, rs.DeleteCampaign(ctx, cs.ID))
}

func TestRedisStorage_QuizHistorySurvivesRoundTrip(t *testing.T) {
	rs := setupTestRedis(t)
	ctx := context.Background()

	cs := campaign.New("overworld", campaign.Position{}, "meadow")
	cs.History().RecordPrompt("What is the capital of Peru?")
	cs.History().RecordRemoteID("remote-1")

	require.NoError(t, rs.SaveCampaign(ctx, cs.ID, cs))
	loaded, err := rs.LoadCampaign(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.History().HasAsked("What is the capital of Peru?"))
	assert.Equal(t, []string{"remote-1"}, loaded.History().RecentRemoteIDs)
}
