package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/triviaquest/engine/pkg/campaign"
)

// Campaign operations (Redis-backed)

const campaignKeyPrefix = "campaign:"

func campaignKey(id uuid.UUID) string {
	return campaignKeyPrefix + id.String()
}

func (r *RedisStorage) SaveCampaign(ctx context.Context, id uuid.UUID, cs *campaign.State) error {
	cs.UpdatedAt = time.Now()

	data, err := json.Marshal(cs)
	if err != nil {
		r.logger.Error("Failed to marshal campaign", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	// Saves never expire; a campaign lives until the player resets it.
	cmd := r.client.Set(ctx, campaignKey(id), string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save campaign", "uuid", id, "error", err)
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadCampaign(ctx context.Context, id uuid.UUID) (*campaign.State, error) {
	cmd := r.client.Get(ctx, campaignKey(id))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Campaign not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load campaign", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Campaign not found", "uuid", id)
		return nil, nil
	}

	var cs campaign.State
	if err := json.Unmarshal([]byte(data), &cs); err != nil {
		r.logger.Error("Failed to unmarshal campaign", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}

	return &cs, nil
}

func (r *RedisStorage) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, campaignKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete campaign", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}
