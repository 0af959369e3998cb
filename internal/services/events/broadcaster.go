// Package events publishes campaign events to Redis Pub/Sub so the
// HTTP layer can stream them to browsers over SSE.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeCampaignUpdated  EventType = "campaign.updated"
	EventTypeBattleStarted    EventType = "battle.started"
	EventTypeBattleMessage    EventType = "battle.message"
	EventTypeBattleQuestion   EventType = "battle.question"
	EventTypeQuestionHidden   EventType = "battle.question_hidden"
	EventTypeBattleDamage     EventType = "battle.damage"
	EventTypeBattleCue        EventType = "battle.cue"
	EventTypeBattleEnded      EventType = "battle.ended"
	EventTypeCampaignSaved    EventType = "campaign.saved"
	EventTypeCampaignSaveFail EventType = "campaign.save_failed"
)

// Event is the generic wire structure pushed to subscribers.
type Event struct {
	Type       EventType              `json:"type"`
	CampaignID string                 `json:"campaign_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish sends an event on the campaign's channel. A nil Redis
// client drops the event silently; the console client runs without an
// event bus.
func (b *Broadcaster) Publish(ctx context.Context, campaignID uuid.UUID, eventType EventType, data map[string]interface{}) error {
	if b == nil || b.redisClient == nil {
		return nil
	}

	event := Event{
		Type:       eventType,
		CampaignID: campaignID.String(),
		Data:       data,
	}
	channel := ChannelName(campaignID)

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", eventType)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published", "channel", channel, "event_type", eventType)
	return nil
}

// Subscribe opens a subscription on the campaign's channel. The
// caller owns the returned PubSub and must close it.
func (b *Broadcaster) Subscribe(ctx context.Context, campaignID uuid.UUID) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, ChannelName(campaignID))
}

// ChannelName is the Pub/Sub channel for one campaign.
func ChannelName(campaignID uuid.UUID) string {
	return fmt.Sprintf("campaign-events:%s", campaignID.String())
}
