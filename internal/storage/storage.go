package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/worldmap"
)

// Storage defines a unified interface for all storage operations.
// Campaign saves go to the backing store; opponents and maps are
// static resources loaded from the filesystem.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Campaign operations
	SaveCampaign(ctx context.Context, id uuid.UUID, cs *campaign.State) error
	// LoadCampaign returns nil if the campaign doesn't exist
	LoadCampaign(ctx context.Context, id uuid.UUID) (*campaign.State, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	// Opponent operations (filesystem-backed)
	GetOpponent(ctx context.Context, id string) (*opponent.Opponent, error)
	ListOpponents(ctx context.Context) (map[string]*opponent.Opponent, error)

	// Map operations (filesystem-backed)
	GetMap(ctx context.Context, name string) (*worldmap.Map, error)
	ListMaps(ctx context.Context) (map[string]*worldmap.Map, error)
}
