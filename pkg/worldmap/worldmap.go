// Package worldmap holds the declarative per-map configuration that
// drives exploration: zone geometry and flags, random-encounter spawn
// tables, and fixed opponent placements. Movement and encounter logic
// is implemented once against this data; only rendering varies per map.
package worldmap

import (
	"fmt"
	"math/rand"

	"github.com/triviaquest/engine/pkg/campaign"
)

// Direction is a cardinal movement direction.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// ParseDirection validates a direction string from a client.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case North, South, East, West:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Rect is an axis-aligned tile rectangle, inclusive of its edges.
type Rect struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Contains reports whether the tile (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Zone is a named region of a map. Encounter-enabled zones accumulate
// steps toward random battles against opponents from the spawn table;
// safe zones never do.
type Zone struct {
	Name             string   `yaml:"name" json:"name"`
	EncounterEnabled bool     `yaml:"encounter_enabled" json:"encounter_enabled"`
	Opponents        []string `yaml:"opponents,omitempty" json:"opponents,omitempty"`
	Bounds           []Rect   `yaml:"bounds" json:"bounds"`
}

// FixedSpawn places a named opponent at a fixed tile. Contact with the
// tile begins a battle unconditionally unless the opponent is already
// recorded as defeated.
type FixedSpawn struct {
	OpponentID string `yaml:"opponent_id" json:"opponent_id"`
	X          int    `yaml:"x" json:"x"`
	Y          int    `yaml:"y" json:"y"`
}

// Map is one explorable tile map.
type Map struct {
	Name        string       `yaml:"name" json:"name"`
	Width       int          `yaml:"width" json:"width"`
	Height      int          `yaml:"height" json:"height"`
	SpawnX      int          `yaml:"spawn_x" json:"spawn_x"`
	SpawnY      int          `yaml:"spawn_y" json:"spawn_y"`
	Zones       []Zone       `yaml:"zones" json:"zones"`
	FixedSpawns []FixedSpawn `yaml:"fixed_spawns,omitempty" json:"fixed_spawns,omitempty"`
}

// SpawnPosition returns the map's starting tile.
func (m *Map) SpawnPosition() campaign.Position {
	return campaign.Position{X: m.SpawnX, Y: m.SpawnY}
}

// ZoneAt returns the zone covering the tile, or nil if none does.
// Zones are checked in declaration order; the first match wins.
func (m *Map) ZoneAt(x, y int) *Zone {
	for i := range m.Zones {
		for _, r := range m.Zones[i].Bounds {
			if r.Contains(x, y) {
				return &m.Zones[i]
			}
		}
	}
	return nil
}

// Move applies one step in the given direction. Steps off the map edge
// are ignored and return ok=false.
func (m *Map) Move(pos campaign.Position, dir Direction) (campaign.Position, bool) {
	next := pos
	switch dir {
	case North:
		next.Y--
	case South:
		next.Y++
	case East:
		next.X++
	case West:
		next.X--
	default:
		return pos, false
	}
	if next.X < 0 || next.Y < 0 || next.X >= m.Width || next.Y >= m.Height {
		return pos, false
	}
	return next, true
}

// FixedOpponentAt returns the id of the fixed opponent occupying the
// tile, if any.
func (m *Map) FixedOpponentAt(x, y int) (string, bool) {
	for _, f := range m.FixedSpawns {
		if f.X == x && f.Y == y {
			return f.OpponentID, true
		}
	}
	return "", false
}

// PickOpponent selects a random opponent id from the zone's spawn
// table. Returns false for zones with no table.
func (m *Map) PickOpponent(z *Zone, rng *rand.Rand) (string, bool) {
	if z == nil || len(z.Opponents) == 0 {
		return "", false
	}
	return z.Opponents[rng.Intn(len(z.Opponents))], true
}

// Validate checks the map's internal consistency. known is the set of
// loaded opponent ids; pass nil to skip reference checks.
func (m *Map) Validate(known map[string]bool) error {
	if m.Name == "" {
		return fmt.Errorf("map has an empty name")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %s has dimensions %dx%d, want > 0", m.Name, m.Width, m.Height)
	}
	if m.SpawnX < 0 || m.SpawnY < 0 || m.SpawnX >= m.Width || m.SpawnY >= m.Height {
		return fmt.Errorf("map %s spawn (%d,%d) is outside the map", m.Name, m.SpawnX, m.SpawnY)
	}
	for _, z := range m.Zones {
		if z.Name == "" {
			return fmt.Errorf("map %s has a zone with an empty name", m.Name)
		}
		if len(z.Bounds) == 0 {
			return fmt.Errorf("map %s zone %s has no bounds", m.Name, z.Name)
		}
		if known != nil {
			for _, id := range z.Opponents {
				if !known[id] {
					return fmt.Errorf("map %s zone %s references unknown opponent %q", m.Name, z.Name, id)
				}
			}
		}
	}
	for _, f := range m.FixedSpawns {
		if f.X < 0 || f.Y < 0 || f.X >= m.Width || f.Y >= m.Height {
			return fmt.Errorf("map %s fixed spawn %s at (%d,%d) is outside the map", m.Name, f.OpponentID, f.X, f.Y)
		}
		if known != nil && !known[f.OpponentID] {
			return fmt.Errorf("map %s fixed spawn references unknown opponent %q", m.Name, f.OpponentID)
		}
	}
	return nil
}
