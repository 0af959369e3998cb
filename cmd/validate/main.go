package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/worldmap"
)

func main() {
	dataDir := "./data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	validator := &DataValidator{}
	if err := validator.validateDir(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Data directory is valid!")
}

type DataValidator struct {
	errors []string
}

func (v *DataValidator) validateDir(dataDir string) error {
	fmt.Printf("Validating %s...\n", dataDir)
	v.errors = nil

	opponentsDir := filepath.Join(dataDir, "opponents")
	mapsDir := filepath.Join(dataDir, "maps")

	opponents, err := opponent.LoadDir(opponentsDir)
	if err != nil {
		return fmt.Errorf("failed to load opponents: %w", err)
	}
	fmt.Printf("Loaded %d opponents\n", len(opponents))

	known := make(map[string]bool, len(opponents))
	for id, o := range opponents {
		known[id] = true
		v.validateIDFormat("opponent file", id)
		v.validateOpponent(o)
	}

	maps, err := worldmap.LoadDir(mapsDir)
	if err != nil {
		return fmt.Errorf("failed to load maps: %w", err)
	}
	fmt.Printf("Loaded %d maps\n", len(maps))

	for name, m := range maps {
		v.validateIDFormat("map file", name)
		if err := m.Validate(known); err != nil {
			v.addError(err.Error())
		}
		v.validateMap(m, opponents)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *DataValidator) validateOpponent(o *opponent.Opponent) {
	// Loaders accept a short pool, but a pool-locked opponent with
	// fewer questions than a long battle needs gets repetitive fast.
	if o.PoolLocked() && len(o.StaticPool) < 4 {
		v.addError(fmt.Sprintf("opponent %s is pool-locked with only %d questions", o.ID, len(o.StaticPool)))
	}
	if o.IsBoss && len(o.StaticPool) == 0 {
		v.addError(fmt.Sprintf("boss %s has no static pool; bosses never use remote questions", o.ID))
	}
	for i, q := range o.StaticPool {
		for j, choice := range q.Choices {
			if strings.TrimSpace(choice) == "" {
				v.addError(fmt.Sprintf("opponent %s question %d has a blank choice %d", o.ID, i, j))
			}
		}
	}
}

func (v *DataValidator) validateMap(m *worldmap.Map, opponents map[string]*opponent.Opponent) {
	for _, z := range m.Zones {
		v.validateIDFormat("zone name", z.Name)
		if z.EncounterEnabled && len(z.Opponents) == 0 {
			v.addError(fmt.Sprintf("map %s zone %s enables encounters but lists no opponents", m.Name, z.Name))
		}
		for _, id := range z.Opponents {
			if o, ok := opponents[id]; ok && o.IsBoss {
				v.addError(fmt.Sprintf("map %s zone %s puts boss %s in the random spawn table", m.Name, z.Name, id))
			}
		}
	}

	// Fixed spawns on the starting tile would begin a battle before
	// the player's first input.
	for _, f := range m.FixedSpawns {
		if f.X == m.SpawnX && f.Y == m.SpawnY {
			v.addError(fmt.Sprintf("map %s places fixed spawn %s on the spawn tile", m.Name, f.OpponentID))
		}
	}
}

func (v *DataValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !validIDRegex.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *DataValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
