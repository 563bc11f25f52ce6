package data

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ArenaSpawn pairs a launch tile with its destination inside the arena.
type ArenaSpawn struct {
	FromX int `toml:"from_x"`
	FromY int `toml:"from_y"`
	ToX   int `toml:"to_x"`
	ToY   int `toml:"to_y"`
}

// Arena configures one arena map: how often queued players launch, how many
// fighters fit, and the spawn pairs.
type Arena struct {
	MapID  int          `toml:"map"`
	Rate   int          `toml:"rate"`  // ticks between launches
	Block  int          `toml:"block"` // occupant cap
	Spawns []ArenaSpawn `toml:"spawn"`
}

type arenaFile struct {
	Arenas []Arena `toml:"arena"`
}

type ArenaTable struct {
	arenas map[int]*Arena
}

// LoadArenas reads arena configs from a TOML file.
func LoadArenas(path string) (*ArenaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arenas %s: %w", path, err)
	}
	var f arenaFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arenas %s: %w", path, err)
	}
	t := &ArenaTable{arenas: make(map[int]*Arena, len(f.Arenas))}
	for i := range f.Arenas {
		a := &f.Arenas[i]
		t.arenas[a.MapID] = a
	}
	return t, nil
}

func NewArenaTable(rows []*Arena) *ArenaTable {
	t := &ArenaTable{arenas: make(map[int]*Arena, len(rows))}
	for _, a := range rows {
		t.arenas[a.MapID] = a
	}
	return t
}

// ByMap returns the arena config for a map id, or nil for ordinary maps.
func (t *ArenaTable) ByMap(mapID int) *Arena {
	return t.arenas[mapID]
}

func (t *ArenaTable) Len() int {
	return len(t.arenas)
}
