package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NpcType binds an NPC record to the dialog family it serves.
type NpcType int

const (
	NpcFriendly NpcType = iota
	NpcPassive
	NpcAggressive
	NpcReserved3
	NpcReserved4
	NpcReserved5
	NpcShop
	NpcInn
	NpcReserved8
	NpcBank
	NpcBarber
	NpcGuild
	NpcPriest
	NpcLaw
	NpcSkills
	NpcQuest
)

var npcTypeNames = map[string]NpcType{
	"friendly": NpcFriendly, "passive": NpcPassive, "aggressive": NpcAggressive,
	"shop": NpcShop, "inn": NpcInn, "bank": NpcBank, "barber": NpcBarber,
	"guild": NpcGuild, "priest": NpcPriest, "law": NpcLaw, "skills": NpcSkills,
	"quest": NpcQuest,
}

// Fightable reports whether this NPC type can be attacked at all.
func (t NpcType) Fightable() bool {
	return t == NpcPassive || t == NpcAggressive
}

// NpcDrop is one row of an NPC's drop table.
type NpcDrop struct {
	ItemID int     `yaml:"item"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
	Rate   float64 `yaml:"rate"` // 0..1 chance per kill
}

// Npc is one row of the NPC table, immutable after load.
type Npc struct {
	ID       int     `yaml:"id"`
	Name     string  `yaml:"name"`
	Graphic  int     `yaml:"graphic"`
	Boss     bool    `yaml:"boss"`
	Child    bool    `yaml:"child"`
	TypeName string  `yaml:"type"`
	Type     NpcType `yaml:"-"`

	VendorID int `yaml:"vendor_id"` // links shops/inns/skill masters

	HP     int `yaml:"hp"`
	Exp    int `yaml:"exp"`
	MinDam int `yaml:"min_damage"`
	MaxDam int `yaml:"max_damage"`
	Accur  int `yaml:"accuracy"`
	Evade  int `yaml:"evade"`
	Armor  int `yaml:"armor"`

	Drops []NpcDrop `yaml:"drops"`
}

// NpcTable provides read-only NPC record lookups.
type NpcTable struct {
	npcs map[int]*Npc
}

// LoadNpcs reads the NPC table from a single YAML file.
func LoadNpcs(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npcs %s: %w", path, err)
	}
	var rows []*Npc
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse npcs %s: %w", path, err)
	}
	t := &NpcTable{npcs: make(map[int]*Npc, len(rows))}
	for _, n := range rows {
		n.Type = npcTypeNames[n.TypeName]
		t.npcs[n.ID] = n
	}
	return t, nil
}

// NewNpcTable builds a table from in-memory rows. Used by tests.
func NewNpcTable(rows []*Npc) *NpcTable {
	t := &NpcTable{npcs: make(map[int]*Npc, len(rows))}
	for _, n := range rows {
		t.npcs[n.ID] = n
	}
	return t
}

// Get returns the NPC record with the given id, or nil.
func (t *NpcTable) Get(id int) *Npc {
	return t.npcs[id]
}

// Len returns the number of loaded NPC records.
func (t *NpcTable) Len() int {
	return len(t.npcs)
}
