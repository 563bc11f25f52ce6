package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpellTarget selects how a cast resolves.
type SpellTarget int

const (
	TargetNormal SpellTarget = iota // single hostile target
	TargetSelf
	TargetUnused
	TargetGroup
)

// SpellKind selects the effect applied on a successful cast.
type SpellKind int

const (
	SpellHeal SpellKind = iota
	SpellDamage
	SpellBard
)

var spellTargetNames = map[string]SpellTarget{
	"normal": TargetNormal, "self": TargetSelf, "group": TargetGroup,
}

var spellKindNames = map[string]SpellKind{
	"heal": SpellHeal, "damage": SpellDamage, "bard": SpellBard,
}

// Spell is one row of the spell table, immutable after load.
type Spell struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Shout   string `yaml:"shout"`
	Graphic int    `yaml:"graphic"`

	TargetName string      `yaml:"target"`
	KindName   string      `yaml:"kind"`
	Target     SpellTarget `yaml:"-"`
	Kind       SpellKind   `yaml:"-"`

	TP       int `yaml:"tp"`       // cost per cast
	SP       int `yaml:"sp"`       // skill-point cost to learn
	CastTime int `yaml:"cast_time"`

	MinDam int `yaml:"min_damage"`
	MaxDam int `yaml:"max_damage"`
	Accur  int `yaml:"accuracy"`
	HP     int `yaml:"hp"` // heal amount
}

type SpellTable struct {
	spells map[int]*Spell
}

func LoadSpells(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spells %s: %w", path, err)
	}
	var rows []*Spell
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse spells %s: %w", path, err)
	}
	t := &SpellTable{spells: make(map[int]*Spell, len(rows))}
	for _, s := range rows {
		s.Target = spellTargetNames[s.TargetName]
		s.Kind = spellKindNames[s.KindName]
		t.spells[s.ID] = s
	}
	return t, nil
}

func NewSpellTable(rows []*Spell) *SpellTable {
	t := &SpellTable{spells: make(map[int]*Spell, len(rows))}
	for _, s := range rows {
		t.spells[s.ID] = s
	}
	return t
}

func (t *SpellTable) Get(id int) *Spell {
	return t.spells[id]
}

func (t *SpellTable) Len() int {
	return len(t.spells)
}
