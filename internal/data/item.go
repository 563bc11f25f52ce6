package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemType categorizes an item record for use/equip logic.
type ItemType int

const (
	ItemStatic ItemType = iota
	ItemReserved1
	ItemMoney
	ItemHeal
	ItemTeleport
	ItemSpell
	ItemEXPReward
	ItemStatReward
	ItemSkillReward
	ItemKey
	ItemWeapon
	ItemShield
	ItemArmor
	ItemHat
	ItemBoots
	ItemGloves
	ItemAccessory
	ItemBelt
	ItemNecklace
	ItemRing
	ItemArmlet
	ItemBracer
	ItemBeer
	ItemEffectPotion
	ItemHairDye
	ItemCureCurse
)

// ItemSpecial marks protocol-visible item flags.
type ItemSpecial int

const (
	SpecialNormal ItemSpecial = iota
	SpecialRare
	SpecialUnused
	SpecialUnique
	SpecialLore   // cannot be dropped, traded or junked
	SpecialCursed // cannot be unequipped except by cure
)

var itemTypeNames = map[string]ItemType{
	"static": ItemStatic, "money": ItemMoney, "heal": ItemHeal, "teleport": ItemTeleport,
	"spell": ItemSpell, "exp_reward": ItemEXPReward, "stat_reward": ItemStatReward,
	"skill_reward": ItemSkillReward, "key": ItemKey, "weapon": ItemWeapon,
	"shield": ItemShield, "armor": ItemArmor, "hat": ItemHat, "boots": ItemBoots,
	"gloves": ItemGloves, "accessory": ItemAccessory, "belt": ItemBelt,
	"necklace": ItemNecklace, "ring": ItemRing, "armlet": ItemArmlet,
	"bracer": ItemBracer, "beer": ItemBeer, "effect_potion": ItemEffectPotion,
	"hair_dye": ItemHairDye, "cure_curse": ItemCureCurse,
}

var itemSpecialNames = map[string]ItemSpecial{
	"normal": SpecialNormal, "rare": SpecialRare, "unique": SpecialUnique,
	"lore": SpecialLore, "cursed": SpecialCursed,
}

// Item is one row of the item table, immutable after load.
type Item struct {
	ID      int         `yaml:"id"`
	Name    string      `yaml:"name"`
	Graphic int         `yaml:"graphic"`
	Type    ItemType    `yaml:"-"`
	Special ItemSpecial `yaml:"-"`

	TypeName    string `yaml:"type"`
	SpecialName string `yaml:"special"`

	HP     int `yaml:"hp"`
	TP     int `yaml:"tp"`
	MinDam int `yaml:"min_damage"`
	MaxDam int `yaml:"max_damage"`
	Accur  int `yaml:"accuracy"`
	Evade  int `yaml:"evade"`
	Armor  int `yaml:"armor"`

	Str int `yaml:"str"`
	Int int `yaml:"intl"`
	Wis int `yaml:"wis"`
	Agi int `yaml:"agi"`
	Con int `yaml:"con"`
	Cha int `yaml:"cha"`

	// Spec1..3 carry per-type parameters: scroll map/x/y for teleports,
	// spell id for spell items, gender for clothes, key id for keys.
	Spec1 int `yaml:"spec1"`
	Spec2 int `yaml:"spec2"`
	Spec3 int `yaml:"spec3"`

	LevelReq int `yaml:"level_req"`
	ClassReq int `yaml:"class_req"`
	Weight   int `yaml:"weight"`

	DollGraphic int `yaml:"doll_graphic"`
}

// Equippable reports whether the item occupies a paperdoll slot.
func (i *Item) Equippable() bool {
	switch i.Type {
	case ItemWeapon, ItemShield, ItemArmor, ItemHat, ItemBoots, ItemGloves,
		ItemAccessory, ItemBelt, ItemNecklace, ItemRing, ItemArmlet, ItemBracer:
		return true
	}
	return false
}

// VisibleOnAvatar reports whether equipping the item changes the avatar
// other players see.
func (i *Item) VisibleOnAvatar() bool {
	switch i.Type {
	case ItemArmor, ItemWeapon, ItemShield, ItemHat, ItemBoots:
		return true
	}
	return false
}

// ItemTable provides read-only item lookups.
type ItemTable struct {
	items map[int]*Item
}

// LoadItems reads the item table from a single YAML file.
func LoadItems(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	var rows []*Item
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	t := &ItemTable{items: make(map[int]*Item, len(rows))}
	for _, it := range rows {
		it.Type = itemTypeNames[it.TypeName]
		it.Special = itemSpecialNames[it.SpecialName]
		t.items[it.ID] = it
	}
	return t, nil
}

// NewItemTable builds a table from in-memory rows. Used by tests and tools.
func NewItemTable(rows []*Item) *ItemTable {
	t := &ItemTable{items: make(map[int]*Item, len(rows))}
	for _, it := range rows {
		t.items[it.ID] = it
	}
	return t
}

// Get returns the item with the given id, or nil.
func (t *ItemTable) Get(id int) *Item {
	return t.items[id]
}

// Len returns the number of loaded items.
func (t *ItemTable) Len() int {
	return len(t.items)
}
