package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SkillMasterSkill is one learnable spell with its requirements.
type SkillMasterSkill struct {
	SpellID  int `yaml:"spell"`
	Price    int `yaml:"price"`
	LevelReq int `yaml:"level_req"`
	ClassReq int `yaml:"class_req"`

	SkillReqs [4]int `yaml:"skill_reqs"` // prerequisite spell ids, zero = none

	StrReq int `yaml:"str_req"`
	IntReq int `yaml:"int_req"`
	WisReq int `yaml:"wis_req"`
	AgiReq int `yaml:"agi_req"`
	ConReq int `yaml:"con_req"`
	ChaReq int `yaml:"cha_req"`
}

// SkillMaster is the stock of one trainer, linked from NPC records.
type SkillMaster struct {
	VendorID int                `yaml:"vendor_id"`
	Name     string             `yaml:"name"`
	MinLevel int                `yaml:"min_level"`
	MaxLevel int                `yaml:"max_level"`
	ClassReq int                `yaml:"class_req"`
	Skills   []SkillMasterSkill `yaml:"skills"`
}

// FindSkill returns the listing for a spell id, or nil.
func (m *SkillMaster) FindSkill(spellID int) *SkillMasterSkill {
	for i := range m.Skills {
		if m.Skills[i].SpellID == spellID {
			return &m.Skills[i]
		}
	}
	return nil
}

type SkillMasterTable struct {
	masters map[int]*SkillMaster
}

func LoadSkillMasters(path string) (*SkillMasterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill masters %s: %w", path, err)
	}
	var rows []*SkillMaster
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse skill masters %s: %w", path, err)
	}
	t := &SkillMasterTable{masters: make(map[int]*SkillMaster, len(rows))}
	for _, m := range rows {
		t.masters[m.VendorID] = m
	}
	return t, nil
}

func NewSkillMasterTable(rows []*SkillMaster) *SkillMasterTable {
	t := &SkillMasterTable{masters: make(map[int]*SkillMaster, len(rows))}
	for _, m := range rows {
		t.masters[m.VendorID] = m
	}
	return t
}

// ByVendor returns the skill master served by a vendor id, or nil.
func (t *SkillMasterTable) ByVendor(vendorID int) *SkillMaster {
	return t.masters[vendorID]
}

func (t *SkillMasterTable) Len() int {
	return len(t.masters)
}
