package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Class is one row of the class table. The four multipliers feed the derived
// stat formulas; Base/Type describe promotion chains for skill masters.
type Class struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Base   int    `yaml:"base"`
	Type   int    `yaml:"type"`
	Str    int    `yaml:"str"`
	Int    int    `yaml:"intl"`
	Wis    int    `yaml:"wis"`
	Agi    int    `yaml:"agi"`
	Con    int    `yaml:"con"`
	Cha    int    `yaml:"cha"`
	People int    `yaml:"people"`
}

type ClassTable struct {
	classes map[int]*Class
}

func LoadClasses(path string) (*ClassTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classes %s: %w", path, err)
	}
	var rows []*Class
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse classes %s: %w", path, err)
	}
	t := &ClassTable{classes: make(map[int]*Class, len(rows))}
	for _, c := range rows {
		t.classes[c.ID] = c
	}
	return t, nil
}

func NewClassTable(rows []*Class) *ClassTable {
	t := &ClassTable{classes: make(map[int]*Class, len(rows))}
	for _, c := range rows {
		t.classes[c.ID] = c
	}
	return t
}

func (t *ClassTable) Get(id int) *Class {
	return t.classes[id]
}

func (t *ClassTable) Len() int {
	return len(t.classes)
}
