package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InnQuestion is one of the three citizenship questions an innkeeper asks.
type InnQuestion struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Inn describes one inn: its home name, the respawn point granted to
// citizens, the sleeping room, and the citizenship questions.
type Inn struct {
	VendorID int    `yaml:"vendor_id"`
	Name     string `yaml:"name"` // home name stored on the character

	SpawnMap int `yaml:"spawn_map"`
	SpawnX   int `yaml:"spawn_x"`
	SpawnY   int `yaml:"spawn_y"`

	SleepMap int `yaml:"sleep_map"`
	SleepX   int `yaml:"sleep_x"`
	SleepY   int `yaml:"sleep_y"`

	Questions []InnQuestion `yaml:"questions"`
}

// AnswersMatch checks the three citizenship answers case-insensitively in
// order. Fewer configured questions than answers are accepted as blanks.
func (i *Inn) AnswersMatch(answers []string) int {
	wrong := 0
	for n, q := range i.Questions {
		if n >= len(answers) || !equalFold(q.Answer, answers[n]) {
			wrong++
		}
	}
	return wrong
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

type InnTable struct {
	inns map[int]*Inn
}

func LoadInns(path string) (*InnTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inns %s: %w", path, err)
	}
	var rows []*Inn
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse inns %s: %w", path, err)
	}
	t := &InnTable{inns: make(map[int]*Inn, len(rows))}
	for _, in := range rows {
		t.inns[in.VendorID] = in
	}
	return t, nil
}

func NewInnTable(rows []*Inn) *InnTable {
	t := &InnTable{inns: make(map[int]*Inn, len(rows))}
	for _, in := range rows {
		t.inns[in.VendorID] = in
	}
	return t
}

// ByVendor returns the inn served by a vendor id, or nil.
func (t *InnTable) ByVendor(vendorID int) *Inn {
	return t.inns[vendorID]
}

// ByName returns the inn whose home name matches, or nil. Used to resolve a
// character's saved home on respawn.
func (t *InnTable) ByName(name string) *Inn {
	for _, in := range t.inns {
		if equalFold(in.Name, name) {
			return in
		}
	}
	return nil
}

func (t *InnTable) Len() int {
	return len(t.inns)
}
