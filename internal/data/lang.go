package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Lang holds the user-visible server strings for one language, loaded from
// lang/<code>.toml. Missing keys fall back to the key itself so a thin
// translation never hides a message entirely.
type Lang struct {
	strings map[string]string
}

// LoadLang reads lang/<code>.toml under dir.
func LoadLang(dir, code string) (*Lang, error) {
	path := filepath.Join(dir, code+".toml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lang %s: %w", path, err)
	}
	strs := make(map[string]string)
	if err := toml.Unmarshal(raw, &strs); err != nil {
		return nil, fmt.Errorf("parse lang %s: %w", path, err)
	}
	return &Lang{strings: strs}, nil
}

// NewLang builds a Lang from in-memory strings. Used by tests.
func NewLang(strs map[string]string) *Lang {
	if strs == nil {
		strs = map[string]string{}
	}
	return &Lang{strings: strs}
}

// Get returns the string for key, or the key itself when untranslated.
func (l *Lang) Get(key string) string {
	if s, ok := l.strings[key]; ok {
		return s
	}
	return key
}

// Getf returns the formatted string for key.
func (l *Lang) Getf(key string, args ...any) string {
	return fmt.Sprintf(l.Get(key), args...)
}
