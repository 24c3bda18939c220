// Package manifest records what a directory batch produced so a later run
// can skip captions whose output is already up to date.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

type Manifest struct {
	Version       int              `json:"version"`
	GeneratedAt   string           `json:"generatedAt"`
	RenderVersion string           `json:"renderVersion"`
	SettingsHash  string           `json:"settingsHash"`
	SourceHash    string           `json:"sourceHash"`
	Memes         map[string]Entry `json:"memes"`
}

// Entry is keyed by output filename.
type Entry struct {
	Caption  string `json:"caption"`
	Hash     string `json:"hash"`
	FontSize int    `json:"fontSize"`
	Lines    int    `json:"lines"`
	Overflow bool   `json:"overflow,omitempty"`
}

// Load returns nil without error when path does not exist.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Memes == nil {
		m.Memes = map[string]Entry{}
	}
	return &m, nil
}

func Save(path string, m *Manifest) error {
	if m == nil {
		return errors.New("manifest is nil")
	}
	m.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
