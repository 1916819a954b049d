package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/plangest/internal/plan"
)

// LoadLayout reads a YAML layout profile. Keys missing from the file keep
// their default values; an empty path returns the defaults.
func LoadLayout(path string) (plan.Layout, error) {
	layout := plan.DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return plan.Layout{}, fmt.Errorf("read layout profile: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a YAML layout profile over the defaults. Unknown keys
// are rejected so typos do not silently fall back to a default.
func ParseLayout(data []byte) (plan.Layout, error) {
	layout := plan.DefaultLayout()
	if len(bytes.TrimSpace(data)) == 0 {
		return layout, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layout); err != nil {
		return plan.Layout{}, fmt.Errorf("parse layout profile: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return plan.Layout{}, fmt.Errorf("invalid layout profile: %w", err)
	}
	return layout, nil
}
