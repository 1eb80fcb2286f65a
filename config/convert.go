package config

import (
	"encoding/json"
	"fmt"
)

// FromJSON decodes data over a default Config, so a JSON file only needs
// to set the fields it wants to override.
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	return cfg, nil
}

// ToJSON marshals cfg as indented JSON.
func ToJSON(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}
