package weather

import (
	"encoding/json"
	"strings"
)

// ProviderConfig is a parsed provider configuration blob: string keys mapped
// to primitive values. The orchestrator treats it as opaque; each provider
// pulls out and validates the keys it needs inside Fetch.
type ProviderConfig map[string]any

// ParseConfig parses a raw configuration string into a ProviderConfig.
// An empty or whitespace-only string yields an empty config, which is valid
// for providers that require none. Anything else must be a well-formed JSON
// object or a ConfigError is returned.
func ParseConfig(raw string) (ProviderConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return ProviderConfig{}, nil
	}
	var cfg ProviderConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// GetString returns the string value for key, and whether it was present as
// a non-empty string.
func (c ProviderConfig) GetString(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
