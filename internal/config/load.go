package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dispatch modes.
const (
	ModeWebhook = "webhook"
	ModeChannel = "channel"
)

// Discord only accepts webhook posts on this prefix; anything else is a typo
// or a different service, and is rejected at startup.
const WebhookURLPrefix = "https://discord.com/api/webhooks/"

// Load parses and validates the bot config file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := decodeStrict(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadForwarder parses and validates the forwarder config file.
func LoadForwarder(path string) (*ForwarderConfig, error) {
	var cfg ForwarderConfig
	if err := decodeStrict(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func decodeStrict(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	jb, err := toJSON(path, b)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("%s: invalid config: trailing data", path)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Key returns the case-folded handle used as the cursor/webhook lookup key.
func (a AccountConfig) Key() string {
	return FoldKey(a.Twitter)
}

// FoldKey normalizes a handle or channel key for case-insensitive lookups.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveWebhook looks up a channel key case-insensitively.
func ResolveWebhook(webhooks map[string]string, channel string) (string, bool) {
	want := FoldKey(channel)
	for k, url := range webhooks {
		if FoldKey(k) == want {
			return url, true
		}
	}
	return "", false
}
