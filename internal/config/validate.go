package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks everything that must hold before the cycle starts.
// A failure here is fatal: the process refuses to start.
func (c *Config) Validate() error {
	if err := c.Twitter.validate(); err != nil {
		return err
	}
	if len(c.Accounts) == 0 {
		return errors.New("accounts: at least one account is required")
	}

	seen := make(map[string]struct{}, len(c.Accounts))
	for i, a := range c.Accounts {
		handle := strings.TrimSpace(a.Twitter)
		if handle == "" {
			return fmt.Errorf("accounts[%d]: twitter handle is required", i)
		}
		if _, dup := seen[a.Key()]; dup {
			return fmt.Errorf("accounts[%d]: duplicate handle %q", i, handle)
		}
		seen[a.Key()] = struct{}{}
		if a.Every < 0 {
			return fmt.Errorf("accounts[%d]: every must be >= 0", i)
		}
		// Channels must all resolve now; a dangling key would otherwise only
		// surface as a lost post at runtime.
		for _, ch := range a.DiscordChannels {
			if err := checkWebhookRef(c.Webhooks, ch); err != nil {
				return fmt.Errorf("accounts[%d] (%s): %w", i, handle, err)
			}
		}
	}

	switch mode := c.Dispatch.Mode; mode {
	case "", ModeWebhook:
	case ModeChannel:
		if strings.TrimSpace(c.Dispatch.Relay.Addr) == "" {
			return errors.New("dispatch.relay.addr is required for channel mode")
		}
	default:
		return fmt.Errorf("dispatch.mode: unknown mode %q", mode)
	}

	for _, field := range [...][2]string{
		{"dispatch.pacing", c.Dispatch.Pacing},
		{"dispatch.relay.ack_timeout", c.Dispatch.Relay.AckTimeout},
		{"dispatch.relay.reconnect_backoff", c.Dispatch.Relay.ReconnectBackoff},
		{"cycle.error_backoff", c.Cycle.ErrorBackoff},
		{"storage.busy_timeout", c.Storage.BusyTimeout},
	} {
		if _, err := ParseDurationField(field[0], field[1]); err != nil {
			return err
		}
	}

	if c.Twitter.PageSize < 0 {
		return errors.New("twitter.page_size must be >= 0")
	}
	return nil
}

func (t TwitterConfig) validate() error {
	for _, f := range [...][2]string{
		{"twitter.consumer_key", t.ConsumerKey},
		{"twitter.consumer_secret", t.ConsumerSecret},
		{"twitter.access_token", t.AccessToken},
		{"twitter.access_token_secret", t.AccessTokenSecret},
	} {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%s is required", f[0])
		}
	}
	return nil
}

// Validate checks the forwarder config before the REP socket is bound.
func (c *ForwarderConfig) Validate() error {
	if strings.TrimSpace(c.Bind) == "" {
		return errors.New("bind is required")
	}
	for src, channels := range c.Routes {
		if len(channels) == 0 {
			return fmt.Errorf("routes[%s]: at least one channel is required", src)
		}
		for _, ch := range channels {
			if err := checkWebhookRef(c.Webhooks, ch); err != nil {
				return fmt.Errorf("routes[%s]: %w", src, err)
			}
		}
	}
	for _, ch := range c.DefaultChannels {
		if err := checkWebhookRef(c.Webhooks, ch); err != nil {
			return fmt.Errorf("default_channels: %w", err)
		}
	}
	if _, err := ParseDurationField("pacing", c.Pacing); err != nil {
		return err
	}
	return nil
}

func checkWebhookRef(webhooks map[string]string, channel string) error {
	url, ok := ResolveWebhook(webhooks, channel)
	if !ok {
		return fmt.Errorf("channel %q has no webhook entry", channel)
	}
	if !strings.HasPrefix(url, WebhookURLPrefix) {
		return fmt.Errorf("channel %q: webhook url must start with %s", channel, WebhookURLPrefix)
	}
	return nil
}
