package config

// Config is the bot-side (poller/producer) configuration.
//
// The file may be JSON or YAML; YAML is converted to JSON and decoded
// strictly, so unknown keys are rejected in both formats.
//
// All durations are Go duration strings (e.g. "500ms", "30s", "10m").
type Config struct {
	Twitter  TwitterConfig     `json:"twitter"`
	Accounts []AccountConfig   `json:"accounts"`
	Webhooks map[string]string `json:"webhooks"`
	Dispatch DispatchConfig    `json:"dispatch,omitempty"`
	Cycle    CycleConfig       `json:"cycle,omitempty"`
	Storage  StorageConfig     `json:"storage,omitempty"`
	Logging  LoggingConfig     `json:"logging,omitempty"`
}

// TwitterConfig carries the API credentials and fetch knobs.
type TwitterConfig struct {
	ConsumerKey       string `json:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`

	// PageSize bounds the first fetch of an account that has no cursor yet.
	// Default: 10.
	PageSize int `json:"page_size,omitempty"`
}

// AccountConfig names one Twitter account to poll and where its tweets go.
//
// An account with no discord_channels is skipped at runtime (warned, not a
// startup error). Every > 1 polls the account only on every Nth cycle.
type AccountConfig struct {
	Twitter         string   `json:"twitter"`
	DiscordChannels []string `json:"discord_channels,omitempty"`
	Every           int      `json:"every,omitempty"`
}

// DispatchConfig selects how rendered messages leave the process.
//
// Mode values:
//   - "webhook": post straight to the Discord webhooks (default)
//   - "channel": hand messages to the forwarder over a ZeroMQ REQ/REP channel
type DispatchConfig struct {
	Mode string `json:"mode,omitempty"`

	// Pacing is the minimum spacing between webhook posts. Default: "500ms".
	Pacing string `json:"pacing,omitempty"`

	Relay RelayChannelConfig `json:"relay,omitempty"`
}

// RelayChannelConfig configures the "channel" dispatch mode.
type RelayChannelConfig struct {
	// Addr is the forwarder endpoint, e.g. "tcp://127.0.0.1:5555".
	Addr string `json:"addr,omitempty"`

	// AckTimeout bounds the wait for the forwarder's ACK. Default: "2s".
	AckTimeout string `json:"ack_timeout,omitempty"`

	// ReconnectBackoff is the pause before re-dialing after a timed-out
	// request. Default: "5s".
	ReconnectBackoff string `json:"reconnect_backoff,omitempty"`
}

// CycleConfig controls the fetch-and-relay loop.
type CycleConfig struct {
	// Schedule is either a cron expression ("*/5 * * * *", "@hourly") or an
	// interval duration ("30s", "1m"). Default: "30s".
	Schedule string `json:"schedule,omitempty"`

	// ErrorBackoff is the extended sleep after a whole-cycle failure.
	// Default: "10m".
	ErrorBackoff string `json:"error_backoff,omitempty"`
}

// StorageConfig controls the cursor store.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./last_fetched.yaml" }
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // "file" (default) or "sqlite"
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type LoggingConfig struct {
	Level   string            `json:"level,omitempty"`
	Console bool              `json:"console,omitempty"`
	File    LoggingFileConfig `json:"file,omitempty"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ForwarderConfig is the ingestion-server (REP side) configuration.
type ForwarderConfig struct {
	// Bind is the endpoint the REP socket binds once, e.g. "tcp://127.0.0.1:5555".
	Bind string `json:"bind"`

	Webhooks map[string]string `json:"webhooks"`

	// Routes maps a request's source_id (case-folded account handle) to the
	// webhook channel keys it should be posted to. Requests with no route fall
	// back to DefaultChannels.
	Routes          map[string][]string `json:"routes,omitempty"`
	DefaultChannels []string            `json:"default_channels,omitempty"`

	// Pacing is the minimum spacing between webhook posts. Default: "3s".
	Pacing string `json:"pacing,omitempty"`

	Logging LoggingConfig `json:"logging,omitempty"`
}
