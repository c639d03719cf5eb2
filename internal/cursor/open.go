package cursor

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

// Config configures the cursor store.
//
// Driver values:
//   - "file": dependency-free YAML file backend (default)
//   - "sqlite": SQLite database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence API used by the relay cycle.
//
// Load returns an empty mapping when no prior state exists. Save replaces
// the stored mapping wholesale; on failure the previous state stays intact
// so the caller can retry.
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, lastIDs map[string]string) error
	Close() error
}

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown cursor driver: " + driver)
	}
}

// foldKeys lowercases mapping keys so lookups stay case-insensitive no matter
// how the handles were spelled by the writer.
func foldKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
