package config

import (
	"fmt"
	"strings"
	"time"
)

// ParseDurationField parses one of the config's optional duration knobs
// (dispatch.pacing, dispatch.relay.ack_timeout, cycle.error_backoff,
// storage.busy_timeout, ...). Empty means unset and parses to zero; the
// owning component then applies its own default. path names the field in the
// error.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with the default applied here
// rather than by the caller. Used where zero is not a usable value, such as
// the forwarder's pacing.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
