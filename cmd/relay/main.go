// Command relay polls the configured Twitter accounts and relays new tweets
// to Discord, either straight to channel webhooks or through the forwarder
// over a ZeroMQ relay channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	"github.com/lcy0321/TwitterDiscordBot/internal/cursor"
	"github.com/lcy0321/TwitterDiscordBot/internal/dispatch"
	"github.com/lcy0321/TwitterDiscordBot/internal/relay"
	"github.com/lcy0321/TwitterDiscordBot/internal/twitter"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console || !cfg.Logging.File.Enabled,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	if err != nil {
		return err
	}
	defer log.Close()
	log = log.With(logx.String("comp", "relay"))

	busyTimeout, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return err
	}
	storePath := cfg.Storage.Path
	if storePath == "" {
		storePath = "./last_fetched.yaml"
	}
	store, err := cursor.Open(cursor.Config{
		Driver:      cfg.Storage.Driver,
		Path:        storePath,
		BusyTimeout: busyTimeout,
	}, log.With(logx.String("comp", "cursor")))
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher := twitter.New(twitter.Config{
		ConsumerKey:       cfg.Twitter.ConsumerKey,
		ConsumerSecret:    cfg.Twitter.ConsumerSecret,
		AccessToken:       cfg.Twitter.AccessToken,
		AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		PageSize:          cfg.Twitter.PageSize,
	}, log.With(logx.String("comp", "twitter")))

	dispatcher, err := newDispatcher(cfg, log)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	runner, err := newRunner(cfg, fetcher, dispatcher, store, log)
	if err != nil {
		return err
	}

	// Under systemd Type=notify this flips the unit to active; elsewhere it
	// is a no-op.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	return runner.Run(ctx)
}

// newDispatcher picks the dispatch implementation once, at startup.
func newDispatcher(cfg *config.Config, log logx.Logger) (dispatch.Dispatcher, error) {
	switch cfg.Dispatch.Mode {
	case "", config.ModeWebhook:
		pacing, err := config.ParseDurationField("dispatch.pacing", cfg.Dispatch.Pacing)
		if err != nil {
			return nil, err
		}
		return dispatch.NewWebhook(cfg.Webhooks, pacing, log.With(logx.String("comp", "webhook"))), nil

	case config.ModeChannel:
		ackTimeout, err := config.ParseDurationField("dispatch.relay.ack_timeout", cfg.Dispatch.Relay.AckTimeout)
		if err != nil {
			return nil, err
		}
		backoff, err := config.ParseDurationField("dispatch.relay.reconnect_backoff", cfg.Dispatch.Relay.ReconnectBackoff)
		if err != nil {
			return nil, err
		}
		return dispatch.NewChannel(dispatch.ChannelConfig{
			Addr:             cfg.Dispatch.Relay.Addr,
			AckTimeout:       ackTimeout,
			ReconnectBackoff: backoff,
		}, log.With(logx.String("comp", "channel"))), nil

	default:
		return nil, fmt.Errorf("unknown dispatch mode %q", cfg.Dispatch.Mode)
	}
}

func newRunner(cfg *config.Config, fetcher relay.Fetcher, dispatcher dispatch.Dispatcher, store cursor.Store, log logx.Logger) (*relay.Runner, error) {
	var sched relay.Schedule
	if cfg.Cycle.Schedule != "" {
		var err error
		sched, err = relay.ParseSchedule(cfg.Cycle.Schedule)
		if err != nil {
			return nil, err
		}
	}
	errorBackoff, err := config.ParseDurationField("cycle.error_backoff", cfg.Cycle.ErrorBackoff)
	if err != nil {
		return nil, err
	}
	return relay.New(relay.Config{
		Accounts:     cfg.Accounts,
		Schedule:     sched,
		ErrorBackoff: errorBackoff,
	}, fetcher, dispatcher, store, log.With(logx.String("comp", "cycle")))
}
