package relay

import (
	"context"
	"time"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	"github.com/lcy0321/TwitterDiscordBot/internal/cursor"
	"github.com/lcy0321/TwitterDiscordBot/internal/dispatch"
	"github.com/lcy0321/TwitterDiscordBot/internal/twitter"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

const (
	defaultSchedule     = "30s"
	defaultErrorBackoff = 10 * time.Minute
)

// Fetcher is the slice of the Twitter client the cycle uses.
type Fetcher interface {
	Lookup(ctx context.Context, screenName string) (twitter.Author, error)
	UserTimeline(ctx context.Context, screenName, sinceID string) ([]twitter.Post, error)
}

// Config wires a Runner.
type Config struct {
	Accounts []config.AccountConfig
	// Schedule between cycle starts; defaults to every 30s.
	Schedule Schedule
	// ErrorBackoff is the extended sleep after a whole-cycle failure;
	// defaults to 10m.
	ErrorBackoff time.Duration
}

// Runner owns the forever-loop. It is single-threaded by design: one
// account, one post, one send in flight at a time.
type Runner struct {
	cfg        Config
	fetcher    Fetcher
	dispatcher dispatch.Dispatcher
	store      cursor.Store
	log        logx.Logger

	cycleN uint64
}

func New(cfg Config, fetcher Fetcher, dispatcher dispatch.Dispatcher, store cursor.Store, log logx.Logger) (*Runner, error) {
	if cfg.Schedule.IsZero() {
		sched, err := ParseSchedule(defaultSchedule)
		if err != nil {
			return nil, err
		}
		cfg.Schedule = sched
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = defaultErrorBackoff
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{
		cfg:        cfg,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		store:      store,
		log:        log,
	}, nil
}

// Run executes cycles until ctx is cancelled. The in-flight post of the
// current account finishes; no further accounts or cycles begin.
func (r *Runner) Run(ctx context.Context) error {
	lastIDs, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	r.log.Info("starting to fetch tweets",
		logx.Int("accounts", len(r.cfg.Accounts)),
		logx.Int("cursors", len(lastIDs)))

	for {
		updated := r.cycle(ctx, lastIDs)
		if ctx.Err() != nil {
			// Persist what the finished part of the cycle relayed.
			_ = r.store.Save(context.WithoutCancel(ctx), updated)
			return nil
		}

		if err := r.store.Save(ctx, updated); err != nil {
			// Whole-cycle failure: keep the advanced mapping in memory (those
			// posts were relayed) and retry the persist after the extended
			// backoff. On-disk state is still the previous successful save.
			r.log.Error("failed to persist cursors", logx.Err(err))
			lastIDs = updated
			if !r.sleep(ctx, r.cfg.ErrorBackoff) {
				return nil
			}
			continue
		}
		lastIDs = updated

		next := r.cfg.Schedule.Next(time.Now())
		if !r.sleepUntil(ctx, next) {
			return nil
		}
	}
}

// sleep waits d, or returns false as soon as ctx is cancelled.
func (r *Runner) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) sleepUntil(ctx context.Context, at time.Time) bool {
	d := time.Until(at)
	if d <= 0 {
		return ctx.Err() == nil
	}
	return r.sleep(ctx, d)
}
