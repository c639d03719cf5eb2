package relay

import (
	"context"
	"fmt"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	"github.com/lcy0321/TwitterDiscordBot/internal/dispatch"
	"github.com/lcy0321/TwitterDiscordBot/internal/message"
	"github.com/lcy0321/TwitterDiscordBot/internal/twitter"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

// cycle processes every account once and returns the advanced cursor
// mapping. Failures are contained at account granularity: a failing account
// is logged and its cursor left untouched, so its posts are retried next
// cycle.
func (r *Runner) cycle(ctx context.Context, lastIDs map[string]string) map[string]string {
	r.cycleN++

	updated := make(map[string]string, len(lastIDs))
	for k, v := range lastIDs {
		updated[k] = v
	}

	// Author profiles are fetched at most once per cycle per handle.
	authors := map[string]twitter.Author{}

	for _, acct := range r.cfg.Accounts {
		if ctx.Err() != nil {
			break
		}
		if len(acct.DiscordChannels) == 0 {
			r.log.Warn("account has no Discord channels, ignoring",
				logx.String("account", acct.Twitter))
			continue
		}
		if acct.Every > 1 && (r.cycleN-1)%uint64(acct.Every) != 0 {
			r.log.Debug("account not due this cycle",
				logx.String("account", acct.Twitter), logx.Int("every", acct.Every))
			continue
		}

		if err := r.relayAccount(ctx, acct, authors, updated); err != nil {
			if ctx.Err() != nil {
				break
			}
			r.log.Error("failed to relay account, will retry next cycle",
				logx.String("account", acct.Twitter), logx.Err(err))
		}
	}
	return updated
}

// relayAccount fetches one account's new tweets and dispatches them oldest
// first. The cursor entry is advanced only after the whole page went out.
func (r *Runner) relayAccount(ctx context.Context, acct config.AccountConfig, authors map[string]twitter.Author, updated map[string]string) error {
	key := acct.Key()

	r.log.Debug("fetching timeline", logx.String("account", acct.Twitter))
	posts, err := r.fetcher.UserTimeline(ctx, acct.Twitter, updated[key])
	if err != nil {
		return err
	}
	r.log.Debug("found new tweets",
		logx.String("account", acct.Twitter), logx.Int("count", len(posts)))
	if len(posts) == 0 {
		return nil
	}

	author, err := r.lookupAuthor(ctx, authors, acct.Twitter)
	if err != nil {
		return err
	}

	// The fetch returns newest first; dispatch in reverse so a crash
	// mid-page never leaves the cursor past an unrelayed post.
	for i := len(posts) - 1; i >= 0; i-- {
		post := posts[i]
		dest := dispatch.Destination{
			Account:  key,
			PostID:   post.ID,
			Channels: acct.DiscordChannels,
		}
		if err := r.dispatcher.Send(ctx, message.Render(author, post), dest); err != nil {
			return fmt.Errorf("dispatch post %s: %w", post.ID, err)
		}
	}

	updated[key] = posts[0].ID
	return nil
}

func (r *Runner) lookupAuthor(ctx context.Context, cache map[string]twitter.Author, screenName string) (twitter.Author, error) {
	key := config.FoldKey(screenName)
	if a, ok := cache[key]; ok {
		return a, nil
	}
	a, err := r.fetcher.Lookup(ctx, screenName)
	if err != nil {
		return twitter.Author{}, err
	}
	cache[key] = a
	return a, nil
}
