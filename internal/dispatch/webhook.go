package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/lcy0321/TwitterDiscordBot/internal/config"
	"github.com/lcy0321/TwitterDiscordBot/internal/discord"
	"github.com/lcy0321/TwitterDiscordBot/internal/message"
	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

const defaultWebhookPacing = 500 * time.Millisecond

// Webhook posts messages straight to Discord channel webhooks.
//
// Pacing: a limiter spaces posts at least cfg pacing apart so the bot stays
// under Discord's webhook rate limit. Rejections (non-2xx) are logged with
// the status code and post id and intentionally not retried: a malformed
// payload or a dead webhook would otherwise retry forever.
type Webhook struct {
	client   *discord.Client
	webhooks map[string]string
	limiter  *rate.Limiter
	log      logx.Logger
}

// NewWebhook builds the direct-webhook dispatcher. The webhooks mapping must
// already be validated (every referenced channel resolves).
func NewWebhook(webhooks map[string]string, pacing time.Duration, log logx.Logger) *Webhook {
	if pacing <= 0 {
		pacing = defaultWebhookPacing
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Webhook{
		client:   discord.NewClient(),
		webhooks: webhooks,
		limiter:  rate.NewLimiter(rate.Every(pacing), 1),
		log:      log,
	}
}

func (w *Webhook) Send(ctx context.Context, msg message.Message, dest Destination) error {
	for _, channel := range dest.Channels {
		url, ok := config.ResolveWebhook(w.webhooks, channel)
		if !ok {
			// Startup validation makes this unreachable; guard anyway.
			return fmt.Errorf("channel %q has no webhook entry", channel)
		}

		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
		status, err := w.client.Post(ctx, url, msg)
		if err != nil {
			return fmt.Errorf("post to channel %q: %w", channel, err)
		}

		if discord.IsSuccess(status) {
			w.log.Info("posted to Discord channel",
				logx.String("account", dest.Account),
				logx.String("post_id", dest.PostID),
				logx.String("channel", channel))
		} else {
			w.log.Error("Discord rejected post",
				logx.String("account", dest.Account),
				logx.String("post_id", dest.PostID),
				logx.String("channel", channel),
				logx.Int("status", status))
		}
	}
	return nil
}

func (w *Webhook) Close() error { return nil }
