package dispatch

import (
	"context"

	"github.com/lcy0321/TwitterDiscordBot/internal/message"
)

// Destination names where one message goes.
type Destination struct {
	// Account is the case-folded source account handle. The channel
	// dispatcher addresses the forwarder with it; the webhook dispatcher
	// only logs it.
	Account string

	// PostID is the originating tweet id, carried for logging.
	PostID string

	// Channels are the webhook channel keys, in configured order. Unused in
	// channel mode, where routing is the forwarder's business.
	Channels []string
}

// Dispatcher sends one rendered message to a destination.
//
// An error means the message could not be handed off and the caller should
// treat the account's cycle as failed (the cursor stays put, so the post is
// retried next cycle). A destination rejecting the message is not an error.
type Dispatcher interface {
	Send(ctx context.Context, msg message.Message, dest Destination) error
	Close() error
}

// Request is the wire form of a message on the relay channel.
type Request struct {
	SourceID   string          `json:"source_id"`
	SourceType string          `json:"source_type"`
	Username   string          `json:"username"`
	AvatarURL  string          `json:"avatar_url"`
	Content    string          `json:"content"`
	Embeds     []message.Embed `json:"embeds,omitempty"`
}

// SourceTypeTwitter tags requests produced by this bot.
const SourceTypeTwitter = "twitter"

func newRequest(msg message.Message, dest Destination) Request {
	return Request{
		SourceID:   dest.Account,
		SourceType: SourceTypeTwitter,
		Username:   msg.Username,
		AvatarURL:  msg.AvatarURL,
		Content:    msg.Content,
		Embeds:     msg.Embeds,
	}
}

// Message converts a received request back into the webhook payload.
func (r Request) Message() message.Message {
	return message.Message{
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		Content:   r.Content,
		Embeds:    r.Embeds,
	}
}
