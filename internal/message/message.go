// Package message turns a fetched tweet into the outbound Discord message.
//
// Render is a pure function: the same (author, post) pair always yields the
// same message, so a crashed-and-retried cycle re-renders identical payloads.
package message

import (
	"html"
	"strings"

	"github.com/lcy0321/TwitterDiscordBot/internal/twitter"
)

// Message is the Discord webhook payload.
// Embeds is omitted from the JSON entirely when there is no media.
type Message struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Content   string  `json:"content"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Embed is a rich-preview attachment; Discord currently only gets images
// from us.
type Embed struct {
	Image Image `json:"image"`
}

type Image struct {
	URL string `json:"url"`
}

// Render classifies the post and builds its message. First matching rule
// wins: retweet, video-bearing, photo-bearing, plain.
func Render(author twitter.Author, post twitter.Post) Message {
	msg := Message{
		Username:  author.Name,
		AvatarURL: author.AvatarURL,
	}

	switch {
	case post.IsRetweet():
		// Discord previews of retweets are unreliable; link the original and
		// the retweeting post, no embed.
		handle := post.Retweet.Handle
		if handle == "" {
			// twitter.com resolves a status under any screen name.
			handle = "_"
		}
		msg.Content = "RT: " + statusURL(handle, post.Retweet.ID) + "\n" +
			statusURL(author.Handle, post.ID)

	case post.Media.Kind == twitter.HasVideo:
		// The Discord API does not accept videos in embeds; the platform's
		// own link preview is the only way to see one, so leave the link bare.
		msg.Content = statusURL(author.Handle, post.ID)

	case post.Media.Kind == twitter.Photos:
		msg.Content = suppressedPermalinkBody(author, post)
		embeds := make([]Embed, 0, len(post.Media.PhotoURLs))
		for _, u := range post.Media.PhotoURLs {
			embeds = append(embeds, Embed{Image: Image{URL: u}})
		}
		msg.Embeds = embeds

	default:
		msg.Content = suppressedPermalinkBody(author, post)
	}

	return msg
}

// suppressedPermalinkBody renders the two-line body used for photo and plain
// posts: the permalink wrapped in angle brackets (so Discord does not
// auto-expand it) followed by the tweet text.
func suppressedPermalinkBody(author twitter.Author, post twitter.Post) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(statusURL(author.Handle, post.ID))
	b.WriteString(">\n")
	// The upstream text field can arrive entity-encoded.
	b.WriteString(html.UnescapeString(post.Text))
	return b.String()
}

func statusURL(handle, id string) string {
	return "http://twitter.com/" + handle + "/status/" + id
}
