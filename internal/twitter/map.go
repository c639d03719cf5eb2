package twitter

import (
	"regexp"

	"github.com/dghubble/go-twitter/twitter"
)

// Twitter serves avatars with a _normal size suffix; stripping it yields the
// full-resolution image.
var avatarSizeSuffix = regexp.MustCompile(`_normal(\..+)$`)

func normalizeAvatarURL(url string) string {
	return avatarSizeSuffix.ReplaceAllString(url, `$1`)
}

func mapAuthor(u *twitter.User) Author {
	return Author{
		Name:      u.Name,
		Handle:    u.ScreenName,
		AvatarURL: normalizeAvatarURL(u.ProfileImageURLHttps),
	}
}

func mapPost(t twitter.Tweet) Post {
	p := Post{
		ID:    t.IDStr,
		Text:  t.FullText,
		Media: summarizeMedia(t),
	}
	if p.Text == "" {
		p.Text = t.Text
	}
	if rt := t.RetweetedStatus; rt != nil {
		ref := &RetweetRef{ID: rt.IDStr}
		if rt.User != nil {
			ref.Handle = rt.User.ScreenName
		}
		p.Retweet = ref
	}
	return p
}

// summarizeMedia inspects the extended entities once and reduces them to the
// three-way summary the renderer switches on.
//
// A media list that is neither all-photos nor video-bearing (unknown kinds,
// missing URLs) degrades to NoMedia rather than failing the post.
func summarizeMedia(t twitter.Tweet) MediaSummary {
	if t.ExtendedEntities == nil || len(t.ExtendedEntities.Media) == 0 {
		return MediaSummary{Kind: NoMedia}
	}

	photos := make([]string, 0, len(t.ExtendedEntities.Media))
	for _, m := range t.ExtendedEntities.Media {
		switch m.Type {
		case "video":
			return MediaSummary{Kind: HasVideo}
		case "photo":
			if m.MediaURLHttps == "" {
				return MediaSummary{Kind: NoMedia}
			}
			photos = append(photos, m.MediaURLHttps)
		default:
			return MediaSummary{Kind: NoMedia}
		}
	}
	return MediaSummary{Kind: Photos, PhotoURLs: photos}
}
