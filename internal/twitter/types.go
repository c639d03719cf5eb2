package twitter

// Author is a tweet author's profile as the relay needs it.
type Author struct {
	Name      string // display name
	Handle    string // screen name
	AvatarURL string // full-resolution profile image
}

// MediaKind is the three-way media summary of a post.
type MediaKind int

const (
	// NoMedia: the post carries no usable media. Unparseable or mixed media
	// lists also land here; a degraded message beats a lost post.
	NoMedia MediaKind = iota
	// Photos: every media item is a photo.
	Photos
	// HasVideo: at least one media item is a video. Discord embeds cannot
	// carry video, so the renderer degrades to a bare link.
	HasVideo
)

// MediaSummary is computed once when the wire tweet is mapped; the renderer
// switches on Kind instead of re-inspecting entities.
type MediaSummary struct {
	Kind      MediaKind
	PhotoURLs []string // set only for Photos, original order
}

// RetweetRef points at the original post of a retweet.
type RetweetRef struct {
	ID string
	// Handle is the original author's screen name, or "" when the API
	// response had the user trimmed.
	Handle string
}

// Post is one fetched tweet.
//
// ID is an opaque token: it is compared for equality and stored, never
// ordered arithmetically. Text prefers the extended full_text field and
// falls back to the truncated text field.
type Post struct {
	ID      string
	Text    string
	Media   MediaSummary
	Retweet *RetweetRef
}

// IsRetweet reports whether the post is purely a reference to another post.
func (p Post) IsRetweet() bool { return p.Retweet != nil }
