package twitter

import (
	"reflect"
	"testing"

	"github.com/dghubble/go-twitter/twitter"
)

func TestNormalizeAvatarURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{
			in:   "https://pbs.twimg.com/profile_images/123/foo_normal.png",
			want: "https://pbs.twimg.com/profile_images/123/foo.png",
		},
		{
			in:   "https://pbs.twimg.com/profile_images/123/foo_normal.jpeg",
			want: "https://pbs.twimg.com/profile_images/123/foo.jpeg",
		},
		{
			// no suffix: unchanged
			in:   "https://pbs.twimg.com/profile_images/123/foo.png",
			want: "https://pbs.twimg.com/profile_images/123/foo.png",
		},
		{
			// suffix not at the end: unchanged
			in:   "https://pbs.twimg.com/foo_normal.png/bar",
			want: "https://pbs.twimg.com/foo_normal.png/bar",
		},
	}
	for _, tt := range tests {
		if got := normalizeAvatarURL(tt.in); got != tt.want {
			t.Errorf("normalizeAvatarURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeMedia(t *testing.T) {
	t.Parallel()
	media := func(entries ...twitter.MediaEntity) *twitter.ExtendedEntity {
		return &twitter.ExtendedEntity{Media: entries}
	}

	tests := []struct {
		name string
		t    twitter.Tweet
		want MediaSummary
	}{
		{
			name: "no entities",
			t:    twitter.Tweet{},
			want: MediaSummary{Kind: NoMedia},
		},
		{
			name: "empty media list",
			t:    twitter.Tweet{ExtendedEntities: media()},
			want: MediaSummary{Kind: NoMedia},
		},
		{
			name: "single photo",
			t: twitter.Tweet{ExtendedEntities: media(
				twitter.MediaEntity{Type: "photo", MediaURLHttps: "https://img/1.jpg"},
			)},
			want: MediaSummary{Kind: Photos, PhotoURLs: []string{"https://img/1.jpg"}},
		},
		{
			name: "photos keep order",
			t: twitter.Tweet{ExtendedEntities: media(
				twitter.MediaEntity{Type: "photo", MediaURLHttps: "https://img/1.jpg"},
				twitter.MediaEntity{Type: "photo", MediaURLHttps: "https://img/2.jpg"},
			)},
			want: MediaSummary{Kind: Photos, PhotoURLs: []string{"https://img/1.jpg", "https://img/2.jpg"}},
		},
		{
			name: "any video wins",
			t: twitter.Tweet{ExtendedEntities: media(
				twitter.MediaEntity{Type: "photo", MediaURLHttps: "https://img/1.jpg"},
				twitter.MediaEntity{Type: "video", MediaURLHttps: "https://vid/1.mp4"},
			)},
			want: MediaSummary{Kind: HasVideo},
		},
		{
			name: "unknown kind degrades to no media",
			t: twitter.Tweet{ExtendedEntities: media(
				twitter.MediaEntity{Type: "animated_gif", MediaURLHttps: "https://img/1.gif"},
			)},
			want: MediaSummary{Kind: NoMedia},
		},
		{
			name: "photo without url degrades to no media",
			t: twitter.Tweet{ExtendedEntities: media(
				twitter.MediaEntity{Type: "photo"},
			)},
			want: MediaSummary{Kind: NoMedia},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizeMedia(tt.t); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("summarizeMedia = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapPost(t *testing.T) {
	t.Parallel()

	t.Run("prefers full text", func(t *testing.T) {
		p := mapPost(twitter.Tweet{IDStr: "1", Text: "short", FullText: "the full text"})
		if p.Text != "the full text" {
			t.Fatalf("Text = %q, want full text", p.Text)
		}
	})

	t.Run("falls back to truncated text", func(t *testing.T) {
		p := mapPost(twitter.Tweet{IDStr: "1", Text: "short"})
		if p.Text != "short" {
			t.Fatalf("Text = %q, want %q", p.Text, "short")
		}
	})

	t.Run("retweet reference", func(t *testing.T) {
		p := mapPost(twitter.Tweet{
			IDStr: "12345",
			RetweetedStatus: &twitter.Tweet{
				IDStr: "23456",
				User:  &twitter.User{ScreenName: "orig"},
			},
		})
		if !p.IsRetweet() {
			t.Fatal("expected retweet")
		}
		if p.Retweet.ID != "23456" || p.Retweet.Handle != "orig" {
			t.Fatalf("Retweet = %+v", p.Retweet)
		}
	})

	t.Run("retweet with trimmed user", func(t *testing.T) {
		p := mapPost(twitter.Tweet{
			IDStr:           "12345",
			RetweetedStatus: &twitter.Tweet{IDStr: "23456"},
		})
		if p.Retweet == nil || p.Retweet.Handle != "" {
			t.Fatalf("Retweet = %+v, want empty handle", p.Retweet)
		}
	})
}
