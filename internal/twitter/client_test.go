package twitter

import (
	"context"
	"net/http"
	"testing"

	"github.com/dghubble/go-twitter/twitter"

	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

type fakeTimelines struct {
	gotParams *twitter.UserTimelineParams
	tweets    []twitter.Tweet
	err       error
}

func (f *fakeTimelines) UserTimeline(params *twitter.UserTimelineParams) ([]twitter.Tweet, *http.Response, error) {
	f.gotParams = params
	return f.tweets, nil, f.err
}

type fakeUsers struct {
	user *twitter.User
	err  error
}

func (f *fakeUsers) Show(params *twitter.UserShowParams) (*twitter.User, *http.Response, error) {
	return f.user, nil, f.err
}

func newTestClient(tl *fakeTimelines, us *fakeUsers) *Client {
	return &Client{timelines: tl, users: us, pageSize: defaultPageSize, log: logx.Nop()}
}

func TestUserTimelineFirstFetchUsesPage(t *testing.T) {
	t.Parallel()
	tl := &fakeTimelines{}
	c := newTestClient(tl, &fakeUsers{})

	if _, err := c.UserTimeline(context.Background(), "someuser", ""); err != nil {
		t.Fatal(err)
	}

	p := tl.gotParams
	if p.Count != defaultPageSize {
		t.Fatalf("Count = %d, want %d", p.Count, defaultPageSize)
	}
	if p.SinceID != 0 {
		t.Fatalf("SinceID = %d, want 0", p.SinceID)
	}
	if p.TweetMode != "extended" {
		t.Fatalf("TweetMode = %q, want extended", p.TweetMode)
	}
	if p.ExcludeReplies == nil || !*p.ExcludeReplies {
		t.Fatal("expected ExcludeReplies")
	}
	if p.TrimUser == nil || !*p.TrimUser {
		t.Fatal("expected TrimUser")
	}
}

func TestUserTimelineSinceID(t *testing.T) {
	t.Parallel()
	tl := &fakeTimelines{tweets: []twitter.Tweet{
		{IDStr: "30", FullText: "newest"},
		{IDStr: "20", FullText: "older"},
	}}
	c := newTestClient(tl, &fakeUsers{})

	posts, err := c.UserTimeline(context.Background(), "someuser", "10")
	if err != nil {
		t.Fatal(err)
	}
	if tl.gotParams.SinceID != 10 {
		t.Fatalf("SinceID = %d, want 10", tl.gotParams.SinceID)
	}
	if tl.gotParams.Count != 0 {
		t.Fatalf("Count = %d, want 0 (no page bound after first fetch)", tl.gotParams.Count)
	}
	if len(posts) != 2 || posts[0].ID != "30" || posts[1].ID != "20" {
		t.Fatalf("posts = %+v", posts)
	}
}

func TestUserTimelineRejectsNonNumericCursor(t *testing.T) {
	t.Parallel()
	c := newTestClient(&fakeTimelines{}, &fakeUsers{})
	if _, err := c.UserTimeline(context.Background(), "someuser", "not-an-id"); err == nil {
		t.Fatal("expected error for non-numeric cursor")
	}
}

func TestLookupNormalizesAvatar(t *testing.T) {
	t.Parallel()
	us := &fakeUsers{user: &twitter.User{
		Name:                 "Some User",
		ScreenName:           "someuser",
		ProfileImageURLHttps: "https://pbs.twimg.com/profile_images/1/a_normal.png",
	}}
	c := newTestClient(&fakeTimelines{}, us)

	a, err := c.Lookup(context.Background(), "someuser")
	if err != nil {
		t.Fatal(err)
	}
	want := Author{
		Name:      "Some User",
		Handle:    "someuser",
		AvatarURL: "https://pbs.twimg.com/profile_images/1/a.png",
	}
	if a != want {
		t.Fatalf("Lookup = %+v, want %+v", a, want)
	}
}

func TestClientHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	c := newTestClient(&fakeTimelines{}, &fakeUsers{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.UserTimeline(ctx, "someuser", ""); err == nil {
		t.Fatal("expected context error")
	}
	if _, err := c.Lookup(ctx, "someuser"); err == nil {
		t.Fatal("expected context error")
	}
}
