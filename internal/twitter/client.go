package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

const defaultPageSize = 10

// Config carries the OAuth1 credentials and fetch knobs.
type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	// PageSize bounds the first fetch of an account with no cursor yet.
	PageSize int
}

// The two go-twitter service calls the client uses, kept as interfaces so
// tests can stub the API without network access.
type timelineService interface {
	UserTimeline(params *twitter.UserTimelineParams) ([]twitter.Tweet, *http.Response, error)
}

type userService interface {
	Show(params *twitter.UserShowParams) (*twitter.User, *http.Response, error)
}

// Client fetches timelines and author profiles.
type Client struct {
	timelines timelineService
	users     userService
	pageSize  int
	log       logx.Logger
}

// New builds an OAuth1-authenticated client.
func New(cfg Config, log logx.Logger) *Client {
	oc := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
	httpClient := oc.Client(oauth1.NoContext, token)
	api := twitter.NewClient(httpClient)

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		timelines: api.Timelines,
		users:     api.Users,
		pageSize:  pageSize,
		log:       log,
	}
}

// Lookup fetches an author's profile.
func (c *Client) Lookup(ctx context.Context, screenName string) (Author, error) {
	if err := ctx.Err(); err != nil {
		return Author{}, err
	}
	c.log.Debug("fetching user info", logx.String("account", screenName))

	user, _, err := c.users.Show(&twitter.UserShowParams{ScreenName: screenName})
	if err != nil {
		return Author{}, fmt.Errorf("show user %s: %w", screenName, err)
	}
	return mapAuthor(user), nil
}

// UserTimeline fetches the account's tweets newer than sinceID,
// newest first. An empty sinceID means "never fetched": only the most recent
// page is returned, no history backfill.
func (c *Client) UserTimeline(ctx context.Context, screenName, sinceID string) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twitter.UserTimelineParams{
		ScreenName:     screenName,
		TrimUser:       twitter.Bool(true),
		ExcludeReplies: twitter.Bool(true),
		TweetMode:      "extended",
	}
	if strings.TrimSpace(sinceID) == "" {
		c.log.Info("no cursor for account, fetching latest page",
			logx.String("account", screenName), logx.Int("count", c.pageSize))
		params.Count = c.pageSize
	} else {
		// The v1.1 API wants since_id numeric; everywhere else the id stays
		// an opaque string.
		id, err := strconv.ParseInt(sinceID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cursor for %s is not a tweet id: %w", screenName, err)
		}
		c.log.Debug("fetching tweets since id",
			logx.String("account", screenName), logx.String("since_id", sinceID))
		params.SinceID = id
	}

	tweets, _, err := c.timelines.UserTimeline(params)
	if err != nil {
		return nil, fmt.Errorf("user timeline %s: %w", screenName, err)
	}

	posts := make([]Post, 0, len(tweets))
	for _, t := range tweets {
		posts = append(posts, mapPost(t))
	}
	return posts, nil
}
