package slack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/m96-chan/mentio/internal/directory"
)

// pageSize is the page limit used for conversations.list and
// conversations.members.
const pageSize = 200

// conversationTypes are the conversations that become mentionable groups.
var conversationTypes = []string{"public_channel", "private_channel", "mpim"}

// workspaceAPI is the part of slack.Client used to build the directory.
type workspaceAPI interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error)
}

// Client reads the mentionable users and conversations of a live workspace.
type Client struct {
	api      workspaceAPI
	raw      *slack.Client // nil in tests; needed for socket mode
	UserID   string
	TeamID   string
	TeamName string
}

// New creates a Client and validates the user token via auth.test. The app
// token is optional and only needed to follow directory changes in socket
// mode.
func New(ctx context.Context, userToken, appToken string) (*Client, error) {
	var opts []slack.Option
	if appToken != "" {
		if !strings.HasPrefix(appToken, "xapp-") {
			return nil, fmt.Errorf("app token must start with xapp- (got %s...)", safePrefix(appToken))
		}
		opts = append(opts, slack.OptionAppLevelToken(appToken))
	}

	raw := slack.New(userToken, opts...)
	c, err := newClient(ctx, raw)
	if err != nil {
		return nil, err
	}
	if appToken != "" {
		c.raw = raw
	}
	return c, nil
}

func newClient(ctx context.Context, api workspaceAPI) (*Client, error) {
	var resp *slack.AuthTestResponse
	err := retryOnRateLimit(ctx, func() error {
		var e error
		resp, e = api.AuthTestContext(ctx)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("auth test: %w", err)
	}

	return &Client{
		api:      api,
		UserID:   resp.UserID,
		TeamID:   resp.TeamID,
		TeamName: resp.Team,
	}, nil
}

// CanWatch reports whether the client has an app token for socket mode.
func (c *Client) CanWatch() bool { return c.raw != nil }

// retryOnRateLimit executes fn and, if a RateLimitedError is returned,
// waits for the requested duration and retries once.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	var rle *slack.RateLimitedError
	if !errors.As(err, &rle) {
		return err
	}

	slog.Warn("rate limited", "retry_after", rle.RetryAfter)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rle.RetryAfter):
	}
	return fn()
}

// GetUsers returns all users in the workspace.
func (c *Client) GetUsers(ctx context.Context) ([]slack.User, error) {
	var users []slack.User
	err := retryOnRateLimit(ctx, func() error {
		var e error
		users, e = c.api.GetUsersContext(ctx)
		return e
	})
	return users, err
}

// GetConversations returns every non-archived channel, private channel and
// group DM the user can see, following pagination.
func (c *Client) GetConversations(ctx context.Context) ([]slack.Channel, error) {
	var (
		all    []slack.Channel
		cursor string
	)
	for {
		var page []slack.Channel
		err := retryOnRateLimit(ctx, func() error {
			var e error
			page, cursor, e = c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
				Cursor:          cursor,
				ExcludeArchived: true,
				Limit:           pageSize,
				Types:           conversationTypes,
			})
			return e
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if cursor == "" {
			return all, nil
		}
	}
}

// GetUsersInConversation returns the member IDs of a conversation,
// following pagination.
func (c *Client) GetUsersInConversation(ctx context.Context, channelID string) ([]string, error) {
	var (
		all    []string
		cursor string
	)
	for {
		var page []string
		err := retryOnRateLimit(ctx, func() error {
			var e error
			page, cursor, e = c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
				ChannelID: channelID,
				Cursor:    cursor,
				Limit:     pageSize,
			})
			return e
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if cursor == "" {
			return all, nil
		}
	}
}

// FetchDirectory reads users and conversations with their members and
// converts them to directory entities.
func (c *Client) FetchDirectory(ctx context.Context) (users, groups []directory.Entity, err error) {
	su, err := c.GetUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing users: %w", err)
	}

	channels, err := c.GetConversations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing conversations: %w", err)
	}

	for i := range channels {
		members, err := c.GetUsersInConversation(ctx, channels[i].ID)
		if err != nil {
			return nil, nil, fmt.Errorf("listing members of %s: %w", channels[i].ID, err)
		}
		channels[i].Members = members
	}

	users, groups = Convert(su, channels)
	slog.Info("fetched slack directory", "team", c.TeamName, "users", len(users), "groups", len(groups))
	return users, groups, nil
}

// safePrefix returns the first 10 characters of a token for error messages.
func safePrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10]
}
