package slack

import (
	"context"
	"log/slog"

	"github.com/m96-chan/mentio/internal/directory"
)

// Publisher receives fresh directory contents.
type Publisher interface {
	Publish(users, groups []directory.Entity) *directory.Directory
}

// Sync fetches the workspace directory into pub. When the client can watch,
// it then keeps pub current in the background until ctx is done, refetching
// after directory events. Events arriving during a refetch are coalesced.
func (c *Client) Sync(ctx context.Context, pub Publisher) error {
	if err := c.refresh(ctx, pub); err != nil {
		return err
	}
	if !c.CanWatch() {
		return nil
	}

	changed := make(chan struct{}, 1)
	handler := &EventHandler{
		OnDirectoryChanged: func(eventType string) {
			slog.Debug("directory event", "type", eventType)
			notify(changed)
		},
		// Events may have been missed while disconnected.
		OnConnected: func() { notify(changed) },
		OnError: func(err error) {
			slog.Warn("socket mode", "error", err)
		},
	}

	go c.refreshLoop(ctx, pub, changed)
	go func() {
		if err := c.RunSocketMode(ctx, handler); err != nil && ctx.Err() == nil {
			slog.Error("socket mode stopped", "error", err)
		}
	}()
	return nil
}

func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (c *Client) refreshLoop(ctx context.Context, pub Publisher, changed <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if err := c.refresh(ctx, pub); err != nil && ctx.Err() == nil {
				slog.Error("failed to refresh directory", "error", err)
			}
		}
	}
}

func (c *Client) refresh(ctx context.Context, pub Publisher) error {
	users, groups, err := c.FetchDirectory(ctx)
	if err != nil {
		return err
	}
	pub.Publish(users, groups)
	return nil
}
