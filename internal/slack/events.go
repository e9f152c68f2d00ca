package slack

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// EventHandler receives workspace changes that affect the directory.
// Nil callbacks are silently skipped.
type EventHandler struct {
	// OnDirectoryChanged is called with the event type whenever users or
	// conversations were added, renamed, archived or changed membership.
	OnDirectoryChanged func(eventType string)
	OnConnected        func()
	OnDisconnected     func()
	OnError            func(error)
}

// directoryEvents are the Events API types that invalidate the directory.
var directoryEvents = []slackevents.EventsAPIType{
	slackevents.TeamJoin,
	slackevents.ChannelCreated,
	slackevents.ChannelRename,
	slackevents.ChannelArchive,
	slackevents.ChannelUnarchive,
	slackevents.MemberJoinedChannel,
	slackevents.MemberLeftChannel,
}

// RunSocketMode follows directory changes until ctx is cancelled or a fatal
// error occurs. The client must have been created with an app token.
func (c *Client) RunSocketMode(ctx context.Context, handler *EventHandler) error {
	if c.raw == nil {
		return fmt.Errorf("socket mode requires an app token")
	}

	smClient := socketmode.New(c.raw)
	smHandler := socketmode.NewSocketmodeHandler(smClient)

	for _, eventType := range directoryEvents {
		registerEventHandler(smHandler, eventType, handler)
	}
	registerLifecycleHandlers(smHandler, handler)

	return smHandler.RunEventLoopContext(ctx)
}

func registerEventHandler(smHandler *socketmode.SocketmodeHandler, eventType slackevents.EventsAPIType, handler *EventHandler) {
	smHandler.HandleEvents(eventType, func(evt *socketmode.Event, client *socketmode.Client) {
		client.Ack(*evt.Request)
		dispatchEvent(handler, evt)
	})
}

// dispatchEvent forwards an Events API envelope to OnDirectoryChanged.
func dispatchEvent(handler *EventHandler, evt *socketmode.Event) {
	apiEvt, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		slog.Warn("unexpected socket mode payload", "data_type", fmt.Sprintf("%T", evt.Data))
		return
	}
	if handler.OnDirectoryChanged != nil {
		handler.OnDirectoryChanged(apiEvt.InnerEvent.Type)
	}
}

// registerLifecycleHandlers wires socketmode-level connection events to the
// appropriate EventHandler callbacks.
func registerLifecycleHandlers(smHandler *socketmode.SocketmodeHandler, handler *EventHandler) {
	for _, t := range []socketmode.EventType{
		socketmode.EventTypeConnected,
		socketmode.EventTypeDisconnect,
		socketmode.EventTypeIncomingError,
		socketmode.EventTypeConnectionError,
		socketmode.EventTypeInvalidAuth,
	} {
		smHandler.Handle(t, func(evt *socketmode.Event, _ *socketmode.Client) {
			dispatchLifecycle(handler, evt)
		})
	}
}

func dispatchLifecycle(handler *EventHandler, evt *socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		slog.Info("socket mode connected")
		if handler.OnConnected != nil {
			handler.OnConnected()
		}
	case socketmode.EventTypeDisconnect:
		slog.Warn("socket mode disconnected")
		if handler.OnDisconnected != nil {
			handler.OnDisconnected()
		}
	case socketmode.EventTypeInvalidAuth:
		slog.Error("socket mode invalid auth")
		if handler.OnError != nil {
			handler.OnError(fmt.Errorf("socket mode: invalid auth"))
		}
	case socketmode.EventTypeIncomingError, socketmode.EventTypeConnectionError:
		slog.Warn("socket mode error", "type", evt.Type, "data", evt.Data)
		if handler.OnError == nil {
			return
		}
		if err, ok := evt.Data.(error); ok {
			handler.OnError(err)
		} else {
			handler.OnError(fmt.Errorf("socket mode %s: %v", evt.Type, evt.Data))
		}
	}
}
