package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/keyring"
	"github.com/m96-chan/mentio/internal/mention"
	slackclient "github.com/m96-chan/mentio/internal/slack"
	"github.com/m96-chan/mentio/internal/ui/chat"
	"github.com/m96-chan/mentio/internal/ui/keys"
)

// App is the top-level application struct.
type App struct {
	Config *config.Config
	tview  *tview.Application
	view   *chat.View
	live   *directory.Live
	cancel context.CancelFunc

	// Owned by the tview event loop.
	dir        *directory.Directory
	self       string
	scope      mention.Scope
	scopeLabel string
	nextID     int
}

// New creates a new App with the given config.
func New(cfg *config.Config) *App {
	a := &App{
		Config: cfg,
		tview:  tview.NewApplication(),
		live:   directory.NewLive(),
		dir:    directory.New(nil, nil),
		self:   cfg.SelfID,
	}
	a.view = chat.New(a.tview, cfg)
	a.wireView()
	return a
}

// Run loads the directory, starts the TUI event loop and blocks until it
// stops.
func (a *App) Run() error {
	a.tview.EnableMouse(a.Config.Mouse)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	defer cancel()

	// Set up OS signal handling for graceful shutdown.
	sigCtx, sigStop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCtx.Done()
		sigStop()
		a.shutdown()
	}()

	// Register global keybindings.
	a.tview.SetInputCapture(a.handleGlobalKey)

	// Snapshots are applied on the event loop; the queue is buffered so
	// this also works before Run.
	unsubscribe := a.live.Subscribe(func(d *directory.Directory) {
		a.tview.QueueUpdateDraw(func() { a.applyDirectory(d) })
	})
	defer unsubscribe()

	if err := a.loadDirectory(ctx); err != nil {
		return err
	}

	a.tview.SetRoot(a.view, true).SetFocus(a.view.Input)
	return a.tview.Run()
}

// shutdown stops background syncing and the TUI.
func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	a.tview.Stop()
}

// loadDirectory publishes the configured directory source. Without one it
// falls back to a Slack workspace when tokens are stored.
func (a *App) loadDirectory(ctx context.Context) error {
	path := a.Config.Directory
	if path == "" {
		user, app, err := keyring.Tokens()
		if err != nil {
			slog.Warn("error reading stored tokens", "error", err)
		}
		if user == "" {
			a.view.StatusBar.SetConnectionStatus("No directory")
			return nil
		}
		a.view.StatusBar.SetConnectionStatus("Connecting to Slack...")
		go a.connectSlack(ctx, user, app)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory source: %w", err)
	}

	var users, groups []directory.Entity
	source := "seed"
	if info.IsDir() {
		source = "export"
		users, groups, err = slackclient.LoadExport(path)
		if err != nil {
			return err
		}
	} else {
		seed, err := directory.LoadFile(path)
		if err != nil {
			return err
		}
		if a.self == "" {
			a.self = seed.Self
		}
		users, groups = seed.Entities()
	}

	a.live.Publish(users, groups)
	slog.Info("directory loaded", "source", source, "path", path, "users", len(users), "groups", len(groups))
	a.view.StatusBar.SetConnectionStatus(fmt.Sprintf("%s %s", source, path))
	return nil
}

// connectSlack authenticates with the stored tokens and keeps the directory
// in sync with the workspace. Runs in its own goroutine.
func (a *App) connectSlack(ctx context.Context, userToken, appToken string) {
	client, err := slackclient.New(ctx, userToken, appToken)
	if err != nil {
		slog.Error("slack connect failed", "error", err)
		a.tview.QueueUpdateDraw(func() {
			a.view.StatusBar.SetConnectionStatus("Slack unavailable")
			a.notice("Could not connect to Slack: " + err.Error())
		})
		return
	}

	a.tview.QueueUpdateDraw(func() {
		if a.self == "" {
			a.self = client.UserID
			a.view.SetDirectory(a.dir, a.self)
		}
		status := "Slack " + client.TeamName
		if !client.CanWatch() {
			status += " (no live updates)"
		}
		a.view.StatusBar.SetConnectionStatus(status)
	})

	if err := client.Sync(ctx, a.live); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("slack directory sync failed", "error", err)
		a.tview.QueueUpdateDraw(func() {
			a.notice("Could not load the Slack directory: " + err.Error())
		})
	}
}

// wireView connects view callbacks to app actions.
func (a *App) wireView() {
	a.view.Input.SetOnSend(a.onMessageSend)
	a.view.Input.SetOnEdit(a.onMessageEdit)
	a.view.RecipientPicker.SetOnConfirm(func(userIDs []string) {
		a.view.HideRecipientPicker()
		a.startDraft(userIDs)
	})
	a.view.RecipientPicker.SetOnClose(a.view.HideRecipientPicker)
}

// applyDirectory switches every panel to a new snapshot. Must run on the
// event loop.
func (a *App) applyDirectory(d *directory.Directory) {
	a.dir = d
	a.view.SetDirectory(d, a.self)
	if a.scope.Mode != mention.ScopeNone {
		a.setScope(a.scope)
	}
}

// handleGlobalKey processes global keybindings. It returns nil to consume the
// event or the original event to let it propagate.
func (a *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())

	if name == a.Config.Keybinds.Quit {
		a.shutdown()
		return nil
	}

	if name == a.Config.Keybinds.ClearScope && !a.view.PickerOpen() {
		a.setScope(mention.Scope{})
		return nil
	}

	return a.view.HandleKey(event)
}

// onMessageSend runs slash commands or records a sent message with its
// mentions.
func (a *App) onMessageSend(text string) {
	if command, args := chat.ParseSlashCommand(text); command != "" {
		a.executeSlashCommand(command, args)
		return
	}

	msg := mention.Send(text, a.dir)
	a.nextID++
	a.view.Messages.AppendEntry(chat.Entry{
		ID:      a.nextID,
		Author:  a.self,
		Scope:   a.scopeLabel,
		Time:    time.Now(),
		Message: msg,
	})
	slog.Info("message sent", "id", a.nextID, "mentions", len(msg.Mentions))
}

// onMessageEdit replaces the text of an entry, keeping its mentions.
func (a *App) onMessageEdit(id int, text string) {
	for _, e := range a.view.Messages.Entries() {
		if e.ID != id {
			continue
		}
		a.view.Messages.UpdateEntry(id, mention.Edit(e.Message, text))
		slog.Info("message edited", "id", id)
		return
	}
	slog.Warn("edit of unknown message", "id", id)
}

// notice shows a local line in the messages list.
func (a *App) notice(text string) {
	a.nextID++
	a.view.Messages.AppendEntry(chat.Entry{
		ID:      a.nextID,
		Time:    time.Now(),
		Message: mention.Message{Text: text},
		System:  true,
	})
}

// setScope changes the conversation suggestions are scoped to.
func (a *App) setScope(scope mention.Scope) {
	a.scope = scope
	a.scopeLabel = scopeLabel(a.dir, scope)
	a.view.SetScope(scope, a.scopeLabel)
}

// scopeLabel describes scope for the status bar and message headers.
func scopeLabel(dir *directory.Directory, scope mention.Scope) string {
	switch scope.Mode {
	case mention.ScopePrivateDraft:
		if u, ok := dir.User(scope.PartnerID); ok {
			return "to " + u.Token()
		}
		return "to " + scope.PartnerID
	case mention.ScopeGroup:
		if g, ok := dir.Group(scope.GroupID); ok {
			return "in " + g.Token()
		}
		return "in " + scope.GroupID
	}
	return ""
}

// startDraft scopes the input to the people chosen in the recipient picker.
func (a *App) startDraft(userIDs []string) {
	scope, err := draftScope(a.dir, a.self, userIDs)
	if err != nil {
		a.notice(err.Error())
		return
	}
	a.setScope(scope)
}

// draftScope picks the scope for a draft to userIDs: a private draft for one
// person, otherwise the first group containing all of them and self.
func draftScope(dir *directory.Directory, self string, userIDs []string) (mention.Scope, error) {
	switch len(userIDs) {
	case 0:
		return mention.Scope{}, errors.New("no recipients chosen")
	case 1:
		return mention.PrivateDraft(userIDs[0]), nil
	}

	members := userIDs
	if self != "" {
		members = append([]string{self}, userIDs...)
	}
	for _, g := range dir.Groups() {
		if hasAll(g, members) {
			return mention.InGroup(g.ID), nil
		}
	}
	return mention.Scope{}, fmt.Errorf("no group contains all %d recipients", len(userIDs))
}

func hasAll(g directory.Entity, userIDs []string) bool {
	for _, id := range userIDs {
		if !g.HasParticipant(id) {
			return false
		}
	}
	return true
}

// executeSlashCommand runs a command typed into the input.
func (a *App) executeSlashCommand(command, args string) {
	switch command {
	case "help":
		a.notice(chat.HelpText())
	case "dm":
		if args == "" {
			a.view.ShowRecipientPicker()
			return
		}
		u, ok := a.dir.FindByName(directory.KindUser, args)
		if !ok {
			a.notice("No person named " + args)
			return
		}
		a.setScope(mention.PrivateDraft(u.ID))
	case "group":
		g, ok := a.dir.FindByName(directory.KindGroup, args)
		if !ok {
			a.notice("No group named " + args)
			return
		}
		a.setScope(mention.InGroup(g.ID))
	case "scope":
		a.setScope(mention.Scope{})
	case "edit":
		a.cmdEdit(args)
	case "who":
		a.notice(formatSearch(directory.KindUser, args, mention.Search(directory.KindUser, args, a.dir, mention.Options{Scope: a.scope})))
	case "groups":
		a.notice(formatSearch(directory.KindGroup, args, mention.Search(directory.KindGroup, args, a.dir, mention.Options{Scope: a.scope, Self: a.self})))
	case "set":
		a.cmdSet(args)
	case "logout":
		if err := keyring.DeleteTokens(); err != nil {
			slog.Error("failed to delete tokens", "error", err)
			a.notice("Could not delete stored tokens: " + err.Error())
			return
		}
		a.notice("Stored Slack tokens removed")
	default:
		a.notice("Unknown command: /" + command)
	}
}

// cmdEdit replaces the text of the user's last message.
func (a *App) cmdEdit(text string) {
	if text == "" {
		a.notice("Usage: /edit <text>")
		return
	}
	e, ok := lastOwnEntry(a.view.Messages.Entries(), a.self)
	if !ok {
		a.notice("Nothing to edit")
		return
	}
	a.onMessageEdit(e.ID, text)
}

// cmdSet applies /set and keeps the widgets in line with the new config.
func (a *App) cmdSet(args string) {
	feedback, err := RunSetCommand(a.Config, args)
	if err != nil {
		a.notice(err.Error())
		return
	}
	if a.tview != nil {
		a.tview.EnableMouse(a.Config.Mouse)
	}
	a.view.Messages.SetDirectory(a.dir)
	a.notice(feedback)
}

// lastOwnEntry returns the most recent non-system entry written by self.
func lastOwnEntry(entries []chat.Entry, self string) (chat.Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].System && entries[i].Author == self {
			return entries[i], true
		}
	}
	return chat.Entry{}, false
}

// formatSearch lists search results, one name per line.
func formatSearch(kind directory.Kind, query string, found []directory.Entity) string {
	if len(found) == 0 {
		if query == "" {
			return fmt.Sprintf("No %ss", kind)
		}
		return fmt.Sprintf("No %s matches %q", kind, query)
	}
	lines := make([]string, len(found))
	for i, e := range found {
		lines[i] = e.Token()
		if kind == directory.KindGroup {
			lines[i] += fmt.Sprintf(" (%d members)", len(e.Participants))
		}
	}
	return strings.Join(lines, "\n")
}
