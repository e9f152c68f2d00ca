package chat

import (
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/mention"
	"github.com/m96-chan/mentio/internal/ui/keys"
)

// inputMode tracks the current input state.
type inputMode int

const (
	inputModeNormal inputMode = iota
	inputModeEdit
)

// OnSendFunc is called when the user sends a message.
type OnSendFunc func(text string)

// OnEditFunc is called when the user submits an edited message.
type OnEditFunc func(id int, text string)

// MessageInput wraps tview.TextArea with mention autocompletion, slash
// command completion and an edit mode.
type MessageInput struct {
	*tview.TextArea
	cfg      *config.Config
	composer *mention.Composer
	dir      *directory.Directory
	scope    mention.Scope
	mode     inputMode
	editID   int // set in edit mode
	onSend   OnSendFunc
	onEdit   OnEditFunc
	onCancel func() // called when user cancels edit

	// queueUpdate runs fn once the text area reflects a replaced text. The
	// view wires it to a deferred QueueUpdateDraw.
	queueUpdate func(fn func())

	// Autocomplete state.
	mentionsList       *MentionsList
	commandActive      bool
	onShowAutocomplete func(count int)
	onHideAutocomplete func()
}

// NewMessageInput creates a new message input component.
func NewMessageInput(cfg *config.Config) *MessageInput {
	mode, err := mention.ParseMatchMode(cfg.Autocomplete.Match)
	if err != nil {
		mode = mention.MatchPrefix
	}

	mi := &MessageInput{
		TextArea: tview.NewTextArea(),
		cfg:      cfg,
		composer: mention.NewComposer(mode, cfg.AutocompleteLimit, cfg.SelfID),
		dir:      directory.New(nil, nil),
		mode:     inputModeNormal,
	}

	mi.SetBorder(true).SetTitle(" Input ")
	mi.SetPlaceholder("Type a message, @ for people, # for groups, / for commands")
	mi.SetTextStyle(cfg.Theme.MessageInput.Text.Style)
	mi.SetPlaceholderStyle(cfg.Theme.MessageInput.Placeholder.Style)

	mi.SetInputCapture(mi.handleInput)
	mi.SetChangedFunc(mi.refresh)
	mi.SetMovedFunc(mi.refresh)
	mi.SetBlurFunc(mi.dismissAutocomplete)

	return mi
}

// SetOnSend sets the callback for sending messages.
func (mi *MessageInput) SetOnSend(fn OnSendFunc) {
	mi.onSend = fn
}

// SetOnEdit sets the callback for editing messages.
func (mi *MessageInput) SetOnEdit(fn OnEditFunc) {
	mi.onEdit = fn
}

// SetOnCancel sets the callback for cancelling edit mode.
func (mi *MessageInput) SetOnCancel(fn func()) {
	mi.onCancel = fn
}

// SetMentionsList sets the autocomplete dropdown reference.
func (mi *MessageInput) SetMentionsList(ml *MentionsList) {
	mi.mentionsList = ml
}

// SetOnShowAutocomplete sets the callback for showing the autocomplete dropdown.
func (mi *MessageInput) SetOnShowAutocomplete(fn func(count int)) {
	mi.onShowAutocomplete = fn
}

// SetOnHideAutocomplete sets the callback for hiding the autocomplete dropdown.
func (mi *MessageInput) SetOnHideAutocomplete(fn func()) {
	mi.onHideAutocomplete = fn
}

// SetQueueUpdate sets how cursor placement after an insertion is scheduled.
func (mi *MessageInput) SetQueueUpdate(fn func(fn func())) {
	mi.queueUpdate = fn
}

// SetDirectory replaces the directory snapshot used for suggestions.
func (mi *MessageInput) SetDirectory(dir *directory.Directory) {
	mi.dir = dir
	if mi.composer.IsOpen() {
		mi.refresh()
	}
}

// SetScope sets the draft scope used for suggestions.
func (mi *MessageInput) SetScope(scope mention.Scope) {
	mi.scope = scope
	if mi.composer.IsOpen() {
		mi.refresh()
	}
}

// SetSelf sets the local user, who is never suggested.
func (mi *MessageInput) SetSelf(id string) {
	mi.composer.SetSelf(id)
}

// SetEditMode enters edit mode, populating the input with existing text.
func (mi *MessageInput) SetEditMode(id int, text string) {
	mi.mode = inputModeEdit
	mi.editID = id
	mi.SetTitle(" Editing ")
	mi.SetText(text, true)
}

// Mode returns the current input mode.
func (mi *MessageInput) Mode() inputMode {
	return mi.mode
}

// buffer reads the text and cursor from the text area.
func (mi *MessageInput) buffer() mention.Buffer {
	_, _, end := mi.GetSelection()
	return mention.Buffer{Text: mi.GetText(), Cursor: end}
}

// handleInput processes keybindings for the input area.
func (mi *MessageInput) handleInput(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())

	if mi.commandActive && mi.handleCommandKey(keys.MentionKey(event, mi.cfg.Keybinds.MessageInput)) {
		return nil
	}
	if mi.composer.IsOpen() && mi.handleMentionKey(keys.MentionKey(event, mi.cfg.Keybinds.MessageInput), mi.buffer()) {
		return nil
	}

	switch name {
	case mi.cfg.Keybinds.MessageInput.Send:
		mi.dismissAutocomplete()
		mi.send()
		return nil

	case mi.cfg.Keybinds.MessageInput.Newline:
		// Transform Shift+Enter into plain Enter so TextArea adds a newline.
		return tcell.NewEventKey(tcell.KeyEnter, '\n', tcell.ModNone)

	case mi.cfg.Keybinds.MessageInput.Cancel:
		if mi.mode != inputModeNormal {
			mi.cancelMode()
			return nil
		}
		// In normal mode, let Escape propagate (focus change etc).
		return event
	}

	return event
}

// handleMentionKey hands k to the composer. It reports whether the key was
// consumed by the suggestion list.
func (mi *MessageInput) handleMentionKey(k mention.Key, buf mention.Buffer) bool {
	if k == mention.KeyNone {
		return false
	}

	res, err := mi.composer.HandleKey(k, buf)
	if err != nil {
		slog.Error("mention insert failed", "error", err)
	}
	if !res.Handled {
		return false
	}

	if res.Inserted {
		mi.hideAutocomplete()
		mi.SetText(res.Insertion.Text, false)
		mi.placeCursor(res.Insertion.Cursor)
		slog.Debug("mention inserted", "id", res.Entity.ID, "kind", res.Entity.Kind)
		return true
	}

	mi.showComposer()
	return true
}

// handleCommandKey navigates or completes the slash command list.
func (mi *MessageInput) handleCommandKey(k mention.Key) bool {
	switch k {
	case mention.KeyUp:
		mi.mentionsList.SelectPrev()
	case mention.KeyDown:
		mi.mentionsList.SelectNext()
	case mention.KeyConfirm:
		cmd, ok := mi.mentionsList.SelectedCommand()
		mi.dismissAutocomplete()
		if ok {
			mi.SetText(cmd.insertText, true)
		}
	case mention.KeyCancel:
		mi.dismissAutocomplete()
	default:
		return false
	}
	return true
}

// placeCursor moves the cursor once the text area shows the new text.
func (mi *MessageInput) placeCursor(pos int) {
	if mi.queueUpdate == nil {
		mi.Select(pos, pos)
		return
	}
	mi.queueUpdate(func() { mi.Select(pos, pos) })
}

// send dispatches the current input text.
func (mi *MessageInput) send() {
	text := strings.TrimSpace(mi.GetText())
	if text == "" {
		return
	}

	switch mi.mode {
	case inputModeEdit:
		if mi.onEdit != nil {
			mi.onEdit(mi.editID, text)
		}
	default:
		if mi.onSend != nil {
			mi.onSend(text)
		}
	}

	mi.SetText("", false)
	if mi.mode != inputModeNormal {
		mi.cancelMode()
	}
}

// refresh re-runs trigger detection after a text or cursor change.
func (mi *MessageInput) refresh() {
	if mi.mentionsList == nil {
		return
	}
	mi.update(mi.buffer())
}

// update detects a slash command or mention trigger in buf and shows the
// matching suggestions.
func (mi *MessageInput) update(buf mention.Buffer) {
	if mi.mentionsList == nil {
		return
	}

	if prefix, ok := commandPrefix(buf.Text); ok && mi.mode == inputModeNormal {
		mi.composer.Close()
		count := mi.mentionsList.FilterCommands(prefix, mi.limit())
		if count == 0 {
			mi.dismissAutocomplete()
			return
		}
		mi.commandActive = true
		if mi.onShowAutocomplete != nil {
			mi.onShowAutocomplete(count)
		}
		return
	}
	mi.commandActive = false

	if mi.composer.Update(mi.dir, buf, mi.scope) == 0 {
		mi.hideAutocomplete()
		return
	}
	mi.showComposer()
}

// showComposer renders the composer's open list, or hides the dropdown
// when it has closed.
func (mi *MessageInput) showComposer() {
	if !mi.composer.IsOpen() {
		mi.hideAutocomplete()
		return
	}
	candidates := mi.composer.Candidates()
	mi.mentionsList.ShowCandidates(candidates, mi.composer.ActiveIndex())
	if mi.onShowAutocomplete != nil {
		mi.onShowAutocomplete(len(candidates))
	}
}

func (mi *MessageInput) limit() int {
	if mi.cfg.AutocompleteLimit > 0 {
		return mi.cfg.AutocompleteLimit
	}
	return mention.PageSize
}

// dismissAutocomplete closes any open list without completing.
func (mi *MessageInput) dismissAutocomplete() {
	mi.composer.Close()
	mi.commandActive = false
	mi.hideAutocomplete()
}

func (mi *MessageInput) hideAutocomplete() {
	if mi.onHideAutocomplete != nil {
		mi.onHideAutocomplete()
	}
}

// cancelMode resets the input to normal mode.
func (mi *MessageInput) cancelMode() {
	prevMode := mi.mode
	mi.mode = inputModeNormal
	mi.editID = 0
	mi.SetTitle(" Input ")

	// Clear text when cancelling edit mode.
	if prevMode == inputModeEdit {
		mi.SetText("", false)
	}

	if mi.onCancel != nil {
		mi.onCancel()
	}
}
