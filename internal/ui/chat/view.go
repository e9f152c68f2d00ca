package chat

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/mention"
	"github.com/m96-chan/mentio/internal/ui/keys"
)

// Panel identifies which panel is focused.
type Panel int

const (
	PanelMessages Panel = iota
	PanelInput
)

const (
	pageMain       = "main"
	pageRecipients = "recipients"
)

// View is the main chat layout containing all panels.
type View struct {
	*tview.Pages
	app       *tview.Application
	cfg       *config.Config
	StatusBar *StatusBar

	Messages        *MessagesList
	MentionsList    *MentionsList
	Input           *MessageInput
	RecipientPicker *RecipientPicker

	contentFlex *tview.Flex
	activePanel Panel
	pickerOpen  bool
}

// New creates the main chat view with the full flex layout.
//
// Layout:
//
//	Pages
//	├── main: Outer Flex (FlexRow)
//	│   ├── contentFlex (FlexRow)
//	│   │   ├── Messages (proportional)
//	│   │   ├── MentionsList (hidden until suggestions open)
//	│   │   └── Input (fixed 3 rows)
//	│   └── StatusBar (fixed 1 row)
//	└── recipients: RecipientPicker (centered modal)
func New(app *tview.Application, cfg *config.Config) *View {
	v := &View{
		app: app,
		cfg: cfg,
	}

	v.Messages = NewMessagesList(cfg)
	v.MentionsList = NewMentionsList(cfg)
	v.MentionsList.SetCommands(BuiltinCommandEntries())
	v.Input = NewMessageInput(cfg)
	v.StatusBar = NewStatusBar(cfg)
	v.RecipientPicker = NewRecipientPicker(cfg)

	v.Input.SetMentionsList(v.MentionsList)
	v.Input.SetOnShowAutocomplete(v.showAutocomplete)
	v.Input.SetOnHideAutocomplete(v.hideAutocomplete)
	if app != nil {
		// The cursor can only be placed after the text area has taken the
		// new text, so placement runs on a later UI update.
		v.Input.SetQueueUpdate(func(fn func()) {
			go app.QueueUpdateDraw(fn)
		})
	}

	v.Messages.SetOnEditRequest(func(id int, text string) {
		v.Input.SetEditMode(id, text)
		v.FocusPanel(PanelInput)
	})

	// Content flex: messages, suggestions and input stacked vertically.
	v.contentFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.Messages, 0, 1, false).
		AddItem(v.MentionsList, 0, 0, false).
		AddItem(v.Input, 3, 0, true)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.contentFlex, 0, 1, true).
		AddItem(v.StatusBar, 1, 0, false)

	v.Pages = tview.NewPages().
		AddPage(pageMain, root, true, true).
		AddPage(pageRecipients, centered(v.RecipientPicker, 60, 20), true, false)

	v.activePanel = PanelInput
	v.applyBorderStyles()

	return v
}

// centered wraps p in flexes that center it at the given size.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// SetDirectory hands a new directory snapshot to every panel.
func (v *View) SetDirectory(dir *directory.Directory, self string) {
	v.Input.SetSelf(self)
	v.Input.SetDirectory(dir)
	v.Messages.SetSelfUserID(self)
	v.Messages.SetDirectory(dir)
	v.RecipientPicker.SetDirectory(dir, self)
	v.StatusBar.SetDirectoryInfo(len(dir.Users()), len(dir.Groups()))
}

// SetScope changes the draft scope used for suggestions and shows label.
func (v *View) SetScope(scope mention.Scope, label string) {
	v.Input.SetScope(scope)
	v.StatusBar.SetScope(label)
}

// ShowRecipientPicker opens the new draft picker.
func (v *View) ShowRecipientPicker() {
	v.RecipientPicker.Reset()
	v.pickerOpen = true
	v.ShowPage(pageRecipients)
	if v.app != nil {
		v.app.SetFocus(v.RecipientPicker)
	}
}

// HideRecipientPicker closes the new draft picker and returns to the input.
func (v *View) HideRecipientPicker() {
	v.pickerOpen = false
	v.HidePage(pageRecipients)
	v.FocusPanel(PanelInput)
}

// PickerOpen reports whether the recipient picker is shown.
func (v *View) PickerOpen() bool {
	return v.pickerOpen
}

func (v *View) showAutocomplete(count int) {
	v.contentFlex.ResizeItem(v.MentionsList, count+2, 0)
	v.StatusBar.SetSuggestions(count)
}

func (v *View) hideAutocomplete() {
	v.contentFlex.ResizeItem(v.MentionsList, 0, 0)
	v.StatusBar.SetSuggestions(0)
}

// FocusPanel sets focus to the given panel and updates border colors.
func (v *View) FocusPanel(panel Panel) {
	v.activePanel = panel
	v.applyBorderStyles()

	if v.app == nil {
		return
	}
	switch panel {
	case PanelMessages:
		v.app.SetFocus(v.Messages)
	case PanelInput:
		v.app.SetFocus(v.Input)
	}
}

// ActivePanel returns the focused panel.
func (v *View) ActivePanel() Panel {
	return v.activePanel
}

// HandleKey processes chat-level keybindings. Returns nil to consume the event.
func (v *View) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if v.pickerOpen {
		return event
	}

	name := keys.Normalize(event.Name())

	// Skip Rune-based focus keybinds when input is active so the user can type.
	if v.activePanel == PanelInput && event.Key() == tcell.KeyRune {
		return event
	}

	switch name {
	case v.cfg.Keybinds.FocusMessages:
		v.FocusPanel(PanelMessages)
		return nil
	case v.cfg.Keybinds.FocusInput:
		v.FocusPanel(PanelInput)
		return nil
	case v.cfg.Keybinds.OpenRecipients:
		v.ShowRecipientPicker()
		return nil
	}

	return event
}

// applyBorderStyles updates border colors based on which panel is active.
func (v *View) applyBorderStyles() {
	focusedFg, _, _ := v.cfg.Theme.Border.Focused.Style.Decompose()
	normalFg, _, _ := v.cfg.Theme.Border.Normal.Style.Decompose()

	type bordered struct {
		box   *tview.Box
		panel Panel
	}

	panels := []bordered{
		{v.Messages.Box, PanelMessages},
		{v.Input.Box, PanelInput},
	}

	for _, p := range panels {
		if p.panel == v.activePanel {
			p.box.SetBorderColor(focusedFg)
			p.box.SetTitleColor(focusedFg)
		} else {
			p.box.SetBorderColor(normalFg)
			p.box.SetTitleColor(normalFg)
		}
	}
}
