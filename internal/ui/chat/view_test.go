package chat

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/mention"
)

func newTestView() *View {
	cfg := &config.Config{}
	cfg.AutocompleteLimit = 5
	cfg.Keybinds.FocusMessages = "Ctrl+K"
	cfg.Keybinds.FocusInput = "Ctrl+L"
	cfg.Keybinds.OpenRecipients = "Ctrl+O"
	cfg.Keybinds.MessageInput.Send = "Enter"
	cfg.Keybinds.MessageInput.TabComplete = "Tab"
	cfg.Keybinds.MessageInput.Cancel = "Escape"
	cfg.Keybinds.MessagesList.Edit = "Rune[e]"
	return New(nil, cfg)
}

func TestView_New(t *testing.T) {
	v := newTestView()

	if v.Messages == nil || v.MentionsList == nil || v.Input == nil || v.StatusBar == nil || v.RecipientPicker == nil {
		t.Fatal("all panels should be created")
	}
	if v.ActivePanel() != PanelInput {
		t.Errorf("initial panel = %d, want input", v.ActivePanel())
	}
	if v.Input.mentionsList != v.MentionsList {
		t.Error("input should be wired to the mentions list")
	}
}

func TestView_HandleKeyFocus(t *testing.T) {
	v := newTestView()

	ev := tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl)
	if v.HandleKey(ev) != nil {
		t.Error("focus key should be consumed")
	}
	if v.ActivePanel() != PanelMessages {
		t.Errorf("panel = %d, want messages", v.ActivePanel())
	}

	ev = tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl)
	if v.HandleKey(ev) != nil {
		t.Error("focus key should be consumed")
	}
	if v.ActivePanel() != PanelInput {
		t.Errorf("panel = %d, want input", v.ActivePanel())
	}
}

func TestView_HandleKeyRunesPassWhileTyping(t *testing.T) {
	v := newTestView()

	ev := tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone)
	if v.HandleKey(ev) == nil {
		t.Error("runes should reach the input")
	}
}

func TestView_RecipientPicker(t *testing.T) {
	v := newTestView()

	ev := tcell.NewEventKey(tcell.KeyCtrlO, 0, tcell.ModCtrl)
	if v.HandleKey(ev) != nil {
		t.Error("open key should be consumed")
	}
	if !v.PickerOpen() {
		t.Fatal("picker should be open")
	}

	ev = tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl)
	if v.HandleKey(ev) == nil {
		t.Error("view keys should pass to the open picker")
	}

	v.HideRecipientPicker()
	if v.PickerOpen() {
		t.Error("picker should be closed")
	}
	if v.ActivePanel() != PanelInput {
		t.Errorf("panel = %d, want input after closing the picker", v.ActivePanel())
	}
}

func TestView_SetDirectory(t *testing.T) {
	v := newTestView()
	v.SetDirectory(testDirectory(), "u1")

	if got := v.StatusBar.GetText(false); !strings.Contains(got, "3 people, 2 groups") {
		t.Errorf("status = %q, want directory counts", got)
	}
	if v.Messages.selfUserID != "u1" {
		t.Errorf("messages self = %q, want u1", v.Messages.selfUserID)
	}
	for _, e := range v.RecipientPicker.filtered {
		if e.ID == "u1" {
			t.Error("picker should not list the local user")
		}
	}
}

func TestView_AutocompleteUpdatesStatus(t *testing.T) {
	v := newTestView()
	v.SetDirectory(testDirectory(), "")

	v.Input.update(mention.Buffer{Text: "@an", Cursor: 3})
	if got := v.StatusBar.GetText(false); !strings.Contains(got, "2 suggestions") {
		t.Errorf("status = %q, want suggestion count", got)
	}

	v.Input.dismissAutocomplete()
	if got := v.StatusBar.GetText(false); strings.Contains(got, "suggestions") {
		t.Errorf("status = %q, suggestion count should be cleared", got)
	}
}

func TestView_SetScope(t *testing.T) {
	v := newTestView()
	v.SetDirectory(testDirectory(), "")
	v.SetScope(mention.InGroup("g2"), "in #Design")

	if got := v.StatusBar.GetText(false); !strings.Contains(got, "in #Design") {
		t.Errorf("status = %q, want scope label", got)
	}
	v.Input.update(mention.Buffer{Text: "@an", Cursor: 3})
	if got := v.Input.composer.Candidates(); len(got) != 1 || got[0].ID != "u1" {
		t.Errorf("candidates = %v, want only u1", got)
	}
}

func TestView_EditRequestEntersEditMode(t *testing.T) {
	v := newTestView()
	v.SetDirectory(testDirectory(), "u1")
	v.Messages.AppendEntry(makeEntry(4, "u1", "typo", baseTime))
	v.FocusPanel(PanelMessages)

	v.Messages.selectNext()
	if !v.Messages.requestEdit() {
		t.Fatal("own message should be editable")
	}
	if v.Input.Mode() != inputModeEdit || v.Input.editID != 4 {
		t.Errorf("input mode = %d id = %d, want edit of 4", v.Input.Mode(), v.Input.editID)
	}
	if v.ActivePanel() != PanelInput {
		t.Errorf("panel = %d, want input", v.ActivePanel())
	}
}
