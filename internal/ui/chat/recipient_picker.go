package chat

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/mention"
	"github.com/m96-chan/mentio/internal/ui/keys"
)

// RecipientPicker is a modal popup for choosing the people a new draft is
// addressed to. Already chosen people and the local user are never listed.
type RecipientPicker struct {
	*tview.Flex
	cfg       *config.Config
	input     *tview.InputField
	list      *tview.List
	selected  *tview.TextView // Shows chosen recipients
	status    *tview.TextView
	dir       *directory.Directory
	self      string
	filtered  []directory.Entity
	chosen    []directory.Entity
	onConfirm func(userIDs []string)
	onClose   func()
}

// NewRecipientPicker creates a new recipient picker component.
func NewRecipientPicker(cfg *config.Config) *RecipientPicker {
	rp := &RecipientPicker{
		cfg: cfg,
		dir: directory.New(nil, nil),
	}

	rp.input = tview.NewInputField()
	rp.input.SetLabel(" Search: ")
	rp.input.SetChangedFunc(rp.onInputChanged)
	rp.input.SetInputCapture(rp.handleInput)

	rp.list = tview.NewList()
	rp.list.SetHighlightFullLine(true)
	rp.list.ShowSecondaryText(false)
	rp.list.SetWrapAround(false)
	rp.list.SetSelectedStyle(cfg.Theme.MentionsList.Selected.Style)

	rp.selected = tview.NewTextView()
	rp.selected.SetDynamicColors(true)
	rp.selected.SetTextAlign(tview.AlignLeft)

	rp.status = tview.NewTextView()
	rp.status.SetTextAlign(tview.AlignLeft)
	rp.status.SetDynamicColors(true)

	rp.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rp.selected, 1, 0, false).
		AddItem(rp.input, 1, 0, true).
		AddItem(rp.list, 0, 1, false).
		AddItem(rp.status, 1, 0, false)
	rp.SetBorder(true).SetTitle(" New Draft ")

	return rp
}

// SetOnConfirm sets the callback invoked with the chosen user IDs.
func (rp *RecipientPicker) SetOnConfirm(fn func(userIDs []string)) {
	rp.onConfirm = fn
}

// SetOnClose sets the callback for closing the picker.
func (rp *RecipientPicker) SetOnClose(fn func()) {
	rp.onClose = fn
}

// SetDirectory replaces the people to choose from. Chosen people missing
// from dir are dropped.
func (rp *RecipientPicker) SetDirectory(dir *directory.Directory, self string) {
	rp.dir = dir
	rp.self = self

	kept := rp.chosen[:0]
	for _, c := range rp.chosen {
		if u, ok := dir.User(c.ID); ok {
			kept = append(kept, u)
		}
	}
	rp.chosen = kept

	rp.updateSelectedDisplay()
	rp.onInputChanged(rp.input.GetText())
}

// Reset clears the input and chosen people, and lists everyone.
func (rp *RecipientPicker) Reset() {
	rp.input.SetText("")
	rp.chosen = nil
	rp.updateSelectedDisplay()
	rp.onInputChanged("")
}

// SelectedCount returns the number of currently chosen people.
func (rp *RecipientPicker) SelectedCount() int {
	return len(rp.chosen)
}

// FilteredCount returns the number of currently visible entries.
func (rp *RecipientPicker) FilteredCount() int {
	return len(rp.filtered)
}

// ChosenUserIDs returns the IDs of all chosen people.
func (rp *RecipientPicker) ChosenUserIDs() []string {
	ids := make([]string, len(rp.chosen))
	for i, u := range rp.chosen {
		ids[i] = u.ID
	}
	return ids
}

// handleInput processes keybindings for the picker input field.
func (rp *RecipientPicker) handleInput(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())
	kb := rp.cfg.Keybinds.RecipientPicker

	switch {
	case name == kb.Close:
		rp.close()
		return nil

	case name == kb.Confirm:
		rp.confirm()
		return nil

	case name == kb.Add:
		rp.addCurrent()
		return nil

	case name == kb.Remove:
		rp.removeLastChosen()
		return nil

	case name == kb.Up || event.Key() == tcell.KeyUp:
		cur := rp.list.GetCurrentItem()
		if cur > 0 {
			rp.list.SetCurrentItem(cur - 1)
		}
		return nil

	case name == kb.Down || event.Key() == tcell.KeyDown:
		cur := rp.list.GetCurrentItem()
		if cur < rp.list.GetItemCount()-1 {
			rp.list.SetCurrentItem(cur + 1)
		}
		return nil
	}

	return event
}

// onInputChanged lists the people whose name contains text, alphabetically.
func (rp *RecipientPicker) onInputChanged(text string) {
	rp.filtered = mention.Search(directory.KindUser, text, rp.dir, mention.Options{
		Self:    rp.self,
		Exclude: rp.ChosenUserIDs(),
	})
	rp.rebuildList()
	rp.updateStatus()
}

// rebuildList updates the tview.List from the filtered entries.
func (rp *RecipientPicker) rebuildList() {
	rp.list.Clear()
	for _, u := range rp.filtered {
		rp.list.AddItem(tview.Escape(u.DisplayName), "", 0, nil)
	}
	if rp.list.GetItemCount() > 0 {
		rp.list.SetCurrentItem(0)
	}
}

// addCurrent adds the currently highlighted person to the chosen list.
func (rp *RecipientPicker) addCurrent() {
	cur := rp.list.GetCurrentItem()
	if cur < 0 || cur >= len(rp.filtered) {
		return
	}

	rp.chosen = append(rp.chosen, rp.filtered[cur])
	rp.input.SetText("")
	rp.updateSelectedDisplay()
	rp.onInputChanged("")
}

// removeLastChosen removes the last chosen person from the selection.
func (rp *RecipientPicker) removeLastChosen() {
	if len(rp.chosen) == 0 {
		return
	}
	rp.chosen = rp.chosen[:len(rp.chosen)-1]
	rp.updateSelectedDisplay()
	rp.onInputChanged(rp.input.GetText())
}

// confirm triggers the onConfirm callback with the chosen user IDs.
func (rp *RecipientPicker) confirm() {
	if len(rp.chosen) == 0 {
		return
	}
	if rp.onConfirm != nil {
		rp.onConfirm(rp.ChosenUserIDs())
	}
}

// close signals the picker should be hidden.
func (rp *RecipientPicker) close() {
	if rp.onClose != nil {
		rp.onClose()
	}
}

// updateSelectedDisplay updates the line showing currently chosen people.
func (rp *RecipientPicker) updateSelectedDisplay() {
	if len(rp.chosen) == 0 {
		rp.selected.SetText(" [gray]Choose who the draft is for[-]")
		return
	}

	names := make([]string, len(rp.chosen))
	for i, c := range rp.chosen {
		names[i] = tview.Escape(c.DisplayName)
	}
	rp.selected.SetText(" [green]To:[-] " + strings.Join(names, ", "))
}

// updateStatus updates the status text with match and selection counts.
func (rp *RecipientPicker) updateStatus() {
	if len(rp.dir.Users()) == 0 {
		rp.status.SetText(" No people available")
		return
	}

	parts := []string{
		fmt.Sprintf(" %d matches", len(rp.filtered)),
	}
	if n := len(rp.chosen); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	kb := rp.cfg.Keybinds.RecipientPicker
	parts = append(parts, tview.Escape(fmt.Sprintf("[%s]add [%s]remove [%s]start [%s]cancel",
		kb.Add, kb.Remove, kb.Confirm, kb.Close)))
	rp.status.SetText(strings.Join(parts, "  "))
}
