package chat

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"github.com/sahilm/fuzzy"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
)

// commandEntry holds precomputed data for a command suggestion.
type commandEntry struct {
	name        string // e.g. "/help"
	description string // e.g. "Show available commands"
	searchText  string // lowercased for fuzzy matching
	insertText  string // e.g. "/help "
}

// MentionsList displays autocomplete suggestions in a dropdown. It shows
// either the mention candidates of the composer or slash commands.
type MentionsList struct {
	*tview.List
	cfg      *config.Config
	commands []commandEntry
	matched  []commandEntry
}

// NewMentionsList creates a new mentions autocomplete dropdown.
func NewMentionsList(cfg *config.Config) *MentionsList {
	ml := &MentionsList{
		List: tview.NewList(),
		cfg:  cfg,
	}

	ml.ShowSecondaryText(false)
	ml.SetHighlightFullLine(true)
	ml.SetWrapAround(true)
	ml.SetBorder(true)
	ml.SetMainTextStyle(cfg.Theme.MentionsList.Item.Style)
	ml.SetSelectedStyle(cfg.Theme.MentionsList.Selected.Style)

	return ml
}

// SetCommands sets the available slash commands for autocomplete.
func (ml *MentionsList) SetCommands(cmds []commandEntry) {
	ml.commands = cmds
}

// ShowCandidates replaces the rows with mention candidates and highlights
// the active one.
func (ml *MentionsList) ShowCandidates(candidates []directory.Entity, active int) {
	ml.Clear()
	ml.matched = nil
	for _, e := range candidates {
		ml.AddItem(candidateText(e), "", 0, nil)
	}
	if active >= 0 && active < len(candidates) {
		ml.SetCurrentItem(active)
	}
}

// candidateText is the row shown for an entity.
func candidateText(e directory.Entity) string {
	text := tview.Escape(e.Token())
	if e.Kind == directory.KindGroup {
		text += fmt.Sprintf(" (%d members)", len(e.Participants))
	}
	return text
}

// FilterCommands fuzzy-matches slash commands against prefix. It returns
// the number of matching suggestions.
func (ml *MentionsList) FilterCommands(prefix string, limit int) int {
	ml.Clear()
	ml.matched = nil

	if prefix == "" {
		ml.matched = append(ml.matched, ml.commands...)
	} else {
		targets := make([]string, len(ml.commands))
		for i, cmd := range ml.commands {
			targets[i] = cmd.searchText
		}
		for _, m := range fuzzy.Find(strings.ToLower(prefix), targets) {
			ml.matched = append(ml.matched, ml.commands[m.Index])
		}
	}

	if len(ml.matched) > limit {
		ml.matched = ml.matched[:limit]
	}
	for _, cmd := range ml.matched {
		ml.AddItem(fmt.Sprintf("%s  %s", cmd.name, cmd.description), "", 0, nil)
	}
	if len(ml.matched) > 0 {
		ml.SetCurrentItem(0)
	}

	return len(ml.matched)
}

// SelectedCommand returns the highlighted command suggestion.
func (ml *MentionsList) SelectedCommand() (commandEntry, bool) {
	idx := ml.GetCurrentItem()
	if idx < 0 || idx >= len(ml.matched) {
		return commandEntry{}, false
	}
	return ml.matched[idx], true
}

// SelectNext moves selection to the next suggestion, wrapping around.
func (ml *MentionsList) SelectNext() {
	n := ml.GetItemCount()
	if n == 0 {
		return
	}
	ml.SetCurrentItem((ml.GetCurrentItem() + 1) % n)
}

// SelectPrev moves selection to the previous suggestion, wrapping around.
func (ml *MentionsList) SelectPrev() {
	n := ml.GetItemCount()
	if n == 0 {
		return
	}
	ml.SetCurrentItem((ml.GetCurrentItem() - 1 + n) % n)
}
