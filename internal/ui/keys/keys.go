package keys

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/mention"
)

// Normalize converts tcell key names to the config format.
// tcell outputs "Ctrl-C" (hyphen) for bare Ctrl keys but config uses "Ctrl+C" (plus),
// and names the escape key "Esc".
func Normalize(name string) string {
	if name == "Esc" {
		return "Escape"
	}
	return strings.ReplaceAll(name, "Ctrl-", "Ctrl+")
}

// MentionKey maps a key event to a suggestion list key. Both the send and
// tab-complete bindings confirm. Keys with no meaning to the list map to
// mention.KeyNone.
func MentionKey(event *tcell.EventKey, kb config.MessageInputKeybinds) mention.Key {
	name := Normalize(event.Name())
	switch {
	case name == kb.Send, name == kb.TabComplete:
		return mention.KeyConfirm
	case name == kb.Up, event.Key() == tcell.KeyUp:
		return mention.KeyUp
	case name == kb.Down, event.Key() == tcell.KeyDown:
		return mention.KeyDown
	case name == kb.Cancel:
		return mention.KeyCancel
	}
	return mention.KeyNone
}
