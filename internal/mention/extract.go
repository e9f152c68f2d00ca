package mention

import (
	"strings"

	"github.com/m96-chan/mentio/internal/directory"
)

// Message is a sent message as handed to the host for storage.
type Message struct {
	Text     string
	Mentions []string
}

// ExtractMentionIDs returns the IDs of every user whose "@Name" and every
// group whose "#Name" occurs literally in text. Users come first, then
// groups, each in the order given. Containment is plain substring matching:
// "Max" and "Maxi" can both match the same text.
func ExtractMentionIDs(text string, users, groups []directory.Entity) []string {
	var ids []string
	seen := make(map[string]bool)

	collect := func(list []directory.Entity, trigger byte) {
		for _, e := range list {
			if e.DisplayName == "" || seen[e.ID] {
				continue
			}
			if strings.Contains(text, string(trigger)+e.DisplayName) {
				seen[e.ID] = true
				ids = append(ids, e.ID)
			}
		}
	}
	collect(users, '@')
	collect(groups, '#')

	return ids
}

// Send builds the message to persist for the composed text, with mentions
// resolved against dir.
func Send(text string, dir *directory.Directory) Message {
	return Message{
		Text:     text,
		Mentions: ExtractMentionIDs(text, dir.Users(), dir.Groups()),
	}
}

// Edit replaces the text of a sent message. Mentions are not recomputed:
// newly typed names stay plain text and removed ones stay in the set.
func Edit(msg Message, text string) Message {
	return Message{
		Text:     text,
		Mentions: append([]string(nil), msg.Mentions...),
	}
}
