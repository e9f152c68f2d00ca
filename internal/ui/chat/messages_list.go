package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/markdown"
	"github.com/m96-chan/mentio/internal/mention"
	"github.com/m96-chan/mentio/internal/ui/keys"
)

const messageGroupingWindow = 5 * time.Minute

// Entry is a message shown in the messages list.
type Entry struct {
	ID      int
	Author  string // user ID
	Scope   string // conversation label, e.g. "#Dev Team"
	Time    time.Time
	Message mention.Message
	Edited  bool
	// System marks local notices such as command output. They have no
	// author and are never editable.
	System bool
}

// OnEditRequestFunc is called when the user requests to edit a message.
type OnEditRequestFunc func(id int, text string)

// MessagesList displays sent messages with selection and scrolling.
type MessagesList struct {
	*tview.TextView
	cfg           *config.Config
	colors        markdown.Colors
	entries       []Entry // oldest first
	dir           *directory.Directory
	selectedIdx   int // -1 = no selection
	selfUserID    string
	onEditRequest OnEditRequestFunc
}

// NewMessagesList creates a new messages list component.
func NewMessagesList(cfg *config.Config) *MessagesList {
	ml := &MessagesList{
		TextView:    tview.NewTextView(),
		cfg:         cfg,
		colors:      markdownColors(cfg.Theme),
		dir:         directory.New(nil, nil),
		selectedIdx: -1,
	}

	ml.SetDynamicColors(true)
	ml.SetRegions(true)
	ml.SetScrollable(true)
	ml.SetWordWrap(true)
	ml.SetBorder(true).SetTitle(" Messages ")

	ml.SetInputCapture(ml.handleInput)

	return ml
}

// markdownColors converts theme styles into renderer tags.
func markdownColors(t config.Theme) markdown.Colors {
	return markdown.Colors{
		UserMention:       t.Mentions.User.Tag(),
		UserMentionReset:  t.Mentions.User.Reset(),
		GroupMention:      t.Mentions.Group.Tag(),
		GroupMentionReset: t.Mentions.Group.Reset(),
		InlineCode:        t.Markdown.InlineCode.Tag(),
		CodeFence:         t.Markdown.CodeFence.Tag(),
		BlockquoteMark:    t.Markdown.BlockquoteMark.Tag(),
		BlockquoteText:    t.Markdown.BlockquoteText.Tag(),
	}
}

// SetSelfUserID sets the current user's ID for edit permission checks.
func (ml *MessagesList) SetSelfUserID(id string) {
	ml.selfUserID = id
}

// SetDirectory replaces the directory used to resolve authors and mentions
// and re-renders.
func (ml *MessagesList) SetDirectory(dir *directory.Directory) {
	ml.dir = dir
	ml.render()
}

// SetOnEditRequest sets the callback for edit requests.
func (ml *MessagesList) SetOnEditRequest(fn OnEditRequestFunc) {
	ml.onEditRequest = fn
}

// Entries returns the shown entries, oldest first.
func (ml *MessagesList) Entries() []Entry {
	return ml.entries
}

// AppendEntry adds a new entry to the bottom.
func (ml *MessagesList) AppendEntry(e Entry) {
	ml.entries = append(ml.entries, e)
	ml.render()

	// Auto-scroll if no selection is active.
	if ml.selectedIdx < 0 {
		ml.ScrollToEnd()
	}
}

// UpdateEntry replaces the message of the entry with the given ID and marks
// it edited. It reports whether the entry was found.
func (ml *MessagesList) UpdateEntry(id int, msg mention.Message) bool {
	for i := range ml.entries {
		if ml.entries[i].ID == id {
			ml.entries[i].Message = msg
			ml.entries[i].Edited = true
			ml.render()
			return true
		}
	}
	return false
}

// render rebuilds the full text content from entries.
func (ml *MessagesList) render() {
	var b strings.Builder

	var prevAuthor, prevScope string
	var prevTime time.Time

	authorTag, authorReset := ml.cfg.Theme.MessagesList.Author.Tag(), ml.cfg.Theme.MessagesList.Author.Reset()
	timeTag, timeReset := ml.cfg.Theme.MessagesList.Timestamp.Tag(), ml.cfg.Theme.MessagesList.Timestamp.Reset()
	editedTag, editedReset := ml.cfg.Theme.MessagesList.Edited.Tag(), ml.cfg.Theme.MessagesList.Edited.Reset()

	for _, e := range ml.entries {
		// Region start.
		fmt.Fprintf(&b, `["%s"]`, regionID(e.ID))

		if e.System {
			for _, line := range strings.Split(e.Message.Text, "\n") {
				fmt.Fprintf(&b, "%s%s%s\n", editedTag, tview.Escape(line), editedReset)
			}
			b.WriteString(`[""]`)
			prevAuthor = ""
			continue
		}

		// Message grouping: skip header if same author in the same scope within window.
		grouped := e.Author == prevAuthor && e.Scope == prevScope &&
			e.Time.Sub(prevTime) < messageGroupingWindow

		if !grouped {
			if ml.cfg.Timestamps.Enabled {
				fmt.Fprintf(&b, "%s%s%s ", timeTag, e.Time.Format(ml.cfg.Timestamps.Format), timeReset)
			}
			fmt.Fprintf(&b, "%s%s%s", authorTag, tview.Escape(resolveUserName(e.Author, ml.dir)), authorReset)
			if e.Scope != "" {
				fmt.Fprintf(&b, " %s%s%s", timeTag, tview.Escape(e.Scope), timeReset)
			}
			b.WriteString("\n")
		}

		rendered := markdown.Render(e.Message.Text, e.Message.Mentions, ml.dir,
			ml.cfg.Markdown.Enabled, ml.cfg.Markdown.SyntaxTheme, ml.colors)
		for _, line := range strings.Split(rendered, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}

		if e.Edited {
			fmt.Fprintf(&b, "  %s(edited)%s\n", editedTag, editedReset)
		}

		// Region end.
		b.WriteString(`[""]`)

		prevAuthor = e.Author
		prevScope = e.Scope
		prevTime = e.Time
	}

	ml.SetText(b.String())

	// Apply selection highlight.
	if ml.selectedIdx >= 0 && ml.selectedIdx < len(ml.entries) {
		ml.Highlight(regionID(ml.entries[ml.selectedIdx].ID))
		ml.ScrollToHighlight()
	} else {
		ml.Highlight()
	}
}

// handleInput processes navigation keys.
func (ml *MessagesList) handleInput(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())

	switch name {
	case ml.cfg.Keybinds.MessagesList.Down:
		ml.selectNext()
		return nil
	case ml.cfg.Keybinds.MessagesList.Up:
		ml.selectPrev()
		return nil
	case ml.cfg.Keybinds.MessagesList.Edit:
		if ml.requestEdit() {
			return nil
		}
	}

	return event
}

// requestEdit asks to edit the selected entry when it is the user's own.
func (ml *MessagesList) requestEdit() bool {
	if ml.selectedIdx < 0 || ml.selectedIdx >= len(ml.entries) || ml.onEditRequest == nil {
		return false
	}
	e := ml.entries[ml.selectedIdx]
	if e.System || e.Author != ml.selfUserID {
		return false
	}
	ml.onEditRequest(e.ID, e.Message.Text)
	return true
}

// selectNext moves selection to the next message.
func (ml *MessagesList) selectNext() {
	if len(ml.entries) == 0 {
		return
	}
	if ml.selectedIdx < 0 {
		// Start selection at the last message.
		ml.selectedIdx = len(ml.entries) - 1
	} else if ml.selectedIdx < len(ml.entries)-1 {
		ml.selectedIdx++
	}
	ml.Highlight(regionID(ml.entries[ml.selectedIdx].ID))
	ml.ScrollToHighlight()
}

// selectPrev moves selection to the previous message.
func (ml *MessagesList) selectPrev() {
	if len(ml.entries) == 0 {
		return
	}
	if ml.selectedIdx < 0 {
		ml.selectedIdx = len(ml.entries) - 1
	} else if ml.selectedIdx > 0 {
		ml.selectedIdx--
	}
	ml.Highlight(regionID(ml.entries[ml.selectedIdx].ID))
	ml.ScrollToHighlight()
}

func regionID(id int) string {
	return "m" + strconv.Itoa(id)
}

// resolveUserName returns the best display name for a message author.
func resolveUserName(userID string, dir *directory.Directory) string {
	if userID == "" {
		return "you"
	}
	if u, ok := dir.User(userID); ok && u.DisplayName != "" {
		return u.DisplayName
	}
	return userID
}
