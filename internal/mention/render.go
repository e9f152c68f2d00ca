package mention

import (
	"cmp"
	"html"
	"slices"
	"strings"

	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/directory"
)

// Markup is a render target. Escape must make arbitrary text safe to embed;
// Wrap returns the markup for one mention token.
type Markup interface {
	Escape(text string) string
	Wrap(e directory.Entity, token string) string
}

// HTML renders mentions as spans for a web client:
//
//	<span class="mention mention-user" data-type="user" data-id="u1">@Anna</span>
type HTML struct{}

func (HTML) Escape(text string) string { return html.EscapeString(text) }

func (HTML) Wrap(e directory.Entity, token string) string {
	kind := e.Kind.String()
	var b strings.Builder
	b.WriteString(`<span class="mention mention-`)
	b.WriteString(kind)
	b.WriteString(`" data-type="`)
	b.WriteString(kind)
	b.WriteString(`" data-id="`)
	b.WriteString(html.EscapeString(e.ID))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(token))
	b.WriteString(`</span>`)
	return b.String()
}

// Tview renders mentions with tview color tags for the terminal client.
type Tview struct {
	User       string // e.g. "[yellow::b]"
	UserReset  string // e.g. "[-::-]"
	Group      string
	GroupReset string
}

// DefaultTview returns the built-in mention colors.
func DefaultTview() Tview {
	return Tview{
		User:       "[yellow::b]",
		UserReset:  "[-::-]",
		Group:      "[cyan::b]",
		GroupReset: "[-::-]",
	}
}

func (Tview) Escape(text string) string { return tview.Escape(text) }

func (t Tview) Wrap(e directory.Entity, token string) string {
	if e.Kind == directory.KindGroup {
		return t.Group + tview.Escape(token) + t.GroupReset
	}
	return t.User + tview.Escape(token) + t.UserReset
}

type resolved struct {
	token  string
	entity directory.Entity
}

// Render produces markup for text in which every occurrence of a mentioned
// entity's token is wrapped. IDs that don't resolve in dir are skipped.
// The text is scanned once from left to right; where several tokens start
// at the same position the longest wins, and wrapped regions are never
// revisited. All remaining text is escaped.
func Render(text string, mentionIDs []string, dir *directory.Directory, m Markup) string {
	tokens := resolveTokens(mentionIDs, dir)
	if len(tokens) == 0 {
		return m.Escape(text)
	}

	var b strings.Builder
	last := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '@' && text[i] != '#' {
			continue
		}
		for _, t := range tokens {
			if !strings.HasPrefix(text[i:], t.token) {
				continue
			}
			b.WriteString(m.Escape(text[last:i]))
			b.WriteString(m.Wrap(t.entity, t.token))
			i += len(t.token) - 1
			last = i + 1
			break
		}
	}
	b.WriteString(m.Escape(text[last:]))
	return b.String()
}

// Display renders a stored message.
func Display(msg Message, dir *directory.Directory, m Markup) string {
	return Render(msg.Text, msg.Mentions, dir, m)
}

// resolveTokens maps IDs to tokens, longest first. When two entities share a
// token the first mentioned one owns it.
func resolveTokens(ids []string, dir *directory.Directory) []resolved {
	seen := make(map[string]bool, len(ids))
	out := make([]resolved, 0, len(ids))
	for _, id := range ids {
		e, ok := dir.Lookup(id)
		if !ok || e.DisplayName == "" {
			continue
		}
		tok := e.Token()
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, resolved{token: tok, entity: e})
	}
	slices.SortStableFunc(out, func(a, b resolved) int {
		return cmp.Compare(len(b.token), len(a.token))
	})
	return out
}
