// Package markdown renders chat messages for the terminal: mentions, Slack
// style inline formatting and emoji, quotes and syntax-highlighted code
// blocks.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/directory"
	"github.com/m96-chan/mentio/internal/mention"
)

// placeholder markers for tokens that should not be processed by inline formatting.
const placeholderPrefix = "\x00T"
const placeholderSuffix = "\x00"

var (
	// Inline code: `text` (single backtick, not inside code blocks).
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")

	boldRe   = regexp.MustCompile(`\*([^\*\n]+)\*`)
	italicRe = regexp.MustCompile(`_([^_\n]+)_`)
	strikeRe = regexp.MustCompile(`~([^~\n]+)~`)

	// Code block: ```lang\ncode``` or ```code```.
	codeBlockRe = regexp.MustCompile("(?s)```(\\w*)\\n?(.*?)```")
)

// Colors holds pre-computed tview tag strings for message rendering,
// avoiding a direct dependency on the config package.
type Colors struct {
	UserMention       string // e.g. "[yellow::b]"
	UserMentionReset  string // e.g. "[-::-]"
	GroupMention      string
	GroupMentionReset string
	InlineCode        string // e.g. "[gray]"
	CodeFence         string
	BlockquoteMark    string
	BlockquoteText    string // e.g. "[::d]"
}

// DefaultColors returns the built-in colors.
func DefaultColors() Colors {
	tv := mention.DefaultTview()
	return Colors{
		UserMention:       tv.User,
		UserMentionReset:  tv.UserReset,
		GroupMention:      tv.Group,
		GroupMentionReset: tv.GroupReset,
		InlineCode:        "[gray]",
		CodeFence:         "[gray]",
		BlockquoteMark:    "[gray]",
		BlockquoteText:    "[::d]",
	}
}

// Markup is the mention markup used for chat text. Mentions get the mention
// colors; the text between them is escaped and, when formatting is on,
// gets *bold*, _italic_, ~strike~, `code` and :emoji: styling. Escape only
// sees the text between two mentions, so Render formats whole lines itself
// and uses Markup directly only when formatting is off.
type Markup struct {
	mentions   mention.Tview
	colors     Colors
	formatting bool
}

// NewMarkup returns a Markup using colors.
func NewMarkup(colors Colors, formatting bool) Markup {
	return Markup{
		mentions: mention.Tview{
			User:       colors.UserMention,
			UserReset:  colors.UserMentionReset,
			Group:      colors.GroupMention,
			GroupReset: colors.GroupMentionReset,
		},
		colors:     colors,
		formatting: formatting,
	}
}

func (m Markup) Wrap(e directory.Entity, token string) string {
	return m.mentions.Wrap(e, token)
}

func (m Markup) Escape(text string) string {
	if !m.formatting {
		return tview.Escape(text)
	}
	return renderInline(text, m.colors)
}

// Render converts a message to tview-formatted output. Mentions listed in
// mentionIDs are highlighted. When enabled is false only mentions are
// styled; otherwise fenced code blocks are syntax highlighted with the given
// chroma style and never contain mentions, and "> " lines render as quotes.
func Render(text string, mentionIDs []string, dir *directory.Directory, enabled bool, syntaxTheme string, colors Colors) string {
	m := NewMarkup(colors, enabled)
	if !enabled {
		return mention.Render(text, mentionIDs, dir, m)
	}

	var b strings.Builder
	for _, seg := range splitCodeBlocks(text) {
		if seg.isCode {
			b.WriteString(renderCodeBlock(seg.lang, seg.code, syntaxTheme, colors))
			continue
		}
		b.WriteString(renderLines(seg.text, mentionIDs, dir, m))
	}
	return b.String()
}

// segment represents either a code block or inline text.
type segment struct {
	isCode bool
	lang   string // language hint for code blocks
	code   string // code block content
	text   string // inline text content
}

// splitCodeBlocks splits text into alternating inline/code-block segments.
func splitCodeBlocks(text string) []segment {
	matches := codeBlockRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []segment{{text: text}}
	}

	var segments []segment
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			segments = append(segments, segment{text: text[prev:m[0]]})
		}
		segments = append(segments, segment{
			isCode: true,
			lang:   text[m[2]:m[3]],
			code:   text[m[4]:m[5]],
		})
		prev = m[1]
	}
	if prev < len(text) {
		segments = append(segments, segment{text: text[prev:]})
	}
	return segments
}

// renderLines renders inline text line by line so that quote markers are
// only recognised at line starts.
func renderLines(text string, mentionIDs []string, dir *directory.Directory, m Markup) string {
	markTag, markReset := m.colors.BlockquoteMark, resetFor(m.colors.BlockquoteMark)
	textTag, textReset := m.colors.BlockquoteText, "[::-]"

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(stripped, "> "):
			lines[i] = markTag + "▎" + markReset + " " + textTag + renderLine(stripped[2:], mentionIDs, dir, m) + textReset
		case stripped == ">":
			lines[i] = markTag + "▎" + markReset
		default:
			lines[i] = renderLine(line, mentionIDs, dir, m)
		}
	}
	return strings.Join(lines, "\n")
}

// renderLine renders one line with mentions and inline formatting. Code
// spans are held back before mentions are resolved so they never contain
// mentions, and mentions are held back while the whole line is formatted so
// a span may enclose them.
func renderLine(line string, mentionIDs []string, dir *directory.Directory, m Markup) string {
	var held placeholders
	line = held.holdCode(line, m.colors)
	line = mention.Render(line, mentionIDs, dir, heldMentions{mentions: m.mentions, held: &held})
	return held.restore(formatInline(line))
}

// renderInline escapes text and applies inline formatting.
func renderInline(text string, colors Colors) string {
	var held placeholders
	return held.restore(formatInline(held.holdCode(text, colors)))
}

// formatInline escapes text and applies emoji, bold, italic and strike.
func formatInline(text string) string {
	text = tview.Escape(text)
	text = replaceEmoji(text)
	text = boldRe.ReplaceAllString(text, "[::b]$1[::-]")
	text = italicRe.ReplaceAllString(text, "[::i]$1[::-]")
	text = strikeRe.ReplaceAllString(text, "[::s]$1[::-]")
	return text
}

// placeholders holds rendered fragments that inline formatting must not
// touch.
type placeholders []string

func (p *placeholders) hold(rendered string) string {
	idx := len(*p)
	*p = append(*p, rendered)
	return fmt.Sprintf("%s%d%s", placeholderPrefix, idx, placeholderSuffix)
}

// holdCode swaps `code` spans for placeholders of their styled form.
func (p *placeholders) holdCode(text string, colors Colors) string {
	codeTag, codeReset := colors.InlineCode, resetFor(colors.InlineCode)
	return inlineCodeRe.ReplaceAllStringFunc(text, func(match string) string {
		return p.hold(codeTag + tview.Escape(match) + codeReset)
	})
}

func (p placeholders) restore(text string) string {
	for i, r := range p {
		placeholder := fmt.Sprintf("%s%d%s", placeholderPrefix, i, placeholderSuffix)
		text = strings.Replace(text, placeholder, r, 1)
	}
	return text
}

// heldMentions is the markup used while a line is being formatted: mention
// tokens become placeholders and the rest of the text is left raw.
type heldMentions struct {
	mentions mention.Tview
	held     *placeholders
}

func (h heldMentions) Escape(text string) string { return text }

func (h heldMentions) Wrap(e directory.Entity, token string) string {
	return h.held.hold(h.mentions.Wrap(e, token))
}

// renderCodeBlock renders a fenced code block with syntax highlighting.
func renderCodeBlock(lang, code string, syntaxTheme string, colors Colors) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(syntaxTheme)
	if style == nil {
		style = styles.Fallback
	}

	fenceTag, fenceReset := colors.CodeFence, resetFor(colors.CodeFence)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fenceTag + "```" + fenceReset + "\n" + tview.Escape(code) + "\n" + fenceTag + "```" + fenceReset
	}

	var buf strings.Builder
	buf.WriteString(fenceTag + "```" + fenceReset)
	if lang != "" {
		buf.WriteString(fenceTag + tview.Escape(lang) + fenceReset)
	}
	buf.WriteString("\n")

	for _, token := range iterator.Tokens() {
		text := tview.Escape(token.Value)
		entry := style.Get(token.Type)
		if !entry.Colour.IsSet() {
			buf.WriteString(text)
			continue
		}

		attrs := ""
		if entry.Bold == chroma.Yes {
			attrs += "b"
		}
		if entry.Italic == chroma.Yes {
			attrs += "i"
		}
		if attrs != "" {
			fmt.Fprintf(&buf, "[%s::%s]%s[-::-]", entry.Colour.String(), attrs, text)
		} else {
			fmt.Fprintf(&buf, "[%s]%s[-]", entry.Colour.String(), text)
		}
	}

	return strings.TrimRight(buf.String(), "\n") + "\n" + fenceTag + "```" + fenceReset
}

// resetFor returns the reset tag matching a color tag: tags that set
// attributes need their attributes reset too.
func resetFor(tag string) string {
	if strings.Count(tag, ":") >= 2 {
		return "[-::-]"
	}
	return "[-]"
}
