package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// StyleWrapper wraps tcell.Style and implements TOML unmarshalling.
// In TOML it is represented as a table with optional "foreground",
// "background", and "attributes" string fields. The raw color names and
// tview attribute letters are kept so the style can also be emitted as a
// tview color tag.
type StyleWrapper struct {
	tcell.Style
	fg    string
	bg    string
	attrs string
}

// UnmarshalTOML implements the toml.Unmarshaler interface.
func (s *StyleWrapper) UnmarshalTOML(data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("expected table for style, got %T", data)
	}

	fg, _ := m["foreground"].(string)
	bg, _ := m["background"].(string)

	var letters string
	if attrs, ok := m["attributes"].(string); ok && attrs != "" {
		var err error
		letters, err = attrNamesToLetters(attrs)
		if err != nil {
			return err
		}
	}

	*s = makeStyle(fg, bg, letters)
	return nil
}

// Tag returns the style as a tview color tag, e.g. "[yellow::b]" style
// "[fg:bg:attrs]". Empty components are written as "-".
func (s StyleWrapper) Tag() string {
	switch {
	case s.bg == "" && s.attrs == "":
		if s.fg == "" {
			return "[-]"
		}
		return "[" + s.fg + "]"
	default:
		return "[" + orDash(s.fg) + ":" + orDash(s.bg) + ":" + orDash(s.attrs) + "]"
	}
}

// Reset returns the tview tag that undoes Tag.
func (s StyleWrapper) Reset() string {
	switch {
	case s.bg != "":
		return "[-:-:-]"
	case s.attrs != "":
		return "[-::-]"
	default:
		return "[-]"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// attrNamesToLetters parses a pipe-separated list of attribute names such as
// "bold|underline" into tview attribute letters ("bu").
func attrNamesToLetters(s string) (string, error) {
	var b strings.Builder
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "bold":
			b.WriteByte('b')
		case "italic":
			b.WriteByte('i')
		case "underline":
			b.WriteByte('u')
		case "dim":
			b.WriteByte('d')
		case "reverse":
			b.WriteByte('r')
		case "blink":
			b.WriteByte('l')
		case "strikethrough":
			b.WriteByte('s')
		case "none", "":
			// no-op
		default:
			return "", fmt.Errorf("unknown style attribute: %q", part)
		}
	}
	return b.String(), nil
}

// lettersToAttrMask converts tview attribute letters to a tcell.AttrMask.
func lettersToAttrMask(letters string) tcell.AttrMask {
	var mask tcell.AttrMask
	for _, r := range letters {
		switch r {
		case 'b':
			mask |= tcell.AttrBold
		case 'i':
			mask |= tcell.AttrItalic
		case 'u':
			mask |= tcell.AttrUnderline
		case 'd':
			mask |= tcell.AttrDim
		case 'r':
			mask |= tcell.AttrReverse
		case 'l':
			mask |= tcell.AttrBlink
		case 's':
			mask |= tcell.AttrStrikeThrough
		}
	}
	return mask
}

// makeStyle builds a StyleWrapper from color names and tview attribute letters.
func makeStyle(fg, bg, attrs string) StyleWrapper {
	style := tcell.StyleDefault
	if fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		style = style.Background(tcell.GetColor(bg))
	}
	if attrs != "" {
		style = style.Attributes(lettersToAttrMask(attrs))
	}
	return StyleWrapper{Style: style, fg: fg, bg: bg, attrs: attrs}
}

// Theme holds the complete theme configuration.
type Theme struct {
	Preset       string            `toml:"preset"`
	Border       BorderTheme       `toml:"border"`
	MessagesList MessagesListTheme `toml:"messages_list"`
	MessageInput MessageInputTheme `toml:"message_input"`
	MentionsList MentionsListTheme `toml:"mentions_list"`
	StatusBar    StatusBarTheme    `toml:"status_bar"`
	Mentions     MentionsTheme     `toml:"mentions"`
	Markdown     MarkdownTheme     `toml:"markdown"`
}

// BorderTheme configures border styling.
type BorderTheme struct {
	Focused StyleWrapper `toml:"focused"`
	Normal  StyleWrapper `toml:"normal"`
}

// MessagesListTheme configures the messages list styling.
type MessagesListTheme struct {
	Author    StyleWrapper `toml:"author"`
	Timestamp StyleWrapper `toml:"timestamp"`
	Edited    StyleWrapper `toml:"edited"`
	Selected  StyleWrapper `toml:"selected"`
}

// MessageInputTheme configures the message input styling.
type MessageInputTheme struct {
	Text        StyleWrapper `toml:"text"`
	Placeholder StyleWrapper `toml:"placeholder"`
}

// MentionsListTheme configures the autocomplete dropdown.
type MentionsListTheme struct {
	Item     StyleWrapper `toml:"item"`
	Selected StyleWrapper `toml:"selected"`
}

// StatusBarTheme configures the status bar styling.
type StatusBarTheme struct {
	Text       StyleWrapper `toml:"text"`
	Background StyleWrapper `toml:"background"`
}

// MentionsTheme configures how rendered @user and #group mentions look.
type MentionsTheme struct {
	User  StyleWrapper `toml:"user"`
	Group StyleWrapper `toml:"group"`
}

// MarkdownTheme configures inline code, code fences and quotes.
type MarkdownTheme struct {
	InlineCode     StyleWrapper `toml:"inline_code"`
	CodeFence      StyleWrapper `toml:"code_fence"`
	BlockquoteMark StyleWrapper `toml:"blockquote_mark"`
	BlockquoteText StyleWrapper `toml:"blockquote_text"`
}

// BuiltinTheme returns a fully populated Theme for the given preset name.
// Unknown names fall back to "default".
func BuiltinTheme(name string) Theme {
	switch name {
	case "dark":
		return darkTheme()
	default:
		return defaultTheme()
	}
}

func defaultTheme() Theme {
	return Theme{
		Preset: "default",
		Border: BorderTheme{
			Focused: makeStyle("blue", "", ""),
			Normal:  makeStyle("gray", "", ""),
		},
		MessagesList: MessagesListTheme{
			Author:    makeStyle("green", "", "b"),
			Timestamp: makeStyle("gray", "", ""),
			Edited:    makeStyle("gray", "", "d"),
			Selected:  makeStyle("white", "", "r"),
		},
		MessageInput: MessageInputTheme{
			Text:        makeStyle("white", "", ""),
			Placeholder: makeStyle("gray", "", "d"),
		},
		MentionsList: MentionsListTheme{
			Item:     makeStyle("white", "", ""),
			Selected: makeStyle("black", "blue", ""),
		},
		StatusBar: StatusBarTheme{
			Text:       makeStyle("white", "", ""),
			Background: makeStyle("", "darkblue", ""),
		},
		Mentions: MentionsTheme{
			User:  makeStyle("yellow", "", "b"),
			Group: makeStyle("cyan", "", "b"),
		},
		Markdown: MarkdownTheme{
			InlineCode:     makeStyle("gray", "", ""),
			CodeFence:      makeStyle("gray", "", ""),
			BlockquoteMark: makeStyle("gray", "", ""),
			BlockquoteText: makeStyle("", "", "d"),
		},
	}
}

func darkTheme() Theme {
	t := defaultTheme()
	t.Preset = "dark"
	t.Border.Focused = makeStyle("darkcyan", "", "")
	t.Border.Normal = makeStyle("darkgray", "", "")
	t.MessagesList.Author = makeStyle("lightgreen", "", "b")
	t.MentionsList.Selected = makeStyle("white", "darkcyan", "")
	t.StatusBar.Background = makeStyle("", "black", "")
	t.Mentions.User = makeStyle("orange", "", "b")
	t.Mentions.Group = makeStyle("lightblue", "", "b")
	return t
}
