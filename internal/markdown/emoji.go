package markdown

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/kyokomi/emoji/v2"
)

// emojiRe matches :name: shortcodes (alphanumeric, underscore, hyphen, plus).
var emojiRe = regexp.MustCompile(`:([a-zA-Z0-9_+\-]+):`)

// emojiCodes maps Slack-style shortcodes, without colons, to unicode.
var emojiCodes = sync.OnceValue(func() map[string]string {
	codeMap := emoji.CodeMap()
	codes := make(map[string]string, len(codeMap))
	for k, v := range codeMap {
		name := strings.Trim(k, ":")
		if isSlackShortcode(name) {
			codes[name] = v
		}
	}
	return codes
})

// isSlackShortcode reports whether name uses only lowercase letters, digits,
// '_', '-' and '+'.
func isSlackShortcode(name string) bool {
	for _, r := range name {
		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '+' {
			return false
		}
	}
	return name != ""
}

// LookupEmoji returns the unicode emoji for a shortcode given without
// colons, or ":name:" when unknown.
func LookupEmoji(name string) string {
	if u, ok := emojiCodes()[name]; ok {
		return u
	}
	return ":" + name + ":"
}

// replaceEmoji substitutes every known :name: in text.
func replaceEmoji(text string) string {
	return emojiRe.ReplaceAllStringFunc(text, func(match string) string {
		return LookupEmoji(match[1 : len(match)-1])
	})
}
