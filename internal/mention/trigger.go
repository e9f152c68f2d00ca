package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/m96-chan/mentio/internal/directory"
)

// Trigger describes the mention currently being typed.
type Trigger struct {
	Kind directory.Kind
	// Start is the byte offset of the '@' or '#' character.
	Start int
	// Query is the text between the trigger character and the cursor.
	Query string
}

// DetectTrigger reports whether the cursor sits inside an @ or # mention
// being composed. The nearest '@' and the nearest '#' before the cursor are
// considered; each only counts when it starts the text or follows
// whitespace, which keeps addresses like "a@b.c" from triggering. When both
// count, the one closer to the cursor wins. Typing whitespace after the
// trigger abandons it.
//
// A cursor outside the text is clamped to it.
func DetectTrigger(text string, cursor int) (Trigger, bool) {
	cursor = clamp(cursor, 0, len(text))
	before := text[:cursor]

	at := lastValidTrigger(before, '@')
	hash := lastValidTrigger(before, '#')
	if at == hash {
		return Trigger{}, false
	}

	kind, start := directory.KindUser, at
	if hash > at {
		kind, start = directory.KindGroup, hash
	}

	query := before[start+1:]
	if strings.IndexFunc(query, unicode.IsSpace) >= 0 {
		return Trigger{}, false
	}

	return Trigger{Kind: kind, Start: start, Query: query}, true
}

// lastValidTrigger returns the index of the last c in s if it is at the
// start of s or preceded by whitespace, otherwise -1.
func lastValidTrigger(s string, c byte) int {
	i := strings.LastIndexByte(s, c)
	if i <= 0 {
		return i
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	if unicode.IsSpace(prev) {
		return i
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
