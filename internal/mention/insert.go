package mention

import (
	"errors"
	"fmt"

	"github.com/m96-chan/mentio/internal/directory"
)

// ErrInvalidTrigger is returned by Insert when the trigger position does not
// match the text. It signals a host integration bug, never bad user input.
var ErrInvalidTrigger = errors.New("mention: invalid trigger position")

// Insertion is the text and cursor after a mention was inserted.
type Insertion struct {
	Text   string
	Cursor int
}

// Insert replaces the mention being typed, text[start:cursor], with the
// entity's token followed by a space and places the cursor after that space.
// Everything before start and after cursor is kept verbatim.
//
// Hosts should apply Cursor only after their input widget shows Text.
func Insert(text string, start, cursor int, e directory.Entity) (Insertion, error) {
	switch {
	case start < 0 || cursor > len(text) || start >= cursor:
		return Insertion{}, fmt.Errorf("%w: start %d, cursor %d, text length %d", ErrInvalidTrigger, start, cursor, len(text))
	case text[start] != e.Kind.Trigger():
		return Insertion{}, fmt.Errorf("%w: expected %q at %d, found %q", ErrInvalidTrigger, e.Kind.Trigger(), start, text[start])
	}

	token := e.Token() + " "
	return Insertion{
		Text:   text[:start] + token + text[cursor:],
		Cursor: start + len(token),
	}, nil
}
