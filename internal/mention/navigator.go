package mention

import "github.com/m96-chan/mentio/internal/directory"

// Key is a navigation key as seen by the suggestion list. Hosts map their
// own key events (Enter, Tab, arrows, Escape) onto these.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	// KeyConfirm commits the highlighted suggestion (Enter or Tab).
	KeyConfirm
	// KeyCancel closes the list without committing (Escape).
	KeyCancel
)

// Outcome is the result of handing a key to a Navigator.
type Outcome struct {
	// Handled is false when the key should fall through to the host, e.g.
	// Enter with no list open submits the message.
	Handled bool
	// Committed is set when KeyConfirm picked Entity.
	Committed bool
	Entity    directory.Entity
}

// Navigator tracks an open or closed suggestion list and its highlighted
// row. The zero value is a closed navigator.
type Navigator struct {
	candidates []directory.Entity
	active     int
	open       bool
}

// Update replaces the candidates. An empty list closes the navigator; a
// different list opens it and highlights the first row. Refreshing with the
// same candidates keeps the highlight.
func (n *Navigator) Update(candidates []directory.Entity) {
	if len(candidates) == 0 {
		n.Close()
		return
	}
	if !n.open || !sameIDs(n.candidates, candidates) {
		n.active = 0
	}
	n.candidates = candidates
	n.open = true
	if n.active >= len(n.candidates) {
		n.active = 0
	}
}

// Close hides the list. Hosts call it on outside clicks and focus loss.
func (n *Navigator) Close() {
	n.candidates = nil
	n.active = 0
	n.open = false
}

// IsOpen reports whether the list is shown.
func (n *Navigator) IsOpen() bool { return n.open }

// Candidates returns the current suggestions.
func (n *Navigator) Candidates() []directory.Entity { return n.candidates }

// ActiveIndex returns the highlighted row. It is always within
// [0, len(Candidates())) while open, and 0 when closed.
func (n *Navigator) ActiveIndex() int { return n.active }

// Active returns the highlighted entity.
func (n *Navigator) Active() (directory.Entity, bool) {
	if !n.open || n.active < 0 || n.active >= len(n.candidates) {
		return directory.Entity{}, false
	}
	return n.candidates[n.active], true
}

// Handle applies a navigation key. Up and Down wrap around.
func (n *Navigator) Handle(k Key) Outcome {
	if !n.open || len(n.candidates) == 0 {
		return Outcome{}
	}

	count := len(n.candidates)
	switch k {
	case KeyDown:
		n.active = (n.active + 1) % count
		return Outcome{Handled: true}
	case KeyUp:
		n.active = (n.active - 1 + count) % count
		return Outcome{Handled: true}
	case KeyConfirm:
		e, ok := n.Active()
		n.Close()
		if !ok {
			return Outcome{Handled: true}
		}
		return Outcome{Handled: true, Committed: true, Entity: e}
	case KeyCancel:
		n.Close()
		return Outcome{Handled: true}
	}
	return Outcome{}
}

func sameIDs(a, b []directory.Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Kind != b[i].Kind {
			return false
		}
	}
	return true
}
