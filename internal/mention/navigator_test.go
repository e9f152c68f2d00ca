package mention

import (
	"testing"

	"github.com/m96-chan/mentio/internal/directory"
)

func users(names ...string) []directory.Entity {
	out := make([]directory.Entity, len(names))
	for i, n := range names {
		out[i] = directory.Entity{ID: "id-" + n, DisplayName: n, Kind: directory.KindUser}
	}
	return out
}

func TestNavigator_ZeroValueIsClosed(t *testing.T) {
	var n Navigator
	if n.IsOpen() {
		t.Fatal("zero navigator should be closed")
	}
	for _, k := range []Key{KeyUp, KeyDown, KeyConfirm, KeyCancel, KeyNone} {
		if out := n.Handle(k); out.Handled || out.Committed {
			t.Errorf("closed navigator handled key %v: %+v", k, out)
		}
	}
	if _, ok := n.Active(); ok {
		t.Error("closed navigator should have no active entity")
	}
}

func TestNavigator_UpdateOpensAndCloses(t *testing.T) {
	var n Navigator
	n.Update(users("a", "b"))
	if !n.IsOpen() || len(n.Candidates()) != 2 || n.ActiveIndex() != 0 {
		t.Fatalf("after update: open=%v len=%d active=%d", n.IsOpen(), len(n.Candidates()), n.ActiveIndex())
	}
	n.Update(nil)
	if n.IsOpen() {
		t.Error("empty update should close")
	}
}

func TestNavigator_Wraps(t *testing.T) {
	tests := []struct {
		name string
		keys []Key
		want int
	}{
		{"down once", []Key{KeyDown}, 1},
		{"down wraps", []Key{KeyDown, KeyDown, KeyDown}, 0},
		{"up wraps", []Key{KeyUp}, 2},
		{"up then down", []Key{KeyUp, KeyDown}, 0},
		{"unknown key ignored", []Key{KeyNone, KeyDown}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Navigator
			n.Update(users("a", "b", "c"))
			for _, k := range tt.keys {
				n.Handle(k)
			}
			if got := n.ActiveIndex(); got != tt.want {
				t.Errorf("active index: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNavigator_ResetOnChangedCandidates(t *testing.T) {
	var n Navigator
	n.Update(users("a", "b", "c"))
	n.Handle(KeyDown)
	n.Handle(KeyDown)

	n.Update(users("a", "b", "c"))
	if got := n.ActiveIndex(); got != 2 {
		t.Errorf("same candidates should keep index, got %d", got)
	}

	n.Update(users("a", "c"))
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("changed candidates should reset index, got %d", got)
	}
}

func TestNavigator_ConfirmCommitsAndCloses(t *testing.T) {
	var n Navigator
	n.Update(users("a", "b"))
	n.Handle(KeyDown)

	out := n.Handle(KeyConfirm)
	if !out.Handled || !out.Committed {
		t.Fatalf("confirm: %+v", out)
	}
	if out.Entity.DisplayName != "b" {
		t.Errorf("committed %q, want %q", out.Entity.DisplayName, "b")
	}
	if n.IsOpen() {
		t.Error("confirm should close the list")
	}
	if out := n.Handle(KeyConfirm); out.Handled {
		t.Error("confirm after close should fall through")
	}
}

func TestNavigator_CancelClosesWithoutCommit(t *testing.T) {
	var n Navigator
	n.Update(users("a"))

	out := n.Handle(KeyCancel)
	if !out.Handled || out.Committed {
		t.Errorf("cancel: %+v", out)
	}
	if n.IsOpen() {
		t.Error("cancel should close the list")
	}
}

func TestNavigator_CloseFromOutside(t *testing.T) {
	var n Navigator
	n.Update(users("a", "b"))
	n.Handle(KeyDown)
	n.Close()
	if n.IsOpen() || n.ActiveIndex() != 0 || n.Candidates() != nil {
		t.Errorf("after Close: open=%v active=%d candidates=%v", n.IsOpen(), n.ActiveIndex(), n.Candidates())
	}
}

// Any mix of keys and candidate updates keeps the highlight in range.
func TestNavigator_IndexAlwaysInRange(t *testing.T) {
	lists := [][]directory.Entity{
		users("a", "b", "c", "d", "e"),
		users("a"),
		users("x", "y"),
		nil,
		users("p", "q", "r"),
	}
	keys := []Key{KeyDown, KeyUp, KeyDown, KeyDown, KeyNone, KeyUp, KeyUp, KeyUp}

	var n Navigator
	step := 0
	for round := 0; round < 20; round++ {
		n.Update(lists[round%len(lists)])
		for i := 0; i <= round%4; i++ {
			n.Handle(keys[step%len(keys)])
			step++
		}
		if !n.IsOpen() {
			if n.ActiveIndex() != 0 {
				t.Fatalf("round %d: closed with index %d", round, n.ActiveIndex())
			}
			continue
		}
		if idx := n.ActiveIndex(); idx < 0 || idx >= len(n.Candidates()) {
			t.Fatalf("round %d: index %d out of range for %d candidates", round, idx, len(n.Candidates()))
		}
	}
}
