package mention

import (
	"testing"

	"github.com/m96-chan/mentio/internal/directory"
)

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		cursor    int
		wantOK    bool
		wantKind  directory.Kind
		wantStart int
		wantQuery string
	}{
		{"empty", "", 0, false, 0, 0, ""},
		{"no trigger", "hello world", 11, false, 0, 0, ""},
		{"at sign only", "@", 1, true, directory.KindUser, 0, ""},
		{"at after text", "hello @ann", 10, true, directory.KindUser, 6, "ann"},
		{"hash at start", "#dev", 4, true, directory.KindGroup, 0, "dev"},
		{"cursor mid query", "@ann", 2, true, directory.KindUser, 0, "a"},
		{"mid-word at is ignored", "mail a@b", 8, false, 0, 0, ""},
		{"mid-word hash is ignored", "issue#12", 8, false, 0, 0, ""},
		{"space abandons trigger", "@ann foo", 8, false, 0, 0, ""},
		{"trailing space abandons trigger", "@ann ", 5, false, 0, 0, ""},
		{"hash closer than at", "hi @ann #de", 11, true, directory.KindGroup, 8, "de"},
		{"at closer than hash", "hi #dev @an", 11, true, directory.KindUser, 8, "an"},
		{"tab before trigger", "x\t@tab", 6, true, directory.KindUser, 2, "tab"},
		{"newline before trigger", "line\n#nl", 8, true, directory.KindGroup, 5, "nl"},
		{"earlier mid-word hash", "foo#bar @x", 10, true, directory.KindUser, 8, "x"},
		{"nearest at is mid-word", "@a@b", 4, false, 0, 0, ""},
		{"mid-word at inside group query", "#a@b", 4, true, directory.KindGroup, 0, "a@b"},
		{"cursor past end is clamped", "@ann", 99, true, directory.KindUser, 0, "ann"},
		{"negative cursor is clamped", "@ann", -3, false, 0, 0, ""},
		{"cursor before trigger", "hi @ann", 2, false, 0, 0, ""},
		{"non-breaking space before trigger", "hi\u00a0@an", 7, true, directory.KindUser, 4, "an"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectTrigger(tt.text, tt.cursor)
			if ok != tt.wantOK {
				t.Fatalf("DetectTrigger(%q, %d) ok = %v, want %v", tt.text, tt.cursor, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Kind != tt.wantKind {
				t.Errorf("kind: got %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Start != tt.wantStart {
				t.Errorf("start: got %d, want %d", got.Start, tt.wantStart)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("query: got %q, want %q", got.Query, tt.wantQuery)
			}
		})
	}
}

// Every prefix of a query typed right after a trigger at a word start
// yields that trigger.
func TestDetectTrigger_StartPointsAtTriggerChar(t *testing.T) {
	prefixes := []string{"", "hi ", "one two\n", "\t"}
	for _, prefix := range prefixes {
		for _, trig := range []byte{'@', '#'} {
			text := prefix + string(trig) + "partial"
			for cursor := len(prefix) + 1; cursor <= len(text); cursor++ {
				got, ok := DetectTrigger(text, cursor)
				if !ok {
					t.Fatalf("DetectTrigger(%q, %d) found nothing", text, cursor)
				}
				if got.Start != len(prefix) || text[got.Start] != trig {
					t.Errorf("DetectTrigger(%q, %d).Start = %d, want %d", text, cursor, got.Start, len(prefix))
				}
				if got.Kind.Trigger() != trig {
					t.Errorf("DetectTrigger(%q, %d).Kind = %v", text, cursor, got.Kind)
				}
				if want := text[len(prefix)+1 : cursor]; got.Query != want {
					t.Errorf("DetectTrigger(%q, %d).Query = %q, want %q", text, cursor, got.Query, want)
				}
			}
		}
	}
}

func TestDetectTrigger_WhitespaceBetweenTriggerAndCursor(t *testing.T) {
	for _, ws := range []string{" ", "\t", "\n"} {
		for _, trig := range []string{"@", "#"} {
			text := "x " + trig + "ab" + ws + "cd"
			if _, ok := DetectTrigger(text, len(text)); ok {
				t.Errorf("DetectTrigger(%q) should find nothing", text)
			}
		}
	}
}
