package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

func TestMakeStyle_Tag(t *testing.T) {
	tests := []struct {
		name string
		fg   string
		bg   string
		attr string
		want string
	}{
		{"fg only", "green", "", "", "[green]"},
		{"fg+attr", "green", "", "b", "[green:-:b]"},
		{"fg+bg+attr", "green", "black", "b", "[green:black:b]"},
		{"fg+bg", "white", "blue", "", "[white:blue:-]"},
		{"empty", "", "", "", "[-]"},
		{"attr only", "", "", "d", "[-:-:d]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := makeStyle(tt.fg, tt.bg, tt.attr).Tag()
			if got != tt.want {
				t.Errorf("makeStyle(%q,%q,%q).Tag() = %q, want %q", tt.fg, tt.bg, tt.attr, got, tt.want)
			}
		})
	}
}

func TestStyleWrapper_Reset(t *testing.T) {
	tests := []struct {
		name string
		fg   string
		bg   string
		attr string
		want string
	}{
		{"fg only", "green", "", "", "[-]"},
		{"fg+attr", "green", "", "b", "[-::-]"},
		{"fg+bg+attr", "green", "black", "b", "[-:-:-]"},
		{"empty", "", "", "", "[-]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeStyle(tt.fg, tt.bg, tt.attr).Reset(); got != tt.want {
				t.Errorf("Reset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrNamesToLetters(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"bold", "b", false},
		{"bold|underline", "bu", false},
		{" Italic | dim ", "id", false},
		{"none", "", false},
		{"sparkly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := attrNamesToLetters(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("attrNamesToLetters(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("attrNamesToLetters(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStyleWrapper_UnmarshalTOML(t *testing.T) {
	var doc struct {
		Style StyleWrapper `toml:"style"`
	}
	data := `[style]
foreground = "red"
background = "black"
attributes = "bold"
`
	if err := toml.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	fg, bg, attrs := doc.Style.Decompose()
	if fg != tcell.GetColor("red") {
		t.Errorf("foreground = %v, want red", fg)
	}
	if bg != tcell.GetColor("black") {
		t.Errorf("background = %v, want black", bg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute")
	}
	if got := doc.Style.Tag(); got != "[red:black:b]" {
		t.Errorf("Tag() = %q, want [red:black:b]", got)
	}
}

func TestStyleWrapper_UnmarshalTOMLRejectsScalar(t *testing.T) {
	var s StyleWrapper
	if err := s.UnmarshalTOML("red"); err == nil {
		t.Error("expected error for non-table style")
	}
}

func TestBuiltinThemeFallsBackToDefault(t *testing.T) {
	got := BuiltinTheme("no-such-theme")
	if got.Preset != "default" {
		t.Errorf("preset = %q, want default", got.Preset)
	}
	if got.Mentions.User.Tag() != "[yellow:-:b]" {
		t.Errorf("default user mention tag = %q", got.Mentions.User.Tag())
	}
}
