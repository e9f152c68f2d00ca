package chat

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/m96-chan/mentio/internal/config"
)

// StatusBar displays the directory source, draft scope and suggestion count
// at the bottom.
type StatusBar struct {
	*tview.TextView
	cfg         *config.Config
	connStatus  string
	scopeText   string
	dirText     string
	suggestions int
}

// NewStatusBar creates a themed status bar.
func NewStatusBar(cfg *config.Config) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)

	// Apply status bar theme.
	_, bg, _ := cfg.Theme.StatusBar.Background.Style.Decompose()
	fg, _, _ := cfg.Theme.StatusBar.Text.Style.Decompose()
	tv.SetBackgroundColor(bg)
	tv.SetTextColor(fg)

	sb := &StatusBar{
		TextView: tv,
		cfg:      cfg,
	}
	return sb
}

// SetConnectionStatus updates the directory source status text.
func (sb *StatusBar) SetConnectionStatus(s string) {
	sb.connStatus = s
	sb.render()
}

// SetScope updates the draft scope label. An empty label hides it.
func (sb *StatusBar) SetScope(label string) {
	sb.scopeText = label
	sb.render()
}

// SetDirectoryInfo updates the known user and group counts.
func (sb *StatusBar) SetDirectoryInfo(users, groups int) {
	sb.dirText = fmt.Sprintf("%d people, %d groups", users, groups)
	sb.render()
}

// SetSuggestions updates the number of open suggestions. Zero hides it.
func (sb *StatusBar) SetSuggestions(n int) {
	sb.suggestions = n
	sb.render()
}

// render rebuilds the status bar text from current state.
func (sb *StatusBar) render() {
	text := " " + tview.Escape(sb.connStatus)
	if sb.dirText != "" {
		text += "  |  " + sb.dirText
	}
	if sb.scopeText != "" {
		text += "  |  " + tview.Escape(sb.scopeText)
	}
	if sb.suggestions > 0 {
		text += fmt.Sprintf("  |  %d suggestions", sb.suggestions)
	}
	sb.TextView.SetText(text)
}
