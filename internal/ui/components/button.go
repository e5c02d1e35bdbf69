package components

import (
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// Button is a styled button label with an optional key shortcut.
type Button struct {
	Label    string
	Shortcut string
	Active   bool
}

// NewButton creates a new button.
func NewButton(label, shortcut string, active bool) Button {
	return Button{Label: label, Shortcut: shortcut, Active: active}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Shortcut != "" {
		label = "[" + b.Shortcut + "] " + label
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
