package components

import (
	"github.com/abhisek/h5play/internal/ui/theme"
)

// Button is a styled button component. Active marks the chosen option and
// Focused the one under the cursor.
type Button struct {
	Label   string
	Active  bool
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{
		Label:  label,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	prefix := "  "
	if b.Focused {
		prefix = "▸ "
	}
	label := prefix + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
