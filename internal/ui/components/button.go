package components

import (
	"strings"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// Button is a styled button label.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders labels side by side with the active one highlighted.
func ButtonRow(active int, labels ...string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = Button{Label: l, Active: i == active}.View()
	}
	return strings.Join(parts, "   ")
}
