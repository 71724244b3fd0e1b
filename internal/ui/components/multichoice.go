package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// OptionList renders the four options of a question. Cursor is the
// highlighted row, Chosen the recorded answer (-1 for none). Correctness is
// only shown when Reveal is set.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
	Answer  int
	Reveal  bool
	Width   int
}

// View renders one line per option, wrapping long text under its label.
func (o OptionList) View() string {
	var b strings.Builder
	textWidth := o.Width - 8
	if textWidth < 20 {
		textWidth = 20
	}

	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Reveal {
			prefix = "▸ "
		}
		mark := " "
		if i == o.Chosen {
			mark = "●"
		}

		body := lipgloss.NewStyle().Width(textWidth).Render(opt)
		line := lipgloss.JoinHorizontal(lipgloss.Top, fmt.Sprintf("%s%s %d) ", prefix, mark, i+1), body)

		style := theme.Unselected
		switch {
		case o.Reveal && i == o.Answer:
			style = theme.Correct
		case o.Reveal && i == o.Chosen:
			style = theme.Incorrect
		case o.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Chosen:
			style = theme.Chosen
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
