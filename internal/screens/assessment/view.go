package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const maxBodyWidth = 90

func (s *Screen) View(width, height int) string {
	if !s.sess.Active() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Submitting..."))
	}
	if s.confirming {
		return s.renderConfirm(width, height)
	}

	bodyWidth := min(width-4, maxBodyWidth)
	var sections []string
	if s.banner != "" {
		sections = append(sections, theme.Banner.Width(bodyWidth).Render(s.banner))
	}
	sections = append(sections, s.renderProgress(bodyWidth))
	if s.overview {
		sections = append(sections, s.renderOverview(bodyWidth, height-6))
	} else {
		sections = append(sections, s.renderQuestion(bodyWidth))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *Screen) renderProgress(width int) string {
	snap := s.sess.Snapshot()
	clock := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if snap.RemainingSeconds <= 60 {
		clock = theme.Warning
	}
	left := fmt.Sprintf("Question %d of %d", snap.Current+1, snap.Total)
	right := clock.Render("Time left " + formatRemaining(snap.RemainingSeconds))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	bar := components.NewProgressBar("Answered", snap.Answered, snap.Total, width)
	return theme.Body.Render(left) + strings.Repeat(" ", gap) + right + "\n" + bar.View()
}

func (s *Screen) renderQuestion(width int) string {
	idx, q := s.sess.Current()
	chosen := core.Unanswered
	if sel, ok := s.sess.Selected(q.ID); ok {
		chosen = sel
	}

	prompt := lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%d. %s", idx+1, q.Prompt))

	opts := components.OptionList{
		Options: q.Options,
		Cursor:  s.cursor,
		Chosen:  chosen,
		Answer:  -1,
		Width:   width,
	}

	status := theme.Hint.Render("Not answered yet")
	if chosen != core.Unanswered {
		status = theme.Chosen.Render(fmt.Sprintf("Answer recorded: option %d", chosen+1))
	}

	return prompt + "\n\n" + opts.View() + "\n" + status
}

// renderOverview lists every question with its answer state in a window
// around the cursor.
func (s *Screen) renderOverview(width, height int) string {
	total := s.sess.Len()
	rows := max(height, 5)
	start := max(0, min(s.overviewCursor-rows/2, total-rows))
	end := min(total, start+rows)

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Overview"))
	b.WriteString("\n\n")
	current := s.sess.Snapshot().Current
	for i := start; i < end; i++ {
		q, _ := s.sess.Question(i)
		mark := theme.Hint.Render("○ unanswered")
		if sel, ok := s.sess.Selected(q.ID); ok {
			mark = theme.Chosen.Render(fmt.Sprintf("● option %d", sel+1))
		}
		prefix := "  "
		if i == s.overviewCursor {
			prefix = "▸ "
		}
		label := fmt.Sprintf("%s%2d. %s", prefix, i+1, truncate(q.Prompt, width-26))
		style := theme.Unselected
		if i == s.overviewCursor {
			style = theme.Selected
		}
		if i == current {
			label += " *"
		}
		gap := max(width-lipgloss.Width(label)-lipgloss.Width(mark), 1)
		b.WriteString(style.Render(label) + strings.Repeat(" ", gap) + mark + "\n")
	}
	return b.String()
}

func (s *Screen) renderConfirm(width, height int) string {
	snap := s.sess.Snapshot()
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Submit your answers?"),
		"",
		theme.Body.Render(fmt.Sprintf("You answered %d of %d questions.", snap.Answered, snap.Total)),
	}
	if unanswered := snap.Total - snap.Answered; unanswered > 0 {
		lines = append(lines, theme.Warning.Render(fmt.Sprintf("%d unanswered questions will count as incorrect.", unanswered)))
	}
	lines = append(lines, theme.Hint.Render("You cannot change answers after submitting."), "",
		components.ButtonRow(-1, "[Y] Submit", "[N] Keep going"))

	box := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func formatRemaining(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
