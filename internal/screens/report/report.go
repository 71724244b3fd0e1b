package report

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// SavedMsg reports the outcome of persisting the attempt.
type SavedMsg struct {
	AttemptID string
	Err       error
}

type saveState int

const (
	saveDisabled saveState = iota
	saving
	saved
	saveFailed
)

// ReportScreen shows a finalized attempt.
type ReportScreen struct {
	report    core.Report
	prompts   map[string]string
	title     string
	save      saveState
	saveErr   error
	spinner   spinner.Model
	offset    int
	tableRows int
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)
var _ screen.EscapeHandler = (*ReportScreen)(nil)

// New creates a ReportScreen. questions supplies prompt text and may be nil
// for attempts loaded from history. When awaitSave is set the screen shows
// a spinner until a SavedMsg arrives.
func New(r core.Report, questions []core.Question, title string, awaitSave bool) *ReportScreen {
	s := &ReportScreen{
		report:  r,
		prompts: make(map[string]string, len(questions)),
		title:   title,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
	for _, q := range questions {
		s.prompts[q.ID] = q.Prompt
	}
	if awaitSave {
		s.save = saving
	}
	return s
}

func (s *ReportScreen) Init() tea.Cmd {
	if s.save == saving {
		return s.spinner.Tick
	}
	return nil
}

func (s *ReportScreen) Title() string {
	if s.title == "" {
		return "Results"
	}
	return s.title + " Results"
}

func (s *ReportScreen) HandlesEscape() bool { return true }

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Done"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		if msg.AttemptID != s.report.AttemptID {
			return s, nil
		}
		if msg.Err != nil {
			s.save, s.saveErr = saveFailed, msg.Err
		} else {
			s.save = saved
		}
		return s, nil

	case spinner.TickMsg:
		if s.save != saving {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.offset = max(s.offset-1, 0)
		case "down", "j":
			s.offset = min(s.offset+1, max(len(s.report.Questions)-s.tableRows, 0))
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	r := s.report
	var sections []string

	score := scoreStyle(r.Percent).Render(fmt.Sprintf("%d%%", r.Percent))
	sections = append(sections,
		theme.Title.Width(width).Render("Score "+score),
		theme.Subtitle.Width(width).Render(fmt.Sprintf(
			"%d of %d correct  ·  %d answered  ·  time used %s  ·  warnings %d",
			r.Correct, r.Total, r.Answered, layout.FormatClock(int(r.TimeUsed.Seconds())), r.Warnings)),
	)
	if msg := r.Reason.Message(); msg != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Warning.Render(msg)))
	}
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, s.saveLine()))

	// Two lines per header plus borders around the table.
	s.tableRows = max(height-lipgloss.Height(strings.Join(sections, "\n"))-6, 3)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTable(min(width-4, 100))))

	return strings.Join(sections, "\n")
}

func (s *ReportScreen) saveLine() string {
	switch s.save {
	case saving:
		return s.spinner.View() + theme.Hint.Render(" Saving result...")
	case saved:
		return theme.Hint.Render("Saved as " + shortID(s.report.AttemptID))
	case saveFailed:
		return theme.Incorrect.Render("Could not save this result: " + s.saveErr.Error())
	}
	return theme.Hint.Render("Result not saved")
}

func (s *ReportScreen) renderTable(width int) string {
	rows := s.report.Questions
	end := min(s.offset+s.tableRows, len(rows))
	promptWidth := max(width-34, 10)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("#", "Question", "Yours", "Correct", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.Foreground(theme.TextDim).Bold(true)
			}
			if col == 4 {
				if rows[s.offset+row].Correct {
					return st.Foreground(theme.Success)
				}
				return st.Foreground(theme.Error)
			}
			return st.Foreground(theme.Text)
		})

	for i := s.offset; i < end; i++ {
		qr := rows[i]
		prompt := s.prompts[qr.QuestionID]
		if prompt == "" {
			prompt = qr.QuestionID
		}
		mark := "✗"
		if qr.Correct {
			mark = "✓"
		}
		t.Row(fmt.Sprint(i+1), clip(prompt, promptWidth), optionLabel(qr.Selected), optionLabel(qr.Answer), mark)
	}

	out := t.Render()
	if len(rows) > end || s.offset > 0 {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("rows %d-%d of %d", s.offset+1, end, len(rows)))
	}
	return out
}

func optionLabel(i int) string {
	if i == core.Unanswered {
		return "-"
	}
	return fmt.Sprint(i + 1)
}

func scoreStyle(percent int) lipgloss.Style {
	switch {
	case percent >= 70:
		return theme.Correct
	case percent >= 40:
		return theme.Warning
	}
	return theme.Incorrect
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
