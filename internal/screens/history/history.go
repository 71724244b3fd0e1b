// Package history lists previous attempts from the results log.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/report"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Attempts []store.Attempt
	Stats    []store.TestTypeStats
	Err      error
}

// HistoryScreen displays past attempts, newest first.
type HistoryScreen struct {
	attempts store.AttemptRepo
	titles   map[string]string
	rows     []store.Attempt
	stats    []store.TestTypeStats
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. titles maps test type ids to display
// titles; unknown ids are shown as is.
func New(attempts store.AttemptRepo, titles map[string]string) *HistoryScreen {
	return &HistoryScreen{
		attempts: attempts,
		titles:   titles,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.attempts
	return func() tea.Msg {
		ctx := context.Background()

		rows, err := repo.List(ctx, store.QueryOpts{Limit: listLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := repo.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{Attempts: rows}
		}
		return historyLoadedMsg{Attempts: rows, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "v", Description: "Full report"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Attempts
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "v":
			if s.selected < len(s.rows) {
				a := s.rows[s.selected]
				rs := report.New(a.Report, nil, s.title(a.TestType), false)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: rs} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) title(testType string) string {
	if t, ok := s.titles[testType]; ok {
		return t
	}
	return testType
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading results...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Pick a test from the home screen.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, st := range s.stats {
		line := fmt.Sprintf("%s: %d attempts, best %d%%, average %.0f%%",
			s.title(st.TestType), st.Attempts, st.Best, st.Average)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(line)))
		b.WriteString("\n")
	}
	if len(s.stats) > 0 {
		b.WriteString("\n")
	}

	for i, a := range s.rows {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-22s %3d%%  %d/%d correct",
			prefix, a.FinishedAt.Local().Format("Jan 02, 2006 15:04"), clip(s.title(a.TestType), 22),
			a.Percent, a.Correct, a.Total)
		if a.Reason != core.ReasonSubmitted {
			line += "  (" + string(a.Reason) + ")"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(a) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func details(a store.Attempt) []string {
	out := []string{
		fmt.Sprintf("    attempt %s  ·  %d answered  ·  %d warnings", shortID(a.AttemptID), a.Answered, a.Warnings),
		fmt.Sprintf("    time used %s of %s", layout.FormatClock(int(a.TimeUsed/time.Second)), layout.FormatClock(int(a.TimeLimit/time.Second))),
	}
	if msg := a.Reason.Message(); msg != "" {
		out = append(out, "    "+msg)
	}
	return out
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
