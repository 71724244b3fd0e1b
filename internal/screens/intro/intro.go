// Package intro shows the rules of a test type and starts the attempt.
package intro

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/bank"
	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	assessmentscreen "github.com/abhisek/skillcheck/internal/screens/assessment"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// Deps are handed through to the assessment screen.
type Deps struct {
	Attempts store.AttemptRepo
	Ticker   assessmentscreen.Ticker
	Log      zerolog.Logger
	Now      func() time.Time
}

// IntroScreen lists the rules and waits for the candidate to begin.
type IntroScreen struct {
	testType  config.TestType
	bankTitle string
	questions []core.Question
	deps      Deps
	err       error
	started   bool
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)

// Prepare loads the bank for tt, shuffling it when configured, and returns
// the intro screen for it.
func Prepare(tt config.TestType, deps Deps) (*IntroScreen, error) {
	b, err := bank.Resolve(tt.Bank)
	if err != nil {
		return nil, fmt.Errorf("load bank for %s: %w", tt.ID, err)
	}
	questions := b.Questions
	if tt.Shuffle {
		questions = b.Shuffled(rand.Uint64())
	}
	s := New(tt, questions, deps)
	s.bankTitle = b.Title
	return s, nil
}

// New creates an IntroScreen over an already loaded question set.
func New(tt config.TestType, questions []core.Question, deps Deps) *IntroScreen {
	return &IntroScreen{testType: tt, questions: questions, deps: deps}
}

func (s *IntroScreen) Init() tea.Cmd {
	return nil
}

func (s *IntroScreen) Title() string {
	return s.testType.Title
}

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" {
		return s, s.begin()
	}
	return s, nil
}

func (s *IntroScreen) begin() tea.Cmd {
	if s.started {
		return nil
	}
	next, err := assessmentscreen.New(s.questions, assessmentscreen.Deps{
		TestType: s.testType,
		Attempts: s.deps.Attempts,
		Ticker:   s.deps.Ticker,
		Log:      s.deps.Log,
		Now:      s.deps.Now,
	})
	if err != nil {
		s.err = err
		s.deps.Log.Error().Err(err).Str("test_type", s.testType.ID).Msg("start attempt")
		return nil
	}
	s.started = true
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *IntroScreen) View(width, height int) string {
	tt := s.testType
	cw := min(width-4, 72)

	rules := []string{
		fmt.Sprintf("%d multiple-choice questions, 4 options each.", len(s.questions)),
		fmt.Sprintf("You have %s. The test is submitted when time runs out.", humanDuration(tt.TimeLimit.Std())),
		"Move between questions freely and change answers until you submit.",
		"Unanswered questions count as incorrect.",
		fmt.Sprintf("Leaving the test window is recorded. After %d warnings the test is submitted.", tt.WarningCutoff),
	}
	var b strings.Builder
	for i, r := range rules {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", i+1, r)))
		if i < len(rules)-1 {
			b.WriteString("\n")
		}
	}

	sections := []string{theme.Title.Width(cw).Render(tt.Title)}
	if s.bankTitle != "" && s.bankTitle != tt.Title {
		sections = append(sections, theme.Subtitle.Width(cw).Render(s.bankTitle))
	}
	sections = append(sections,
		"",
		theme.Card.Width(cw).Render(b.String()),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, components.ButtonRow(0, "Begin test")),
	)
	if s.err != nil {
		sections = append(sections, "", theme.Incorrect.Render("Cannot start: "+s.err.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	}
	mins, secs := int(d/time.Minute), int(d%time.Minute/time.Second)
	if mins == 0 {
		return plural(secs, "second")
	}
	return plural(mins, "minute") + " " + plural(secs, "second")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
