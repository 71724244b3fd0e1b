// Package assessment hosts a timed attempt in the terminal: it owns the
// runner, feeds it countdown ticks and focus-loss events, and hands the
// finalized report to the results screen.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/report"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

const saveTimeout = 10 * time.Second

// Deps carries what the screen needs besides the questions.
type Deps struct {
	TestType config.TestType
	Attempts store.AttemptRepo // nil disables persistence
	Ticker   Ticker            // nil means SecondTicker
	Log      zerolog.Logger
	Now      func() time.Time
}

// Screen is the attempt in progress.
type Screen struct {
	sess      *core.Session
	questions []core.Question
	testType  config.TestType
	attempts  store.AttemptRepo
	ticker    Ticker
	log       zerolog.Logger
	keys      keyMap

	tag    int
	closed bool

	cursor         int
	overview       bool
	overviewCursor int
	confirming     bool
	banner         string

	report   *core.Report
	finished bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
	_ screen.EscapeHandler   = (*Screen)(nil)
)

// New starts an attempt over questions. The countdown begins with Init.
func New(questions []core.Question, deps Deps) (*Screen, error) {
	s := &Screen{
		questions: questions,
		testType:  deps.TestType,
		attempts:  deps.Attempts,
		ticker:    deps.Ticker,
		log:       deps.Log,
		keys:      defaultKeys(),
		tag:       nextTag(),
	}
	if s.ticker == nil {
		s.ticker = SecondTicker{}
	}

	sess, err := core.New(questions, core.Options{
		TimeLimit:     deps.TestType.TimeLimit.Std(),
		WarningCutoff: deps.TestType.WarningCutoff,
		TestType:      deps.TestType.ID,
		Sink:          core.SinkFunc(func(r core.Report) { s.report = &r }),
		Now:           deps.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s attempt: %w", deps.TestType.ID, err)
	}
	s.sess = sess
	return s, nil
}

// Session exposes the runner, mainly for tests.
func (s *Screen) Session() *core.Session { return s.sess }

func (s *Screen) Init() tea.Cmd {
	snap := s.sess.Snapshot()
	s.log.Info().
		Str("attempt", s.sess.ID()).
		Str("test_type", s.testType.ID).
		Int("questions", snap.Total).
		Int("time_limit_s", snap.RemainingSeconds).
		Int("warning_cutoff", snap.Cutoff).
		Msg("attempt started")
	return s.ticker.Next(s.tag)
}

func (s *Screen) Title() string {
	return s.testType.Title
}

func (s *Screen) Status() string {
	snap := s.sess.Snapshot()
	return fmt.Sprintf("⏱ %s   ⚠ %d/%d", layout.FormatClock(snap.RemainingSeconds), snap.Warnings, snap.Cutoff)
}

func (s *Screen) HandlesEscape() bool { return true }

// Close stops the countdown. Ticks already in flight are dropped by tag.
func (s *Screen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.sess.Active() {
		s.log.Warn().Str("attempt", s.sess.ID()).Msg("attempt abandoned before submission")
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep going"},
		}
	case s.overview:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Go to question"},
			{Key: "o", Description: "Close"},
		}
	}
	var hints []layout.KeyHint
	for _, b := range s.keys.shortHelp() {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)
	case tea.BlurMsg:
		return s.handleBlur()
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.tag != s.tag || s.closed || !s.sess.Active() {
		return s, nil
	}
	if s.sess.Tick() {
		return s, s.finish()
	}
	return s, s.ticker.Next(s.tag)
}

func (s *Screen) handleBlur() (screen.Screen, tea.Cmd) {
	if s.closed || !s.sess.Active() {
		return s, nil
	}
	terminated := s.sess.RegisterFocusLoss()
	snap := s.sess.Snapshot()
	s.log.Warn().
		Str("attempt", s.sess.ID()).
		Int("warnings", snap.Warnings).
		Int("cutoff", snap.Cutoff).
		Msg("focus loss registered")
	if terminated {
		return s, s.finish()
	}
	s.banner = fmt.Sprintf("Warning %d of %d: you left the test window. At %d the test is submitted automatically.",
		snap.Warnings, snap.Cutoff, snap.Cutoff)
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if !s.sess.Active() {
		return s, nil
	}
	switch {
	case s.confirming:
		return s.handleConfirmKey(msg)
	case s.overview:
		return s.handleOverviewKey(msg)
	}

	if i := s.keys.optionIndex(msg); i >= 0 {
		s.cursor = i
		s.choose(i)
		return s, nil
	}

	switch {
	case keyMatches(msg, s.keys.Up):
		s.cursor = max(s.cursor-1, 0)
	case keyMatches(msg, s.keys.Down):
		s.cursor = min(s.cursor+1, core.OptionCount-1)
	case keyMatches(msg, s.keys.Choose):
		s.choose(s.cursor)
	case keyMatches(msg, s.keys.Prev):
		s.move(core.Previous)
	case keyMatches(msg, s.keys.Next):
		s.move(core.Next)
	case keyMatches(msg, s.keys.Overview):
		s.overview = true
		s.overviewCursor = s.sess.Snapshot().Current
	case keyMatches(msg, s.keys.Submit), keyMatches(msg, s.keys.Back):
		s.confirming = true
	}
	return s, nil
}

func (s *Screen) handleConfirmKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case keyMatches(msg, s.keys.Yes):
		s.confirming = false
		s.sess.Submit(core.ReasonSubmitted)
		return s, s.finish()
	case keyMatches(msg, s.keys.No):
		s.confirming = false
	}
	return s, nil
}

func (s *Screen) handleOverviewKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case keyMatches(msg, s.keys.Up):
		s.overviewCursor = max(s.overviewCursor-1, 0)
	case keyMatches(msg, s.keys.Down):
		s.overviewCursor = min(s.overviewCursor+1, s.sess.Len()-1)
	case keyMatches(msg, s.keys.Choose):
		if err := s.sess.JumpTo(s.overviewCursor); err == nil {
			s.overview = false
			s.syncCursor()
		}
	case keyMatches(msg, s.keys.Overview), keyMatches(msg, s.keys.Back):
		s.overview = false
	}
	return s, nil
}

func (s *Screen) choose(option int) {
	_, q := s.sess.Current()
	if err := s.sess.SelectAnswer(q.ID, option); err != nil && !errors.Is(err, core.ErrTerminated) {
		s.log.Error().Err(err).Str("question", q.ID).Msg("select answer")
	}
}

func (s *Screen) move(dir core.Direction) {
	s.sess.Navigate(dir)
	s.syncCursor()
}

// syncCursor puts the option cursor on the recorded answer, if any.
func (s *Screen) syncCursor() {
	_, q := s.sess.Current()
	if sel, ok := s.sess.Selected(q.ID); ok {
		s.cursor = sel
		return
	}
	s.cursor = 0
}

// finish runs once, after the runner has delivered its report: it stops the
// countdown, swaps in the results screen and then saves the attempt.
func (s *Screen) finish() tea.Cmd {
	if s.finished || s.report == nil {
		return nil
	}
	s.finished = true
	s.overview, s.confirming = false, false
	r := *s.report

	s.log.Info().
		Str("attempt", r.AttemptID).
		Str("reason", string(r.Reason)).
		Int("percent", r.Percent).
		Int("correct", r.Correct).
		Int("answered", r.Answered).
		Int("warnings", r.Warnings).
		Dur("time_used", r.TimeUsed).
		Msg("attempt finished")

	results := report.New(r.Clone(), s.questions, s.testType.Title, s.attempts != nil)
	return tea.Sequence(
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: results} },
		s.persist(r),
	)
}

func (s *Screen) persist(r core.Report) tea.Cmd {
	repo, log := s.attempts, s.log
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		err := repo.Save(ctx, r)
		if err != nil {
			log.Error().Err(err).Str("attempt", r.AttemptID).Msg("persist attempt")
		}
		return report.SavedMsg{AttemptID: r.AttemptID, Err: err}
	}
}
