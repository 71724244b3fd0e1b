package assessment

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// DefaultWarningCutoff is used when Options.WarningCutoff is zero.
const DefaultWarningCutoff = 3

// Options configures a new Session.
type Options struct {
	// TimeLimit is truncated to whole seconds and must be at least one second.
	TimeLimit time.Duration
	// WarningCutoff is the focus-loss count that ends the session.
	// Zero selects DefaultWarningCutoff.
	WarningCutoff int
	// AttemptID identifies the report. A random UUID is used when empty.
	AttemptID string
	TestType  string
	Sink      Sink
	// Now overrides the wall clock used for report timestamps.
	Now func() time.Time
}

// Session is the timed assessment state machine. It is not safe for
// concurrent use: the host must serialize every call, which a bubbletea
// Update loop does naturally.
type Session struct {
	questions []Question
	index     map[string]int
	answers   map[string]int

	current   int
	remaining int
	limit     int
	warnings  int
	cutoff    int

	reason Reason
	report *Report

	attemptID string
	testType  string
	sink      Sink
	now       func() time.Time
	startedAt time.Time
}

// New validates the question set and options and starts a session at the
// first question with the full time budget.
func New(questions []Question, opts Options) (*Session, error) {
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	limit := int(opts.TimeLimit / time.Second)
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTimeLimit, opts.TimeLimit)
	}
	cutoff := opts.WarningCutoff
	if cutoff == 0 {
		cutoff = DefaultWarningCutoff
	}
	if cutoff < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCutoff, cutoff)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	id := opts.AttemptID
	if id == "" {
		id = uuid.NewString()
	}

	qs := append([]Question(nil), questions...)
	index := make(map[string]int, len(qs))
	for i, q := range qs {
		qs[i].Options = append([]string(nil), q.Options...)
		index[q.ID] = i
	}

	return &Session{
		questions: qs,
		index:     index,
		answers:   make(map[string]int, len(qs)),
		remaining: limit,
		limit:     limit,
		cutoff:    cutoff,
		attemptID: id,
		testType:  opts.TestType,
		sink:      opts.Sink,
		now:       now,
		startedAt: now(),
	}, nil
}

// ID returns the attempt id carried into the report.
func (s *Session) ID() string { return s.attemptID }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Question returns the question at index i.
func (s *Session) Question(i int) (Question, error) {
	if i < 0 || i >= len(s.questions) {
		return Question{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return s.questions[i], nil
}

// Current returns the current index and question.
func (s *Session) Current() (int, Question) {
	return s.current, s.questions[s.current]
}

// Selected returns the recorded option for a question id, if any.
func (s *Session) Selected(id string) (int, bool) {
	opt, ok := s.answers[id]
	return opt, ok
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() map[string]int { return maps.Clone(s.answers) }

// Active reports whether the session still accepts input.
func (s *Session) Active() bool { return s.report == nil }

// Remaining returns the time left.
func (s *Session) Remaining() time.Duration {
	return time.Duration(s.remaining) * time.Second
}

// Snapshot returns the current mutable state.
func (s *Session) Snapshot() Snapshot {
	phase := PhaseActive
	if s.report != nil {
		phase = PhaseTerminated
	}
	return Snapshot{
		Phase:            phase,
		Current:          s.current,
		RemainingSeconds: s.remaining,
		Warnings:         s.warnings,
		Cutoff:           s.cutoff,
		Answered:         len(s.answers),
		Total:            len(s.questions),
		Reason:           s.reason,
	}
}

// SelectAnswer records option for the question id, replacing any earlier
// choice. Correctness is not evaluated until submission.
func (s *Session) SelectAnswer(id string, option int) error {
	if s.report != nil {
		return ErrTerminated
	}
	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if option < 0 || option >= OptionCount {
		return fmt.Errorf("%w: %d", ErrOptionOutOfRange, option)
	}
	s.answers[id] = option
	return nil
}

// Navigate moves one question in dir and returns the resulting index.
// Moves past either end leave the index unchanged.
func (s *Session) Navigate(dir Direction) int {
	if s.report != nil {
		return s.current
	}
	next := s.current
	switch {
	case dir < 0:
		next--
	case dir > 0:
		next++
	}
	if next >= 0 && next < len(s.questions) {
		s.current = next
	}
	return s.current
}

// JumpTo makes index i current.
func (s *Session) JumpTo(i int) error {
	if s.report != nil {
		return ErrTerminated
	}
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	s.current = i
	return nil
}

// RegisterFocusLoss counts one focus-loss warning. It returns true when this
// warning reached the cutoff and ended the session.
func (s *Session) RegisterFocusLoss() bool {
	if s.report != nil {
		return false
	}
	s.warnings++
	if s.warnings >= s.cutoff {
		s.finalize(ReasonWarningsExceeded)
		return true
	}
	return false
}

// Tick consumes one second. It returns true when the budget ran out on this
// tick and ended the session.
func (s *Session) Tick() bool {
	if s.report != nil {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.finalize(ReasonTimeExpired)
		return true
	}
	return false
}

// Submit ends the session with reason and returns the report. Once the
// session has ended, Submit returns the existing report unchanged.
// An unset or unknown reason is treated as ReasonSubmitted.
func (s *Session) Submit(reason Reason) Report {
	if s.report == nil {
		if !reason.Valid() {
			reason = ReasonSubmitted
		}
		s.finalize(reason)
	}
	return s.report.Clone()
}

// Report returns the finalized report, if the session has ended.
func (s *Session) Report() (Report, bool) {
	if s.report == nil {
		return Report{}, false
	}
	return s.report.Clone(), true
}

func (s *Session) finalize(reason Reason) {
	finished := s.now()
	r := Report{
		AttemptID:  s.attemptID,
		TestType:   s.testType,
		Reason:     reason,
		Answers:    maps.Clone(s.answers),
		Warnings:   s.warnings,
		TimeLimit:  time.Duration(s.limit) * time.Second,
		TimeUsed:   time.Duration(s.limit-s.remaining) * time.Second,
		StartedAt:  s.startedAt,
		FinishedAt: finished,
		Result:     Score(s.questions, s.answers),
	}
	s.reason = reason
	s.report = &r
	if s.sink != nil {
		s.sink.Deliver(r.Clone())
	}
}
