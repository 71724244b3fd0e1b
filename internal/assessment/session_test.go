package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, n int, limit time.Duration, opts ...func(*Options)) *Session {
	t.Helper()
	o := Options{TimeLimit: limit, AttemptID: "attempt-1", TestType: "web", Now: fixedClock()}
	for _, fn := range opts {
		fn(&o)
	}
	s, err := New(makeQuestions(n), o)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t, 5, 90*time.Second)

	snap := s.Snapshot()
	assert.Equal(t, PhaseActive, snap.Phase)
	assert.Equal(t, 0, snap.Current)
	assert.Equal(t, 90, snap.RemainingSeconds)
	assert.Equal(t, 0, snap.Warnings)
	assert.Equal(t, DefaultWarningCutoff, snap.Cutoff)
	assert.Equal(t, 5, snap.Total)
	assert.Equal(t, ReasonNone, snap.Reason)
	assert.True(t, s.Active())
	assert.Equal(t, "attempt-1", s.ID())
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		qs      []Question
		opts    Options
		wantErr error
	}{
		{name: "no questions", qs: nil, opts: Options{TimeLimit: time.Minute}, wantErr: ErrNoQuestions},
		{name: "zero limit", qs: makeQuestions(1), opts: Options{}, wantErr: ErrInvalidTimeLimit},
		{name: "sub-second limit", qs: makeQuestions(1), opts: Options{TimeLimit: 500 * time.Millisecond}, wantErr: ErrInvalidTimeLimit},
		{name: "negative limit", qs: makeQuestions(1), opts: Options{TimeLimit: -time.Second}, wantErr: ErrInvalidTimeLimit},
		{name: "negative cutoff", qs: makeQuestions(1), opts: Options{TimeLimit: time.Minute, WarningCutoff: -1}, wantErr: ErrInvalidCutoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.qs, tt.opts)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCutoffBoundary(t *testing.T) {
	s, err := New(makeQuestions(1), Options{TimeLimit: time.Minute, WarningCutoff: 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultWarningCutoff, s.Snapshot().Cutoff)

	_, err = New(makeQuestions(1), Options{TimeLimit: time.Minute, WarningCutoff: -2})
	require.ErrorIs(t, err, ErrInvalidCutoff)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestNewGeneratesAttemptID(t *testing.T) {
	a, err := New(makeQuestions(1), Options{TimeLimit: time.Minute})
	require.NoError(t, err)
	b, err := New(makeQuestions(1), Options{TimeLimit: time.Minute})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewCopiesQuestions(t *testing.T) {
	qs := makeQuestions(2)
	s, err := New(qs, Options{TimeLimit: time.Minute})
	require.NoError(t, err)

	qs[0].Options[0] = "changed"
	qs[0].Answer = 3

	q, err := s.Question(0)
	require.NoError(t, err)
	assert.Equal(t, "a", q.Options[0])
	assert.Equal(t, 0, q.Answer)
}

func TestNavigateClampsToBounds(t *testing.T) {
	s := newSession(t, 3, time.Minute)

	assert.Equal(t, 0, s.Navigate(Previous))
	assert.Equal(t, 1, s.Navigate(Next))
	assert.Equal(t, 2, s.Navigate(Next))
	assert.Equal(t, 2, s.Navigate(Next))
	assert.Equal(t, 1, s.Navigate(Previous))

	// Arbitrary mixed sequences never leave [0, N-1].
	steps := []Direction{Next, Next, Next, Next, Previous, Previous, Previous, Previous, Next}
	for _, d := range steps {
		idx := s.Navigate(d)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, s.Len())
	}
}

func TestJumpTo(t *testing.T) {
	s := newSession(t, 4, time.Minute)

	require.NoError(t, s.JumpTo(3))
	idx, q := s.Current()
	assert.Equal(t, 3, idx)
	assert.Equal(t, "q4", q.ID)

	assert.ErrorIs(t, s.JumpTo(4), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.JumpTo(-1), ErrIndexOutOfRange)
	idx, _ = s.Current()
	assert.Equal(t, 3, idx, "rejected jump leaves index unchanged")

	require.NoError(t, s.JumpTo(0))
	assert.Equal(t, 0, s.Snapshot().Current)
}

func TestSelectAnswerOverwrites(t *testing.T) {
	s := newSession(t, 3, time.Minute)

	for _, opt := range []int{2, 0, 3, 1} {
		require.NoError(t, s.SelectAnswer("q2", opt))
	}
	got, ok := s.Selected("q2")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	require.NoError(t, s.SelectAnswer("q2", 1))
	assert.Equal(t, map[string]int{"q2": 1}, s.Answers())
	assert.Equal(t, 1, s.Snapshot().Answered)
}

func TestSelectAnswerRejectsBadInput(t *testing.T) {
	s := newSession(t, 3, time.Minute)

	assert.ErrorIs(t, s.SelectAnswer("nope", 0), ErrUnknownQuestion)
	assert.ErrorIs(t, s.SelectAnswer("q1", 4), ErrOptionOutOfRange)
	assert.ErrorIs(t, s.SelectAnswer("q1", -1), ErrOptionOutOfRange)
	assert.Empty(t, s.Answers())
}

func TestAnswersReturnsCopy(t *testing.T) {
	s := newSession(t, 2, time.Minute)
	require.NoError(t, s.SelectAnswer("q1", 0))

	m := s.Answers()
	m["q1"] = 3
	m["q2"] = 1

	assert.Equal(t, map[string]int{"q1": 0}, s.Answers())
}

func TestFocusLossBelowCutoff(t *testing.T) {
	for _, cutoff := range []int{1, 2, 3, 5} {
		s := newSession(t, 2, time.Minute, func(o *Options) { o.WarningCutoff = cutoff })

		for i := 0; i < cutoff-1; i++ {
			assert.False(t, s.RegisterFocusLoss())
		}
		assert.True(t, s.Active(), "cutoff %d", cutoff)
		assert.Equal(t, cutoff-1, s.Snapshot().Warnings)

		assert.True(t, s.RegisterFocusLoss())
		assert.False(t, s.Active())
		assert.Equal(t, ReasonWarningsExceeded, s.Snapshot().Reason)
		assert.Equal(t, cutoff, s.Snapshot().Warnings)

		// Further events do not count.
		assert.False(t, s.RegisterFocusLoss())
		assert.Equal(t, cutoff, s.Snapshot().Warnings)
	}
}

func TestTickStopsAtZero(t *testing.T) {
	s := newSession(t, 2, 3*time.Second)

	assert.False(t, s.Tick())
	assert.False(t, s.Tick())
	assert.Equal(t, time.Second, s.Remaining())
	assert.True(t, s.Tick())

	assert.Equal(t, 0, s.Snapshot().RemainingSeconds)
	assert.Equal(t, ReasonTimeExpired, s.Snapshot().Reason)

	for range 5 {
		assert.False(t, s.Tick())
	}
	assert.Equal(t, 0, s.Snapshot().RemainingSeconds)
}

func TestSubmitIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	s := newSession(t, 3, 10*time.Second, func(o *Options) { o.Sink = sink })
	require.NoError(t, s.SelectAnswer("q1", 0))
	s.RegisterFocusLoss()

	first := s.Submit(ReasonSubmitted)
	second := s.Submit(ReasonSubmitted)
	assert.Equal(t, first, second)

	// Automatic triggers after the fact change nothing.
	assert.False(t, s.RegisterFocusLoss())
	assert.False(t, s.RegisterFocusLoss())
	for range 20 {
		s.Tick()
	}
	third := s.Submit(ReasonTimeExpired)
	assert.Equal(t, first, third)
	assert.Equal(t, ReasonSubmitted, third.Reason)
	assert.Equal(t, 1, third.Warnings)

	require.Len(t, sink.reports, 1)
	assert.Equal(t, first, sink.reports[0])
}

func TestSubmitAfterAutomaticTermination(t *testing.T) {
	sink := &recordingSink{}
	s := newSession(t, 2, time.Second, func(o *Options) { o.Sink = sink })

	require.True(t, s.Tick())
	rep := s.Submit(ReasonSubmitted)
	assert.Equal(t, ReasonTimeExpired, rep.Reason)
	assert.Len(t, sink.reports, 1)
}

func TestSubmitDefaultsReason(t *testing.T) {
	s := newSession(t, 1, time.Minute)
	rep := s.Submit(ReasonNone)
	assert.Equal(t, ReasonSubmitted, rep.Reason)
}

func TestTerminatedSessionRejectsMutation(t *testing.T) {
	s := newSession(t, 3, time.Minute)
	require.NoError(t, s.SelectAnswer("q1", 2))
	require.NoError(t, s.JumpTo(1))
	s.Submit(ReasonSubmitted)

	assert.ErrorIs(t, s.SelectAnswer("q1", 0), ErrTerminated)
	assert.ErrorIs(t, s.JumpTo(2), ErrTerminated)
	assert.Equal(t, 1, s.Navigate(Next))
	assert.Equal(t, map[string]int{"q1": 2}, s.Answers())
	assert.Equal(t, 60, s.Snapshot().RemainingSeconds)
}

func TestReportIsDetached(t *testing.T) {
	s := newSession(t, 2, time.Minute)
	require.NoError(t, s.SelectAnswer("q1", 0))
	rep := s.Submit(ReasonSubmitted)

	rep.Answers["q1"] = 3
	rep.Questions[0].Correct = false

	again, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, 0, again.Answers["q1"])
	assert.True(t, again.Questions[0].Correct)
}

func TestReportBeforeTermination(t *testing.T) {
	s := newSession(t, 2, time.Minute)
	_, ok := s.Report()
	assert.False(t, ok)
}

func TestScenarioExplicitSubmit(t *testing.T) {
	qs := []Question{
		{ID: "q1", Prompt: "p1", Options: []string{"a", "b", "c", "d"}, Answer: 0},
		{ID: "q2", Prompt: "p2", Options: []string{"a", "b", "c", "d"}, Answer: 2},
		{ID: "q3", Prompt: "p3", Options: []string{"a", "b", "c", "d"}, Answer: 3},
	}
	sink := &recordingSink{}
	s, err := New(qs, Options{TimeLimit: 60 * time.Second, Sink: sink, Now: fixedClock()})
	require.NoError(t, err)

	require.NoError(t, s.SelectAnswer("q1", 0))
	require.NoError(t, s.SelectAnswer("q2", 1))
	for range 7 {
		s.Tick()
	}
	rep := s.Submit(ReasonSubmitted)

	assert.Equal(t, ReasonSubmitted, rep.Reason)
	assert.Equal(t, map[string]int{"q1": 0, "q2": 1}, rep.Answers)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 2, rep.Answered)
	assert.Equal(t, 1, rep.Correct)
	assert.Equal(t, 33, rep.Percent)
	assert.True(t, rep.Questions[0].Correct)
	assert.False(t, rep.Questions[1].Correct)
	assert.False(t, rep.Questions[2].Answered())
	assert.Equal(t, time.Minute, rep.TimeLimit)
	assert.Equal(t, 7*time.Second, rep.TimeUsed)
	assert.Equal(t, fixedTime, rep.FinishedAt)
	require.Len(t, sink.reports, 1)
}

func TestScenarioTimeExpired(t *testing.T) {
	sink := &recordingSink{}
	s := newSession(t, 5, 5*time.Second, func(o *Options) { o.Sink = sink })

	for i := 1; i <= 4; i++ {
		assert.False(t, s.Tick(), "tick %d", i)
	}
	assert.True(t, s.Tick())

	rep, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, ReasonTimeExpired, rep.Reason)
	assert.Empty(t, rep.Answers)
	assert.Equal(t, 0, rep.Percent)
	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, 5*time.Second, rep.TimeUsed)
	assert.NotEmpty(t, rep.Reason.Message())
	require.Len(t, sink.reports, 1)
}

func TestScenarioWarningsExceeded(t *testing.T) {
	s := newSession(t, 25, 30*time.Minute, func(o *Options) { o.WarningCutoff = 3 })
	require.NoError(t, s.SelectAnswer("q1", 0))
	s.Tick()

	assert.False(t, s.RegisterFocusLoss())
	assert.False(t, s.RegisterFocusLoss())
	assert.True(t, s.RegisterFocusLoss())

	rep, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, ReasonWarningsExceeded, rep.Reason)
	assert.Equal(t, 3, rep.Warnings)
	assert.Equal(t, 1, rep.Correct)
	assert.Equal(t, 4, rep.Percent)
	assert.Equal(t, 30*time.Minute-time.Second, rep.TimeLimit-rep.TimeUsed)
}
