package assessment

import (
	"maps"
	"time"
)

// Report is the finalized, immutable outcome of a session.
type Report struct {
	AttemptID  string         `json:"attempt_id"`
	TestType   string         `json:"test_type"`
	Reason     Reason         `json:"reason"`
	Answers    map[string]int `json:"answers"`
	Warnings   int            `json:"warnings"`
	TimeLimit  time.Duration  `json:"time_limit"`
	TimeUsed   time.Duration  `json:"time_used"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Result
}

// Clone returns a deep copy so holders cannot alter each other's view.
func (r Report) Clone() Report {
	out := r
	out.Answers = maps.Clone(r.Answers)
	if out.Answers == nil {
		out.Answers = map[string]int{}
	}
	out.Questions = append([]QuestionResult(nil), r.Questions...)
	return out
}

// Sink receives the finalized report exactly once.
type Sink interface {
	Deliver(Report)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Report)

func (f SinkFunc) Deliver(r Report) { f(r) }
