package assessment

import (
	"fmt"
	"time"
)

func makeQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Prompt:  fmt.Sprintf("Question %d?", i+1),
			Options: []string{"a", "b", "c", "d"},
			Answer:  i % OptionCount,
		}
	}
	return qs
}

var fixedTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return fixedTime }
}

type recordingSink struct {
	reports []Report
}

func (r *recordingSink) Deliver(rep Report) { r.reports = append(r.reports, rep) }
