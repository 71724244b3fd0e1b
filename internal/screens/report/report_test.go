package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/router"
)

func testReport() core.Report {
	return core.Report{
		AttemptID: "0b6f1c2e-attempt",
		TestType:  "web",
		Reason:    core.ReasonTimeExpired,
		Answers:   map[string]int{"q1": 1, "q2": 0},
		Warnings:  1,
		TimeLimit: 10 * time.Minute,
		TimeUsed:  10 * time.Minute,
		Result: core.Result{
			Questions: []core.QuestionResult{
				{QuestionID: "q1", Selected: 1, Answer: 1, Correct: true},
				{QuestionID: "q2", Selected: 0, Answer: 2},
				{QuestionID: "q3", Selected: core.Unanswered, Answer: 3},
			},
			Total:    3,
			Answered: 2,
			Correct:  1,
			Percent:  33,
		},
	}
}

func testQuestions() []core.Question {
	return []core.Question{
		{ID: "q1", Prompt: "Which tag links a stylesheet?", Options: []string{"a", "link", "style", "meta"}, Answer: 1},
		{ID: "q2", Prompt: "HTTP status for Not Found?", Options: []string{"200", "301", "404", "500"}, Answer: 2},
		{ID: "q3", Prompt: "Which method is idempotent?", Options: []string{"POST", "PATCH", "CONNECT", "PUT"}, Answer: 3},
	}
}

func TestReportScreen_Title(t *testing.T) {
	if got := New(testReport(), nil, "Web", false).Title(); got != "Web Results" {
		t.Errorf("Title = %q, want %q", got, "Web Results")
	}
	if got := New(testReport(), nil, "", false).Title(); got != "Results" {
		t.Errorf("Title = %q, want %q", got, "Results")
	}
}

func TestReportScreen_ViewShowsScoreAndReason(t *testing.T) {
	s := New(testReport(), testQuestions(), "Web", false)
	view := s.View(100, 40)

	for _, want := range []string{"33%", "1 of 3 correct", core.ReasonTimeExpired.Message(), "Which tag links", "Result not saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReportScreen_SubmittedHasNoBanner(t *testing.T) {
	r := testReport()
	r.Reason = core.ReasonSubmitted
	view := New(r, testQuestions(), "Web", false).View(100, 40)
	if strings.Contains(view, "submitted automatically") {
		t.Error("submitted report should not explain an automatic submission")
	}
}

func TestReportScreen_FallsBackToQuestionIDs(t *testing.T) {
	view := New(testReport(), nil, "Web", false).View(100, 40)
	if !strings.Contains(view, "q3") {
		t.Error("expected question id when prompts are unknown")
	}
}

func TestReportScreen_SaveLifecycle(t *testing.T) {
	s := New(testReport(), testQuestions(), "Web", true)
	if s.Init() == nil {
		t.Fatal("expected spinner tick while saving")
	}
	if !strings.Contains(s.View(100, 40), "Saving result") {
		t.Error("expected saving indicator")
	}

	s.Update(SavedMsg{AttemptID: "other"})
	if s.save != saving {
		t.Error("SavedMsg for another attempt should be ignored")
	}

	s.Update(SavedMsg{AttemptID: testReport().AttemptID})
	if !strings.Contains(s.View(100, 40), "Saved as 0b6f1c2e") {
		t.Error("expected saved confirmation")
	}
}

func TestReportScreen_SaveFailure(t *testing.T) {
	s := New(testReport(), testQuestions(), "Web", true)
	s.Update(SavedMsg{AttemptID: testReport().AttemptID, Err: errors.New("disk full")})
	view := s.View(100, 40)
	if !strings.Contains(view, "disk full") {
		t.Error("expected save error on screen")
	}
	if !strings.Contains(view, "33%") {
		t.Error("a failed save must not change the shown result")
	}
}

func TestReportScreen_Scroll(t *testing.T) {
	s := New(testReport(), testQuestions(), "Web", false)
	s.View(100, 14)
	s.tableRows = 1

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 2 {
		t.Errorf("offset = %d, want 2", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
}

func TestReportScreen_EnterAndEscPop(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		s := New(testReport(), nil, "Web", false)
		_, cmd := s.Update(key)
		if cmd == nil {
			t.Fatalf("expected a command for %s", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%s: expected PopScreenMsg", key.String())
		}
	}
}
