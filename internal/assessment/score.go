package assessment

// Unanswered is the Selected value of a result with no recorded answer.
const Unanswered = -1

// QuestionResult is the outcome for one question.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Selected   int    `json:"selected"`
	Answer     int    `json:"answer"`
	Correct    bool   `json:"correct"`
}

// Answered reports whether the candidate picked any option.
func (r QuestionResult) Answered() bool { return r.Selected != Unanswered }

// Result is the scored outcome of an answer map against a question set.
type Result struct {
	Questions []QuestionResult `json:"questions"`
	Total     int              `json:"total"`
	Answered  int              `json:"answered"`
	Correct   int              `json:"correct"`
	Percent   int              `json:"percent"`
}

// Score grades answers against questions. Unanswered questions count as
// incorrect. Answers for ids outside the set are ignored.
func Score(questions []Question, answers map[string]int) Result {
	res := Result{
		Questions: make([]QuestionResult, len(questions)),
		Total:     len(questions),
	}
	for i, q := range questions {
		qr := QuestionResult{QuestionID: q.ID, Selected: Unanswered, Answer: q.Answer}
		if sel, ok := answers[q.ID]; ok {
			qr.Selected = sel
			qr.Correct = q.IsCorrect(sel)
			res.Answered++
		}
		if qr.Correct {
			res.Correct++
		}
		res.Questions[i] = qr
	}
	res.Percent = Percent(res.Correct, res.Total)
	return res
}

// Percent returns correct/total as an integer percentage, rounding half up.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
