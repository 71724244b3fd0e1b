package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{1, 200, 1},
		{1, 201, 0},
		{12, 25, 48},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}

func TestScore(t *testing.T) {
	qs := makeQuestions(4) // answers 0,1,2,3
	answers := map[string]int{
		"q1": 0, // correct
		"q2": 3, // wrong
		"q4": 3, // correct
		"zz": 1, // not in set
	}

	res := Score(qs, answers)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.Answered)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 50, res.Percent)
	assert.Len(t, res.Questions, 4)

	assert.True(t, res.Questions[0].Correct)
	assert.False(t, res.Questions[1].Correct)
	assert.Equal(t, 3, res.Questions[1].Selected)
	assert.False(t, res.Questions[2].Answered())
	assert.Equal(t, Unanswered, res.Questions[2].Selected)
	assert.False(t, res.Questions[2].Correct)
	assert.True(t, res.Questions[3].Correct)
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	qs := makeQuestions(2)
	answers := map[string]int{"q1": 0}
	_ = Score(qs, answers)
	assert.Equal(t, map[string]int{"q1": 0}, answers)
	assert.Equal(t, makeQuestions(2), qs)
}
