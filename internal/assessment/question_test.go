package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Question) []Question
		wantErr error
		wantIdx int
	}{
		{name: "valid", mutate: func(q []Question) []Question { return q }},
		{name: "empty", mutate: func([]Question) []Question { return nil }, wantErr: ErrNoQuestions, wantIdx: -1},
		{
			name:    "missing id",
			mutate:  func(q []Question) []Question { q[1].ID = ""; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 1,
		},
		{
			name:    "missing prompt",
			mutate:  func(q []Question) []Question { q[0].Prompt = ""; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 0,
		},
		{
			name:    "three options",
			mutate:  func(q []Question) []Question { q[2].Options = q[2].Options[:3]; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 2,
		},
		{
			name:    "blank option",
			mutate:  func(q []Question) []Question { q[0].Options[3] = ""; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 0,
		},
		{
			name:    "answer out of range",
			mutate:  func(q []Question) []Question { q[1].Answer = 4; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 1,
		},
		{
			name:    "negative answer",
			mutate:  func(q []Question) []Question { q[1].Answer = -1; return q },
			wantErr: ErrInvalidQuestion, wantIdx: 1,
		},
		{
			name:    "duplicate id",
			mutate:  func(q []Question) []Question { q[2].ID = q[0].ID; return q },
			wantErr: ErrDuplicateQuestion, wantIdx: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestions(tt.mutate(makeQuestions(3)))
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantIdx >= 0 {
				var qe *QuestionError
				require.True(t, errors.As(err, &qe))
				assert.Equal(t, tt.wantIdx, qe.Index)
			}
		})
	}
}
