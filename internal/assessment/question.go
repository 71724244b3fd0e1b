package assessment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question is a single multiple-choice item. Questions are immutable once a
// session has been created from them.
type Question struct {
	ID      string   `yaml:"id" json:"id" validate:"required"`
	Prompt  string   `yaml:"prompt" json:"prompt" validate:"required"`
	Options []string `yaml:"options" json:"options" validate:"len=4,dive,required"`
	Answer  int      `yaml:"answer" json:"answer" validate:"min=0,max=3"`
}

// IsCorrect reports whether option is the question's correct index.
func (q Question) IsCorrect(option int) bool {
	return option == q.Answer
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateQuestions checks that qs is a non-empty, well-formed question set
// with unique ids. The first failure is returned as a *QuestionError.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]int, len(qs))
	for i, q := range qs {
		if err := validate.Struct(q); err != nil {
			return &QuestionError{Index: i, ID: q.ID, Err: fmt.Errorf("%w: %s", ErrInvalidQuestion, describe(err))}
		}
		if prev, dup := seen[q.ID]; dup {
			return &QuestionError{Index: i, ID: q.ID, Err: fmt.Errorf("%w: also at %d", ErrDuplicateQuestion, prev)}
		}
		seen[q.ID] = i
	}
	return nil
}

// describe flattens validator field errors into a short message.
func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s fails %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
