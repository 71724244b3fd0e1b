package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when a session is created without questions.
	ErrNoQuestions = errors.New("question set is empty")
	// ErrInvalidQuestion indicates a malformed question (missing text, wrong option count, bad answer index).
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrDuplicateQuestion indicates two questions share an id.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrInvalidTimeLimit is returned for a time limit shorter than one second.
	ErrInvalidTimeLimit = errors.New("time limit must be at least one second")
	// ErrInvalidCutoff is returned for a negative warning cutoff.
	ErrInvalidCutoff = errors.New("warning cutoff must not be negative")
	// ErrUnknownQuestion indicates a question id that is not part of the session.
	ErrUnknownQuestion = errors.New("unknown question id")
	// ErrOptionOutOfRange indicates an option index outside [0, OptionCount).
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrIndexOutOfRange indicates a question index outside [0, N).
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrTerminated is returned by mutating calls once the session has ended.
	ErrTerminated = errors.New("session already terminated")
)

// QuestionError reports which question in a set failed validation.
type QuestionError struct {
	Index int
	ID    string
	Err   error
}

func (e *QuestionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("question %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("question %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *QuestionError) Unwrap() error { return e.Err }
