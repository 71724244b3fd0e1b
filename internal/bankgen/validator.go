package bankgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillcheck/internal/assessment"
)

// Validator checks a raw generated batch.
type Validator interface {
	Name() string
	Validate(qs []questionOutput, input Input) *ValidationError
}

// ValidationError describes why a batch was rejected.
type ValidationError struct {
	Validator string
	Index     int // question position, -1 for the whole batch
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}

const maxPromptLen = 500

// StructuralValidator checks prompt length, option count and distinctness,
// and the answer index.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []questionOutput, _ Input) *ValidationError {
	fail := func(i int, format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Index: i, Message: fmt.Sprintf(format, args...)}
	}
	for i, q := range qs {
		prompt := strings.TrimSpace(q.Prompt)
		if prompt == "" {
			return fail(i, "prompt is empty")
		}
		if len(prompt) > maxPromptLen {
			return fail(i, "prompt exceeds %d characters", maxPromptLen)
		}
		if len(q.Options) != assessment.OptionCount {
			return fail(i, "has %d options, want %d", len(q.Options), assessment.OptionCount)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if key == "" {
				return fail(i, "has an empty option")
			}
			if seen[key] {
				return fail(i, "repeats option %q", o)
			}
			seen[key] = true
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= assessment.OptionCount {
			return fail(i, "answer_index %d out of range", q.AnswerIndex)
		}
	}
	return nil
}

// DuplicateValidator rejects prompts repeated within the batch or taken from
// Input.Avoid. Comparison ignores case and surrounding whitespace.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(qs []questionOutput, input Input) *ValidationError {
	seen := make(map[string]bool, len(qs)+len(input.Avoid))
	for _, p := range input.Avoid {
		seen[normalizePrompt(p)] = true
	}
	for i, q := range qs {
		key := normalizePrompt(q.Prompt)
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Index: i, Message: "prompt already used"}
		}
		seen[key] = true
	}
	return nil
}

func normalizePrompt(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}
