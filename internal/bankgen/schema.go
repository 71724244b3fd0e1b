package bankgen

import (
	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/llm"
)

// BatchSchema is the response shape for a batch of questions. Every object
// lists all its properties as required and disallows extras so OpenAI strict
// mode accepts it.
var BatchSchema = &llm.Schema{
	Name:        "mcq-batch",
	Description: "A batch of multiple-choice assessment questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question text shown to the candidate, plain text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    assessment.OptionCount,
							"maxItems":    assessment.OptionCount,
							"description": "Exactly 4 answer options, one correct",
						},
						"answer_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     assessment.OptionCount - 1,
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences on why the answer is correct",
						},
					},
					"required":             []any{"prompt", "options", "answer_index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
