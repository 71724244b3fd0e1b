package bankgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice questions for screening internship candidates.

Rules:
- Every question has exactly 4 options and exactly one correct option.
- Distractors should reflect common misconceptions, not obviously wrong filler.
- Do not use "all of the above" or "none of the above".
- Keep prompts self-contained, under 300 characters, and free of markdown.
- Vary the position of the correct option across the batch.
- Do not repeat any question from the "avoid" list.`

func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(input.Topic))
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)
	b.WriteString("\nAvoid:\n")
	b.WriteString(buildAvoid(input.Avoid, cfg.MaxAvoid))
	return b.String()
}

// buildAvoid formats the most recent max prompts as a numbered list, or
// "None".
func buildAvoid(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
