// Package bankgen drafts multiple-choice question banks with an LLM.
package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/bank"
	"github.com/abhisek/skillcheck/internal/llm"
)

// Purpose labels bank generation calls in the llm_requests log.
const Purpose = "bank-generation"

// MaxCount bounds the number of questions requested in one call.
const MaxCount = 50

// ErrInvalidInput is returned for an empty topic or out-of-range count.
var ErrInvalidInput = errors.New("invalid generation input")

// Input describes the bank to draft.
type Input struct {
	Topic string
	// Title defaults to Topic.
	Title string
	Count int
	// Avoid lists prompts the new questions must not repeat.
	Avoid []string
}

// Generator drafts a bank for a topic.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

type questionOutput struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Generate asks the provider for input.Count questions and returns them as a
// validated bank whose question ids are "<topic-slug>-NN".
func (g *Generator) Generate(ctx context.Context, input Input) (*bank.Bank, error) {
	id := Slug(input.Topic)
	if id == "" {
		return nil, fmt.Errorf("%w: topic is empty", ErrInvalidInput)
	}
	if input.Count < 1 || input.Count > MaxCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidInput, MaxCount, input.Count)
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)}},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(raw.Questions) < input.Count {
		return nil, &ValidationError{
			Validator: "count",
			Index:     -1,
			Message:   fmt.Sprintf("asked for %d questions, got %d", input.Count, len(raw.Questions)),
		}
	}
	raw.Questions = raw.Questions[:input.Count]

	for _, v := range g.config.Validators {
		if verr := v.Validate(raw.Questions, input); verr != nil {
			return nil, verr
		}
	}

	title := input.Title
	if title == "" {
		title = strings.TrimSpace(input.Topic)
	}
	b := &bank.Bank{
		ID:            id,
		Title:         title,
		SchemaVersion: bank.SchemaVersion,
		Questions:     make([]assessment.Question, len(raw.Questions)),
	}
	for i, q := range raw.Questions {
		b.Questions[i] = assessment.Question{
			ID:      fmt.Sprintf("%s-%02d", id, i+1),
			Prompt:  strings.TrimSpace(q.Prompt),
			Options: trimAll(q.Options),
			Answer:  q.AnswerIndex,
		}
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("generated bank: %w", err)
	}
	return b, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with hyphens.
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
