package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/store"
)

type fakeEventRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return f.err
}

func (f *fakeEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func TestLoggingRecordsSuccess(t *testing.T) {
	repo := &fakeEventRepo{}
	var buf bytes.Buffer
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"answer": 0}`),
		Usage:   Usage{InputTokens: 40, OutputTokens: 9},
	})

	p := WithLogging(mock, ProviderMock, repo, zerolog.New(&buf)).(*LoggingProvider)
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}

	req := UserPrompt("sys", "question")
	req.Schema = answerSchema
	ctx := WithPurpose(context.Background(), "bank-generation")
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "bank-generation", ev.Purpose)
	assert.Equal(t, 40, ev.InputTokens)
	assert.EqualValues(t, 250, ev.LatencyMs)
	assert.True(t, ev.Success)
	assert.Contains(t, ev.RequestBody, "[system]\nsys")
	assert.Contains(t, ev.RequestBody, "[user]\nquestion")
	assert.Contains(t, ev.RequestBody, "[schema: test-answer]")
	assert.JSONEq(t, `{"answer": 0}`, ev.ResponseBody)

	assert.Contains(t, buf.String(), `"message":"llm request"`)
	assert.Contains(t, buf.String(), `"purpose":"bank-generation"`)
}

func TestLoggingRecordsFailure(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	p := WithLogging(mock, ProviderMock, repo, zerolog.Nop())

	_, err := p.Generate(context.Background(), UserPrompt("", "x"))
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Contains(t, repo.events[0].ErrorMessage, "rate limited")
	assert.Equal(t, "unknown", repo.events[0].Purpose)
}

func TestLoggingIgnoresRepoFailures(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)})
	p := WithLogging(mock, ProviderMock, repo, zerolog.Nop())

	resp, err := p.Generate(context.Background(), UserPrompt("", "x"))
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(resp.Content))
}

func TestLoggingNilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)})
	p := WithLogging(mock, ProviderMock, nil, zerolog.Nop())

	_, err := p.Generate(context.Background(), UserPrompt("", "x"))
	assert.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}
