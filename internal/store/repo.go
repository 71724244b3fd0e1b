package store

import (
	"context"
	"time"

	"github.com/abhisek/skillcheck/internal/assessment"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	TestType string    // exact match, empty for all
	Limit    int       // max results (0 = unlimited)
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
}

// Attempt is a persisted report with its global sequence number.
type Attempt struct {
	Sequence int64
	assessment.Report
}

// TestTypeStats aggregates attempts of one test type.
type TestTypeStats struct {
	TestType string
	Attempts int
	Best     int
	Average  float64
	Last     time.Time
}

// AttemptRepo stores finalized assessment reports.
type AttemptRepo interface {
	// Save persists a finalized report. Saving the same attempt id twice fails.
	Save(ctx context.Context, r assessment.Report) error

	// Get returns the attempt whose id equals or uniquely starts with id.
	Get(ctx context.Context, id string) (*Attempt, error)

	// List returns attempts newest first.
	List(ctx context.Context, opts QueryOpts) ([]Attempt, error)

	// Stats aggregates attempts per test type, ordered by test type.
	Stats(ctx context.Context) ([]TestTypeStats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats totals LLM calls sharing a purpose.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int64
	OutputTokens int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events oldest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// LLMUsageByPurpose totals requests and tokens per purpose and model.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
}
