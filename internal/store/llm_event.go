package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type llmEventRow struct {
	Sequence     int64  `sql:"sequence"`
	Timestamp    int64  `sql:"timestamp"`
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      bool   `sql:"success"`
	ErrorMessage string `sql:"error_message"`
	RequestBody  string `sql:"request_body"`
	ResponseBody string `sql:"response_body"`
}

type usageRow struct {
	Purpose      string `sql:"purpose"`
	Model        string `sql:"model"`
	Requests     int    `sql:"requests"`
	Failures     int    `sql:"failures"`
	InputTokens  int64  `sql:"input_tokens"`
	OutputTokens int64  `sql:"output_tokens"`
}

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	drv dialect.Driver
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}

	q, args := builder().Insert(llmRequestsTable).
		Set("sequence", seqNum).
		Set("timestamp", now().UnixNano()).
		Set("provider", data.Provider).
		Set("model", data.Model).
		Set("purpose", data.Purpose).
		Set("input_tokens", data.InputTokens).
		Set("output_tokens", data.OutputTokens).
		Set("latency_ms", data.LatencyMs).
		Set("success", data.Success).
		Set("error_message", data.ErrorMessage).
		Set("request_body", data.RequestBody).
		Set("response_body", data.ResponseBody).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := builder()
	sel := b.Select(
		"sequence", "timestamp", "provider", "model", "purpose",
		"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
		"request_body", "response_body",
	).
		From(b.Table(llmRequestsTable)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixNano()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var raw []llmEventRow
	if err := entsql.ScanSlice(rows, &raw); err != nil {
		return nil, fmt.Errorf("scan LLM events: %w", err)
	}
	out := make([]LLMRequestEvent, len(raw))
	for i, e := range raw {
		out[i] = LLMRequestEvent{
			Sequence:  e.Sequence,
			Timestamp: time.Unix(0, e.Timestamp).UTC(),
			LLMRequestEventData: LLMRequestEventData{
				Provider:     e.Provider,
				Model:        e.Model,
				Purpose:      e.Purpose,
				InputTokens:  e.InputTokens,
				OutputTokens: e.OutputTokens,
				LatencyMs:    e.LatencyMs,
				Success:      e.Success,
				ErrorMessage: e.ErrorMessage,
				RequestBody:  e.RequestBody,
				ResponseBody: e.ResponseBody,
			},
		}
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	b := builder()
	q, args := b.Select(
		"purpose", "model",
		entsql.As(entsql.Count("*"), "requests"),
		entsql.As("COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0)", "failures"),
		entsql.As("COALESCE(SUM(input_tokens), 0)", "input_tokens"),
		entsql.As("COALESCE(SUM(output_tokens), 0)", "output_tokens"),
	).
		From(b.Table(llmRequestsTable)).
		GroupBy("purpose", "model").
		OrderBy("purpose", "model").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var raw []usageRow
	if err := entsql.ScanSlice(rows, &raw); err != nil {
		return nil, fmt.Errorf("scan LLM usage: %w", err)
	}
	out := make([]LLMUsageStats, len(raw))
	for i, u := range raw {
		out[i] = LLMUsageStats(u)
	}
	return out, nil
}
