package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/assessment"
)

var attemptColumns = []string{
	"id", "sequence", "test_type", "reason",
	"total", "answered", "correct", "percent", "warnings",
	"time_limit_secs", "time_used_secs", "started_at", "finished_at",
	"answers", "results",
}

// attemptRow mirrors the attempts table for entsql.ScanSlice.
type attemptRow struct {
	ID            string `sql:"id"`
	Sequence      int64  `sql:"sequence"`
	TestType      string `sql:"test_type"`
	Reason        string `sql:"reason"`
	Total         int    `sql:"total"`
	Answered      int    `sql:"answered"`
	Correct       int    `sql:"correct"`
	Percent       int    `sql:"percent"`
	Warnings      int    `sql:"warnings"`
	TimeLimitSecs int64  `sql:"time_limit_secs"`
	TimeUsedSecs  int64  `sql:"time_used_secs"`
	StartedAt     int64  `sql:"started_at"`
	FinishedAt    int64  `sql:"finished_at"`
	Answers       string `sql:"answers"`
	Results       string `sql:"results"`
}

func (r attemptRow) attempt() (Attempt, error) {
	a := Attempt{
		Sequence: r.Sequence,
		Report: assessment.Report{
			AttemptID:  r.ID,
			TestType:   r.TestType,
			Reason:     assessment.Reason(r.Reason),
			Warnings:   r.Warnings,
			TimeLimit:  time.Duration(r.TimeLimitSecs) * time.Second,
			TimeUsed:   time.Duration(r.TimeUsedSecs) * time.Second,
			StartedAt:  time.Unix(0, r.StartedAt).UTC(),
			FinishedAt: time.Unix(0, r.FinishedAt).UTC(),
			Result: assessment.Result{
				Total:    r.Total,
				Answered: r.Answered,
				Correct:  r.Correct,
				Percent:  r.Percent,
			},
		},
	}
	if err := json.Unmarshal([]byte(r.Answers), &a.Answers); err != nil {
		return Attempt{}, fmt.Errorf("decode answers of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Results), &a.Questions); err != nil {
		return Attempt{}, fmt.Errorf("decode results of %s: %w", r.ID, err)
	}
	return a, nil
}

type statsRow struct {
	TestType string  `sql:"test_type"`
	Attempts int     `sql:"attempts"`
	Best     int     `sql:"best"`
	Average  float64 `sql:"average"`
	Last     int64   `sql:"last"`
}

// attemptRepo implements AttemptRepo with ent's SQL builders.
type attemptRepo struct {
	drv dialect.Driver
	seq *sequenceCounter
}

func (r *attemptRepo) Save(ctx context.Context, rep assessment.Report) error {
	answers, err := json.Marshal(rep.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	results, err := json.Marshal(rep.Questions)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().Insert(attemptsTable).
		Columns(attemptColumns...).
		Values(
			rep.AttemptID, seqNum, rep.TestType, string(rep.Reason),
			rep.Total, rep.Answered, rep.Correct, rep.Percent, rep.Warnings,
			int64(rep.TimeLimit/time.Second), int64(rep.TimeUsed/time.Second),
			rep.StartedAt.UnixNano(), rep.FinishedAt.UnixNano(),
			string(answers), string(results),
		).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save attempt %s: %w", rep.AttemptID, err)
	}
	return nil
}

func (r *attemptRepo) Get(ctx context.Context, id string) (*Attempt, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	b := builder()
	sel := b.Select(attemptColumns...).
		From(b.Table(attemptsTable)).
		Where(entsql.HasPrefix("id", id)).
		OrderBy("id").
		Limit(2)

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(rows) > 1 && rows[0].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
	a, err := rows[0].attempt()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepo) List(ctx context.Context, opts QueryOpts) ([]Attempt, error) {
	b := builder()
	sel := b.Select(attemptColumns...).
		From(b.Table(attemptsTable)).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.TestType != "" {
		preds = append(preds, entsql.EQ("test_type", opts.TestType))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("finished_at", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("finished_at", opts.To.UnixNano()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	out := make([]Attempt, 0, len(rows))
	for _, row := range rows {
		a, err := row.attempt()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *attemptRepo) Stats(ctx context.Context) ([]TestTypeStats, error) {
	b := builder()
	q, args := b.Select(
		"test_type",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Max("percent"), "best"),
		entsql.As(entsql.Avg("percent"), "average"),
		entsql.As(entsql.Max("finished_at"), "last"),
	).
		From(b.Table(attemptsTable)).
		GroupBy("test_type").
		OrderBy("test_type").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var raw []statsRow
	if err := entsql.ScanSlice(rows, &raw); err != nil {
		return nil, fmt.Errorf("scan stats: %w", err)
	}
	out := make([]TestTypeStats, len(raw))
	for i, s := range raw {
		out[i] = TestTypeStats{
			TestType: s.TestType,
			Attempts: s.Attempts,
			Best:     s.Best,
			Average:  s.Average,
			Last:     time.Unix(0, s.Last).UTC(),
		}
	}
	return out, nil
}

func (r *attemptRepo) query(ctx context.Context, sel *entsql.Selector) ([]attemptRow, error) {
	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []attemptRow
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, fmt.Errorf("scan attempts: %w", err)
	}
	return out, nil
}
