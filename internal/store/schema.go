package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	attemptsTable    = "attempts"
	llmRequestsTable = "llm_requests"
	sequenceTable    = "global_sequence"
)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// DDL is plain SQL: ent's query builders cover DML only, table management
// lives in its codegen/Atlas tooling. Tables are append-only, so additive
// changes are the only kind allowed here.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL,
		test_type TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		total INTEGER NOT NULL,
		answered INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		percent INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		time_limit_secs INTEGER NOT NULL,
		time_used_secs INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		answers TEXT NOT NULL,
		results TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempts_test_type_finished ON attempts (test_type, finished_at)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_requests_sequence ON llm_requests (sequence)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
}

// migrate creates missing tables and indexes.
func migrate(ctx context.Context, drv dialect.ExecQuerier) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
