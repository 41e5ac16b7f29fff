package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables are created with plain DDL; queries go through the ent SQL builder.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		user_id    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence        INTEGER NOT NULL UNIQUE,
		timestamp       INTEGER NOT NULL,
		session_id      TEXT NOT NULL,
		question_id     INTEGER NOT NULL,
		selected_answer INTEGER NOT NULL,
		correct         INTEGER NOT NULL,
		time_ms         INTEGER NOT NULL,
		difficulty      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_session ON answer_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence           INTEGER NOT NULL UNIQUE,
		timestamp          INTEGER NOT NULL,
		session_id         TEXT NOT NULL,
		action             TEXT NOT NULL,
		questions_answered INTEGER NOT NULL,
		correct_answers    INTEGER NOT NULL,
		competence         INTEGER NOT NULL,
		fatigue            INTEGER NOT NULL,
		difficulty         TEXT NOT NULL,
		reason             TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms    INTEGER NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		session_id TEXT NOT NULL,
		timestamp  INTEGER NOT NULL,
		data       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS snapshots_user ON snapshots (user_id, timestamp)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
