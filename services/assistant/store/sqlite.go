// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ai_commands (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	user_prompt  TEXT NOT NULL,
	command_type TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ai_commands_user ON ai_commands(user_id, created_at);

CREATE TABLE IF NOT EXISTS ai_command_effects (
	id          TEXT PRIMARY KEY,
	command_id  TEXT NOT NULL REFERENCES ai_commands(id) ON DELETE CASCADE,
	effect_type TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id   TEXT,
	details     TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ai_command_effects_command ON ai_command_effects(command_id);
`

// SQLiteCommandLog persists the ai_commands / ai_command_effects tables.
// Effects cascade-delete with their parent command.
type SQLiteCommandLog struct {
	db *sql.DB
}

// OpenCommandLog opens (or creates) the command log database with
// production-safe defaults: WAL journal mode, a 5-second busy timeout,
// and enforced foreign keys for the cascade delete. The connection is
// pinged before use.
func OpenCommandLog(path string) (*SQLiteCommandLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s on %s: %w", pragma, path, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate command log %s: %w", path, err)
	}
	return &SQLiteCommandLog{db: db}, nil
}

func (l *SQLiteCommandLog) Close() error { return l.db.Close() }

func (l *SQLiteCommandLog) CreateCommand(ctx context.Context, rec datatypes.CommandRecord) (datatypes.CommandRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO ai_commands (id, user_id, user_prompt, command_type, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.UserPrompt, string(rec.CommandType), string(rec.Status), rec.CreatedAt)
	if err != nil {
		return datatypes.CommandRecord{}, fmt.Errorf("insert command: %w", err)
	}
	return rec, nil
}

func (l *SQLiteCommandLog) UpdateCommandStatus(ctx context.Context, id string, status datatypes.CommandStatus) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE ai_commands SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update command %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("command %s not found", id)
	}
	return nil
}

func (l *SQLiteCommandLog) RecordEffect(ctx context.Context, eff datatypes.CommandEffect) (datatypes.CommandEffect, error) {
	if eff.ID == "" {
		eff.ID = uuid.NewString()
	}
	if eff.CreatedAt.IsZero() {
		eff.CreatedAt = time.Now().UTC()
	}
	var targetID any
	if eff.TargetID != "" {
		targetID = eff.TargetID
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO ai_command_effects (id, command_id, effect_type, target_type, target_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		eff.ID, eff.CommandID, eff.EffectType, eff.TargetType, targetID, eff.Details, eff.CreatedAt)
	if err != nil {
		return datatypes.CommandEffect{}, fmt.Errorf("insert effect for command %s: %w", eff.CommandID, err)
	}
	return eff, nil
}

func (l *SQLiteCommandLog) ListCommands(ctx context.Context, userID string, limit int) ([]datatypes.CommandRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, user_id, user_prompt, command_type, status, created_at
		 FROM ai_commands WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list commands for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []datatypes.CommandRecord
	for rows.Next() {
		var rec datatypes.CommandRecord
		var cmdType, status string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.UserPrompt, &cmdType, &status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		rec.CommandType = datatypes.CommandType(cmdType)
		rec.Status = datatypes.CommandStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (l *SQLiteCommandLog) ListEffects(ctx context.Context, commandID string) ([]datatypes.CommandEffect, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, command_id, effect_type, target_type, target_id, details, created_at
		 FROM ai_command_effects WHERE command_id = ? ORDER BY created_at ASC`,
		commandID)
	if err != nil {
		return nil, fmt.Errorf("list effects for %s: %w", commandID, err)
	}
	defer rows.Close()

	var out []datatypes.CommandEffect
	for rows.Next() {
		var eff datatypes.CommandEffect
		var targetID, details sql.NullString
		if err := rows.Scan(&eff.ID, &eff.CommandID, &eff.EffectType, &eff.TargetType, &targetID, &details, &eff.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan effect: %w", err)
		}
		eff.TargetID = targetID.String
		eff.Details = details.String
		out = append(out, eff)
	}
	return out, rows.Err()
}
