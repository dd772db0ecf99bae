// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the wire and storage types shared across the
// assistant service: command records, their effect audit trail, routing
// results, and the per-domain action descriptors the executor consumes.
package datatypes

import "time"

type CommandType string

const (
	CommandTypeGeneral      CommandType = "general"
	CommandTypeScheduling   CommandType = "scheduling"
	CommandTypeSettings     CommandType = "settings"
	CommandTypeAutoResponse CommandType = "autoresponse"
	CommandTypeUnified      CommandType = "unified"
)

type CommandStatus string

const (
	CommandStatusSuccess            CommandStatus = "success"
	CommandStatusNeedsClarification CommandStatus = "needs_clarification"
	CommandStatusError              CommandStatus = "error"
)

// CommandRecord represents one natural-language message processed by the
// pipeline. It is created before routing and finalized exactly once;
// records are never deleted programmatically.
type CommandRecord struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	UserPrompt  string        `json:"user_prompt"`
	CommandType CommandType   `json:"command_type"`
	Status      CommandStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CommandEffect is one row of the append-only audit trail. A command may
// produce zero, one, or many effects; effects cascade-delete with their
// parent command at the storage layer.
type CommandEffect struct {
	ID         string    `json:"id"`
	CommandID  string    `json:"command_id"`
	EffectType string    `json:"effect_type"` // e.g. "create_event", "update_settings", "delete_event", "error"
	TargetType string    `json:"target_type"` // e.g. "event", "settings", "task", "booking"
	TargetID   string    `json:"target_id,omitempty"`
	Details    string    `json:"details,omitempty"` // JSON-serialized change payload
	CreatedAt  time.Time `json:"created_at"`
}
