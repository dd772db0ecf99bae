// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package executor applies structured action descriptors against the
// domain collaborators and writes the effect audit trail. Validation
// problems and ambiguity are normal results, not errors; only
// collaborator failures surface as errors for the pipeline to fold into
// a per-domain error field.
package executor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/observability"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
	"github.com/AleutianAI/AleutianDesk/services/llm"
)

// StatusConflict marks a result where the request was understood but
// could not be applied unambiguously. No mutation happens on conflict.
const StatusConflict = "conflict"

// Result is the outcome of one domain branch.
type Result struct {
	Success       bool     `json:"success"`
	Status        string   `json:"status,omitempty"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Data          any      `json:"data,omitempty"`
}

// Deps collects the collaborators the executor mutates.
type Deps struct {
	Events   store.Events
	Tasks    store.Tasks
	Projects store.Projects
	Clients  store.Clients
	Bookings store.Bookings
	Settings store.Settings
	Log      store.CommandLog
	LLM      llm.Client
	Metrics  *observability.PipelineMetrics
}

type Executor struct {
	deps Deps
	now  func() time.Time
}

func New(deps Deps) *Executor {
	return &Executor{deps: deps, now: time.Now}
}

// WithClock overrides the clock; tests use this to pin the day
// free-slot lookups and summaries are computed for.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// recordEffect appends one audit row for a performed mutation. details
// is JSON-serialized; a serialization failure degrades to an empty
// payload rather than losing the row.
func (e *Executor) recordEffect(ctx context.Context, commandID, effectType, targetType, targetID string, details any) error {
	var payload string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			slog.Warn("could not serialize effect details", "effect_type", effectType, "error", err)
		} else {
			payload = string(b)
		}
	}
	_, err := e.deps.Log.RecordEffect(ctx, datatypes.CommandEffect{
		CommandID:  commandID,
		EffectType: effectType,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    payload,
	})
	if err != nil {
		return err
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.EffectsTotal.WithLabelValues(effectType).Inc()
	}
	return nil
}
