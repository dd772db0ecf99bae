// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extract turns a routed domain prompt into a structured action
// descriptor. Each domain gets a focused system prompt demanding strict
// JSON; the calendar domain additionally degrades to a deterministic
// parser so scheduling keeps working without an LLM. Extractors never
// guess at missing mandatory fields; they report them instead.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/observability"
	"github.com/AleutianAI/AleutianDesk/services/llm"
)

type Extractor struct {
	llm     llm.Client
	metrics *observability.PipelineMetrics
	now     func() time.Time
}

func New(client llm.Client, metrics *observability.PipelineMetrics) *Extractor {
	return &Extractor{llm: client, metrics: metrics, now: time.Now}
}

// WithClock overrides the clock; tests use this to pin relative dates.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

const calendarSystemPrompt = `You extract calendar actions for a freelancer assistant.
Current date and time: %s.
Respond with ONLY a JSON object:
{
  "action": "create_event"|"create_task"|"reschedule"|"cancel"|"delete"|"suggest_times",
  "title": string or null,
  "start_time": "YYYY-MM-DDTHH:MM" or null,
  "end_time": "YYYY-MM-DDTHH:MM" or null,
  "deadline": "YYYY-MM-DDTHH:MM" or null,
  "priority": "low"|"medium"|"high"|"urgent" or null,
  "client_name": string or null,
  "event_id": string or null,
  "notes": string or null,
  "has_mandatory_fields": boolean,  // true only if every field required for the action was stated
  "has_optional_details": boolean   // true only if the user supplied optional details themselves
}
Resolve relative dates ("tomorrow", "next friday") against the current date.
Never invent times or titles the user did not state.`

type calendarWire struct {
	Action             string `json:"action"`
	Title              string `json:"title"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Deadline           string `json:"deadline"`
	Priority           string `json:"priority"`
	ClientName         string `json:"client_name"`
	EventID            string `json:"event_id"`
	Notes              string `json:"notes"`
	HasMandatoryFields bool   `json:"has_mandatory_fields"`
	HasOptionalDetails bool   `json:"has_optional_details"`
}

// Calendar extracts a calendar action. On any LLM failure, malformed
// response, or unknown action tag it falls back to the deterministic
// parser; the second return reports that the fallback ran.
func (e *Extractor) Calendar(ctx context.Context, fragment string) (datatypes.CalendarAction, bool) {
	now := e.now()
	system := fmt.Sprintf(calendarSystemPrompt, now.Format("Monday, 2006-01-02 15:04"))

	start := time.Now()
	raw, err := e.llm.CompleteJSON(ctx, system, fragment)
	if err != nil {
		e.observeLLM("extraction", "error", time.Since(start))
		e.countFallback("calendar")
		slog.Warn("calendar extraction fell back to deterministic parser", "error", err)
		return ParseCalendarFallback(fragment, now), true
	}
	e.observeLLM("extraction", "success", time.Since(start))

	var wire calendarWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		e.countFallback("calendar")
		slog.Warn("calendar extraction response malformed, using deterministic parser", "error", err)
		return ParseCalendarFallback(fragment, now), true
	}

	action := datatypes.CalendarAction{
		Action:             datatypes.CalendarActionType(wire.Action),
		Title:              wire.Title,
		StartTime:          parseWireTime(wire.StartTime, now.Location()),
		EndTime:            parseWireTime(wire.EndTime, now.Location()),
		Deadline:           parseWireTime(wire.Deadline, now.Location()),
		Priority:           wire.Priority,
		ClientName:         wire.ClientName,
		EventID:            wire.EventID,
		Notes:              wire.Notes,
		HasMandatoryFields: wire.HasMandatoryFields,
		HasOptionalDetails: wire.HasOptionalDetails,
	}
	if err := action.Validate(); err != nil {
		e.countFallback("calendar")
		slog.Warn("calendar extraction produced an unknown action tag, using deterministic parser",
			"action", wire.Action, "error", err)
		return ParseCalendarFallback(fragment, now), true
	}
	if action.Action == datatypes.CalendarCreateEvent && action.StartTime != nil && action.EndTime == nil {
		end := action.StartTime.Add(time.Hour)
		action.EndTime = &end
	}
	return action, false
}

const taskSystemPrompt = `You extract task creation requests for a freelancer assistant.
Current date: %s.
Respond with ONLY a JSON object:
{
  "title": string,                   // REQUIRED short task title
  "description": string or null,
  "priority": "low"|"medium"|"high"|"urgent" or null,
  "status": string or null,
  "deadline": "YYYY-MM-DDTHH:MM" or null,
  "project_name": string or null,
  "client_name": string or null,
  "has_optional_details": boolean    // true only if the user stated any of the optional fields
}
Resolve relative dates against the current date. Never invent details.`

type taskWire struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Priority           string `json:"priority"`
	Status             string `json:"status"`
	Deadline           string `json:"deadline"`
	ProjectName        string `json:"project_name"`
	ClientName         string `json:"client_name"`
	HasOptionalDetails bool   `json:"has_optional_details"`
}

func (e *Extractor) Task(ctx context.Context, fragment string) (datatypes.TaskAction, error) {
	now := e.now()
	raw, err := e.completeJSON(ctx, fmt.Sprintf(taskSystemPrompt, now.Format("2006-01-02")), fragment)
	if err != nil {
		return datatypes.TaskAction{}, err
	}
	var wire taskWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return datatypes.TaskAction{}, fmt.Errorf("task extraction returned malformed JSON: %w", err)
	}
	action := datatypes.TaskAction{
		Title:              wire.Title,
		Description:        wire.Description,
		Priority:           wire.Priority,
		Status:             wire.Status,
		Deadline:           parseWireTime(wire.Deadline, now.Location()),
		ProjectName:        wire.ProjectName,
		ClientName:         wire.ClientName,
		HasOptionalDetails: wire.HasOptionalDetails,
	}
	if err := action.Validate(); err != nil {
		return datatypes.TaskAction{}, fmt.Errorf("task extraction failed validation: %w", err)
	}
	return action, nil
}

const projectSystemPrompt = `You extract project creation requests.
Respond with ONLY a JSON object:
{
  "name": string,                    // REQUIRED project name
  "description": string or null,
  "status": string or null,
  "client_name": string or null,
  "due_date": "YYYY-MM-DD" or null,
  "has_optional_details": boolean
}
Never invent details the user did not state.`

func (e *Extractor) Project(ctx context.Context, fragment string) (datatypes.ProjectAction, error) {
	raw, err := e.completeJSON(ctx, projectSystemPrompt, fragment)
	if err != nil {
		return datatypes.ProjectAction{}, err
	}
	var wire struct {
		Name               string `json:"name"`
		Description        string `json:"description"`
		Status             string `json:"status"`
		ClientName         string `json:"client_name"`
		DueDate            string `json:"due_date"`
		HasOptionalDetails bool   `json:"has_optional_details"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return datatypes.ProjectAction{}, fmt.Errorf("project extraction returned malformed JSON: %w", err)
	}
	return datatypes.ProjectAction{
		Name:               wire.Name,
		Description:        wire.Description,
		Status:             wire.Status,
		ClientName:         wire.ClientName,
		DueDate:            parseWireTime(wire.DueDate, e.now().Location()),
		HasOptionalDetails: wire.HasOptionalDetails,
	}, nil
}

const clientSystemPrompt = `You extract client (customer) creation requests.
Respond with ONLY a JSON object:
{
  "first_name": string or null,
  "last_name": string or null,
  "phone": string or null,
  "email": string or null,
  "company": string or null,
  "address": string or null,
  "has_optional_details": boolean
}
first_name, last_name, and phone are mandatory for creation but you must
emit null for anything the user did not state; never fabricate contact data.`

func (e *Extractor) Client(ctx context.Context, fragment string) (datatypes.ClientAction, error) {
	raw, err := e.completeJSON(ctx, clientSystemPrompt, fragment)
	if err != nil {
		return datatypes.ClientAction{}, err
	}
	var action datatypes.ClientAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return datatypes.ClientAction{}, fmt.Errorf("client extraction returned malformed JSON: %w", err)
	}
	return action, nil
}

const bookingSystemPrompt = `You extract appointment booking requests.
Current date: %s.
Respond with ONLY a JSON object:
{
  "date": "YYYY-MM-DD" or null,     // mandatory for creation
  "time": "HH:MM" or null,          // mandatory for creation
  "duration_minutes": number or null,
  "service": string or null,
  "client_name": string or null,
  "status": string or null,
  "notes": string or null,
  "has_optional_details": boolean
}
Resolve relative dates against the current date. Emit null for anything
not stated.`

func (e *Extractor) Booking(ctx context.Context, fragment string) (datatypes.BookingAction, error) {
	raw, err := e.completeJSON(ctx, fmt.Sprintf(bookingSystemPrompt, e.now().Format("2006-01-02")), fragment)
	if err != nil {
		return datatypes.BookingAction{}, err
	}
	var action datatypes.BookingAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return datatypes.BookingAction{}, fmt.Errorf("booking extraction returned malformed JSON: %w", err)
	}
	return action, nil
}

const settingsSystemPrompt = `You extract settings changes for a freelancer assistant.
Respond with ONLY a flat JSON object mapping setting keys to new string values.
Known keys: "language", "theme", "status", "notifications", "working_hours",
"auto_reply". Use full language names as spoken by the user (e.g. "Spanish");
normalization happens downstream. Emit only the keys the user asked to change.`

func (e *Extractor) Settings(ctx context.Context, fragment string) (datatypes.SettingsPatch, error) {
	raw, err := e.completeJSON(ctx, settingsSystemPrompt, fragment)
	if err != nil {
		return nil, err
	}
	var patch datatypes.SettingsPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, fmt.Errorf("settings extraction returned malformed JSON: %w", err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("settings extraction found no changes to apply")
	}
	return patch, nil
}

func (e *Extractor) completeJSON(ctx context.Context, system, user string) ([]byte, error) {
	start := time.Now()
	raw, err := e.llm.CompleteJSON(ctx, system, user)
	if err != nil {
		e.observeLLM("extraction", "error", time.Since(start))
		return nil, err
	}
	e.observeLLM("extraction", "success", time.Since(start))
	return raw, nil
}

func (e *Extractor) countFallback(domain string) {
	if e.metrics != nil {
		e.metrics.FallbackTotal.WithLabelValues("extraction", domain).Inc()
	}
}

func (e *Extractor) observeLLM(purpose, status string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.LLMLatencySeconds.WithLabelValues(purpose, status).Observe(d.Seconds())
	}
}

// parseWireTime accepts the handful of timestamp shapes models actually
// emit. Returns nil for empty or unparseable input.
func parseWireTime(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}
