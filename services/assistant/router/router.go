// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package router classifies a free-text command into zero or more domain
// prompts. The LLM does the classification when available; a keyword
// scanner produces an equivalent result when it is not. Routing never
// fails outright: the worst outcome is a clarification request.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/observability"
	"github.com/AleutianAI/AleutianDesk/services/llm"
)

const routingSystemPrompt = `You are the intent router for a freelancer operations assistant.
Classify the user's message into domain prompts. Respond with ONLY a JSON object of this shape:
{
  "settings_prompt": string or null,      // portion about user settings/preferences/language/theme
  "calendar_prompt": string or null,      // portion about events, meetings, scheduling, cancelling
  "task_prompt": string or null,          // portion about tasks/todos
  "project_prompt": string or null,       // portion about projects
  "client_prompt": string or null,        // portion about clients/customers/contacts
  "booking_prompt": string or null,       // portion about external appointment bookings
  "message_prompt": string or null,       // portion asking to draft/auto-respond to a message
  "clarification_prompt": string or null, // a question for the user if the intent is unclear
  "missing_fields": [string],             // names of details you could not determine
  "conversation_context": string          // REQUIRED one-sentence summary of what the user wants
}
A message may populate several domain prompts at once. Rewrite each prompt as a
self-contained instruction. If prior context is supplied, resolve references
("it", "that meeting") against it. Never invent details the user did not give.`

// routingWire mirrors the nullable JSON the model emits.
type routingWire struct {
	SettingsPrompt      *string  `json:"settings_prompt"`
	CalendarPrompt      *string  `json:"calendar_prompt"`
	TaskPrompt          *string  `json:"task_prompt"`
	ProjectPrompt       *string  `json:"project_prompt"`
	ClientPrompt        *string  `json:"client_prompt"`
	BookingPrompt       *string  `json:"booking_prompt"`
	MessagePrompt       *string  `json:"message_prompt"`
	ClarificationPrompt *string  `json:"clarification_prompt"`
	MissingFields       []string `json:"missing_fields"`
	ConversationContext string   `json:"conversation_context"`
}

type Router struct {
	llm     llm.Client
	metrics *observability.PipelineMetrics
}

func New(client llm.Client, metrics *observability.PipelineMetrics) *Router {
	return &Router{llm: client, metrics: metrics}
}

// Route classifies message. LLM failures are swallowed: the keyword
// fallback takes over, the degradation is logged and counted, and the
// caller always gets a usable result.
func (r *Router) Route(ctx context.Context, message, priorContext string) datatypes.RoutingResult {
	userPrompt := message
	if priorContext != "" {
		userPrompt = "Prior context: " + priorContext + "\n\nMessage: " + message
	}

	start := time.Now()
	raw, err := r.llm.CompleteJSON(ctx, routingSystemPrompt, userPrompt)
	if err != nil {
		r.observeLLM("routing", "error", time.Since(start))
		slog.Warn("intent routing fell back to keyword matching", "error", err)
		r.countFallback("routing", "all")
		return fallbackRoute(message)
	}
	r.observeLLM("routing", "success", time.Since(start))

	var wire routingWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		slog.Warn("intent routing response was malformed, using keyword fallback", "error", err)
		r.countFallback("routing", "all")
		return fallbackRoute(message)
	}

	result := datatypes.RoutingResult{
		SettingsPrompt:      deref(wire.SettingsPrompt),
		CalendarPrompt:      deref(wire.CalendarPrompt),
		TaskPrompt:          deref(wire.TaskPrompt),
		ProjectPrompt:       deref(wire.ProjectPrompt),
		ClientPrompt:        deref(wire.ClientPrompt),
		BookingPrompt:       deref(wire.BookingPrompt),
		MessagePrompt:       deref(wire.MessagePrompt),
		ClarificationPrompt: deref(wire.ClarificationPrompt),
		MissingFields:       wire.MissingFields,
		ConversationContext: wire.ConversationContext,
	}
	if result.ConversationContext == "" {
		result.ConversationContext = "User asked: " + message
	}
	// The router must never return an empty, ambiguous success.
	if !result.HasDomainPrompts() && result.ClarificationPrompt == "" {
		result.ClarificationPrompt = "I wasn't sure what you'd like to do. Could you give me a bit more detail?"
		result.MissingFields = []string{"request_type"}
	}
	return result
}

func (r *Router) countFallback(stage, domain string) {
	if r.metrics != nil {
		r.metrics.FallbackTotal.WithLabelValues(stage, domain).Inc()
	}
}

func (r *Router) observeLLM(purpose, status string, d time.Duration) {
	if r.metrics != nil {
		r.metrics.LLMLatencySeconds.WithLabelValues(purpose, status).Observe(d.Seconds())
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
