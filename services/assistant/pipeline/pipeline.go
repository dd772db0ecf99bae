// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pipeline ties the command lifecycle together: create the
// record, route, extract and execute each populated domain in order,
// and update the conversation context. Domain branches run sequentially
// on purpose: a later branch's disambiguation may read state an earlier
// branch just wrote, so fan-out would be a correctness bug, not an
// optimization.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/AleutianDesk/services/assistant/contextstore"
	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/executor"
	"github.com/AleutianAI/AleutianDesk/services/assistant/extract"
	"github.com/AleutianAI/AleutianDesk/services/assistant/observability"
	"github.com/AleutianAI/AleutianDesk/services/assistant/router"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
)

// Response is the aggregated outcome of one command. A domain branch
// failure lands in its *_error field; the command as a whole still
// succeeds. Only a routing-stage failure marks the command itself as an
// error.
type Response struct {
	Status              string   `json:"status"` // "success" | "needs_clarification"
	ConversationContext string   `json:"conversation_context,omitempty"`
	Clarification       string   `json:"clarification,omitempty"`
	MissingFields       []string `json:"missing_fields,omitempty"`

	Settings *executor.Result `json:"settings,omitempty"`
	Calendar *executor.Result `json:"calendar,omitempty"`
	Task     *executor.Result `json:"task,omitempty"`
	Project  *executor.Result `json:"project,omitempty"`
	Client   *executor.Result `json:"client,omitempty"`
	Booking  *executor.Result `json:"booking,omitempty"`
	Message  *executor.Result `json:"message,omitempty"`

	SettingsError string `json:"settings_error,omitempty"`
	CalendarError string `json:"calendar_error,omitempty"`
	TaskError     string `json:"task_error,omitempty"`
	ProjectError  string `json:"project_error,omitempty"`
	ClientError   string `json:"client_error,omitempty"`
	BookingError  string `json:"booking_error,omitempty"`
	MessageError  string `json:"message_error,omitempty"`
}

type Service struct {
	router    *router.Router
	extractor *extract.Extractor
	executor  *executor.Executor
	log       store.CommandLog
	contexts  contextstore.Store
	metrics   *observability.PipelineMetrics
}

func New(rt *router.Router, ex *extract.Extractor, exec *executor.Executor,
	log store.CommandLog, contexts contextstore.Store, metrics *observability.PipelineMetrics) *Service {
	return &Service{
		router:    rt,
		extractor: ex,
		executor:  exec,
		log:       log,
		contexts:  contexts,
		metrics:   metrics,
	}
}

// Process handles one user message end to end. It returns an error only
// when the command record itself could not be created; everything after
// that point degrades into the response body.
func (s *Service) Process(ctx context.Context, userID, message, priorContext string) (Response, error) {
	cmdType := router.ClassifyCommandType(message)
	rec, err := s.log.CreateCommand(ctx, datatypes.CommandRecord{
		UserID:      userID,
		UserPrompt:  message,
		CommandType: cmdType,
		Status:      datatypes.CommandStatusSuccess,
	})
	if err != nil {
		return Response{}, fmt.Errorf("create command record: %w", err)
	}

	if priorContext == "" {
		if stored, ok := s.contexts.Get(userID); ok {
			priorContext = stored
		}
	}

	routing, routeErr := s.routeSafely(ctx, message, priorContext)
	if routeErr != nil {
		slog.Error("routing failed outright", "command_id", rec.ID, "error", routeErr)
		s.finalize(ctx, rec.ID, cmdType, datatypes.CommandStatusError)
		return Response{
			Status:        "needs_clarification",
			Clarification: "Something went wrong understanding that. Could you rephrase your request?",
			MissingFields: []string{"request_type"},
		}, nil
	}
	if routing.UsedFallback {
		slog.Info("command routed via keyword fallback", "command_id", rec.ID)
	}

	resp := Response{Status: "success", ConversationContext: routing.ConversationContext}

	if !routing.HasDomainPrompts() {
		resp.Status = "needs_clarification"
		resp.Clarification = routing.ClarificationPrompt
		resp.MissingFields = routing.MissingFields
		s.updateContext(userID, routing.ConversationContext)
		s.finalize(ctx, rec.ID, cmdType, datatypes.CommandStatusNeedsClarification)
		return resp, nil
	}

	// Sequential domain dispatch. Each branch captures its own failure.
	if routing.SettingsPrompt != "" || len(routing.SettingsResponse) > 0 {
		s.runSettings(ctx, userID, rec.ID, routing, &resp)
	}
	if routing.CalendarPrompt != "" {
		s.runCalendar(ctx, userID, rec.ID, routing.CalendarPrompt, &resp)
	}
	if routing.TaskPrompt != "" {
		s.runTask(ctx, userID, rec.ID, routing.TaskPrompt, &resp)
	}
	if routing.ProjectPrompt != "" {
		s.runProject(ctx, userID, rec.ID, routing.ProjectPrompt, &resp)
	}
	if routing.ClientPrompt != "" {
		s.runClient(ctx, userID, rec.ID, routing.ClientPrompt, &resp)
	}
	if routing.BookingPrompt != "" {
		s.runBooking(ctx, userID, rec.ID, routing.BookingPrompt, &resp)
	}
	if routing.MessagePrompt != "" {
		s.runMessage(ctx, userID, rec.ID, routing.MessagePrompt, &resp)
	}

	s.updateContext(userID, routing.ConversationContext)
	s.finalize(ctx, rec.ID, cmdType, datatypes.CommandStatusSuccess)
	return resp, nil
}

// routeSafely converts a router panic into an error. The router already
// swallows LLM failures; this guard only exists so a defect in routing
// marks the command record instead of crashing the request.
func (s *Service) routeSafely(ctx context.Context, message, priorContext string) (result datatypes.RoutingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("routing panic: %v", r)
		}
	}()
	result = s.router.Route(ctx, message, priorContext)
	return result, nil
}

func (s *Service) runSettings(ctx context.Context, userID, commandID string, routing datatypes.RoutingResult, resp *Response) {
	patch := datatypes.SettingsPatch(routing.SettingsResponse)
	if len(patch) == 0 {
		var err error
		patch, err = s.extractor.Settings(ctx, routing.SettingsPrompt)
		if err != nil {
			slog.Warn("settings branch failed", "command_id", commandID, "error", err)
			resp.SettingsError = "I couldn't work out which settings to change."
			return
		}
	}
	res, err := s.executor.ApplySettings(ctx, userID, commandID, patch)
	if err != nil {
		slog.Error("settings apply failed", "command_id", commandID, "error", err)
		resp.SettingsError = "I couldn't update your settings right now."
		return
	}
	resp.Settings = &res
}

func (s *Service) runCalendar(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	action, usedFallback := s.extractor.Calendar(ctx, prompt)
	if usedFallback {
		slog.Info("calendar extraction used deterministic parser", "command_id", commandID)
	}
	res, err := s.executor.ApplyCalendar(ctx, userID, commandID, action)
	if err != nil {
		slog.Error("calendar branch failed", "command_id", commandID, "error", err)
		resp.CalendarError = "I couldn't complete that calendar change."
		return
	}
	resp.Calendar = &res
}

func (s *Service) runTask(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	if executor.IsCountQuery(prompt) {
		res, err := s.executor.TaskSummary(ctx, userID)
		if err != nil {
			resp.TaskError = "I couldn't count your tasks right now."
			return
		}
		resp.Task = &res
		return
	}
	action, err := s.extractor.Task(ctx, prompt)
	if err != nil {
		slog.Warn("task extraction failed", "command_id", commandID, "error", err)
		resp.TaskError = "I couldn't work out the task details."
		return
	}
	res, err := s.executor.ApplyTask(ctx, userID, commandID, action)
	if err != nil {
		slog.Error("task apply failed", "command_id", commandID, "error", err)
		resp.TaskError = "I couldn't create that task."
		return
	}
	resp.Task = &res
}

func (s *Service) runProject(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	if executor.IsCountQuery(prompt) {
		res, err := s.executor.ProjectSummary(ctx, userID)
		if err != nil {
			resp.ProjectError = "I couldn't count your projects right now."
			return
		}
		resp.Project = &res
		return
	}
	action, err := s.extractor.Project(ctx, prompt)
	if err != nil {
		slog.Warn("project extraction failed", "command_id", commandID, "error", err)
		resp.ProjectError = "I couldn't work out the project details."
		return
	}
	res, err := s.executor.ApplyProject(ctx, userID, commandID, action)
	if err != nil {
		slog.Error("project apply failed", "command_id", commandID, "error", err)
		resp.ProjectError = "I couldn't create that project."
		return
	}
	resp.Project = &res
}

func (s *Service) runClient(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	if executor.IsCountQuery(prompt) {
		res, err := s.executor.ClientSummary(ctx, userID)
		if err != nil {
			resp.ClientError = "I couldn't count your clients right now."
			return
		}
		resp.Client = &res
		return
	}
	action, err := s.extractor.Client(ctx, prompt)
	if err != nil {
		slog.Warn("client extraction failed", "command_id", commandID, "error", err)
		resp.ClientError = "I couldn't work out the client details."
		return
	}
	res, err := s.executor.ApplyClient(ctx, userID, commandID, action)
	if err != nil {
		slog.Error("client apply failed", "command_id", commandID, "error", err)
		resp.ClientError = "I couldn't create that client."
		return
	}
	resp.Client = &res
}

func (s *Service) runBooking(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	if executor.IsCountQuery(prompt) {
		res, err := s.executor.BookingSummary(ctx, userID)
		if err != nil {
			resp.BookingError = "I couldn't count your bookings right now."
			return
		}
		resp.Booking = &res
		return
	}
	action, err := s.extractor.Booking(ctx, prompt)
	if err != nil {
		slog.Warn("booking extraction failed", "command_id", commandID, "error", err)
		resp.BookingError = "I couldn't work out the booking details."
		return
	}
	res, err := s.executor.ApplyBooking(ctx, userID, commandID, action)
	if err != nil {
		slog.Error("booking apply failed", "command_id", commandID, "error", err)
		resp.BookingError = "I couldn't create that booking."
		return
	}
	resp.Booking = &res
}

func (s *Service) runMessage(ctx context.Context, userID, commandID, prompt string, resp *Response) {
	res, err := s.executor.GenerateMessage(ctx, userID, commandID, prompt)
	if err != nil {
		slog.Warn("message branch failed", "command_id", commandID, "error", err)
		resp.MessageError = "I couldn't draft that message right now."
		return
	}
	resp.Message = &res
}

func (s *Service) updateContext(userID, summary string) {
	if summary != "" {
		s.contexts.Update(userID, summary)
	}
}

func (s *Service) finalize(ctx context.Context, commandID string, cmdType datatypes.CommandType, status datatypes.CommandStatus) {
	if err := s.log.UpdateCommandStatus(ctx, commandID, status); err != nil {
		slog.Error("could not finalize command record", "command_id", commandID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.CommandsTotal.WithLabelValues(string(cmdType), string(status)).Inc()
	}
}
