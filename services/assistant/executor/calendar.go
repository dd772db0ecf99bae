// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
)

// ApplyCalendar dispatches one calendar action. Unknown tags are
// rejected; every mutating branch records exactly one effect.
func (e *Executor) ApplyCalendar(ctx context.Context, userID, commandID string, action datatypes.CalendarAction) (Result, error) {
	switch action.Action {
	case datatypes.CalendarCreateEvent:
		return e.createEvent(ctx, userID, commandID, action)
	case datatypes.CalendarCreateTask:
		return e.ApplyTask(ctx, userID, commandID, datatypes.TaskAction{
			Title:              action.Title,
			Priority:           action.Priority,
			Status:             action.Status,
			Deadline:           action.Deadline,
			ClientName:         action.ClientName,
			HasOptionalDetails: action.HasOptionalDetails,
		})
	case datatypes.CalendarReschedule:
		return e.rescheduleEvent(ctx, userID, commandID, action)
	case datatypes.CalendarCancel, datatypes.CalendarDelete:
		return e.removeEvent(ctx, userID, commandID, action)
	case datatypes.CalendarSuggestTimes:
		return e.suggestTimes(ctx, userID)
	default:
		return Result{}, fmt.Errorf("unknown calendar action %q", action.Action)
	}
}

func (e *Executor) createEvent(ctx context.Context, userID, commandID string, action datatypes.CalendarAction) (Result, error) {
	if missing := action.MissingMandatory(); len(missing) > 0 {
		return Result{
			Success:       false,
			MissingFields: missing,
			Message: fmt.Sprintf("I need a bit more to schedule this. Please provide: %s.",
				strings.Join(missing, ", ")),
		}, nil
	}

	ev := datatypes.Event{
		UserID:    userID,
		Title:     action.Title,
		StartTime: *action.StartTime,
		EndTime:   *action.EndTime,
		Notes:     action.Notes,
	}
	if action.ClientName != "" {
		if clients, err := e.deps.Clients.ListByUser(ctx, userID); err == nil {
			if match, _, ok := MatchClient(clients, action.ClientName); ok {
				ev.ClientID = match.ID
			}
		}
	}

	created, err := e.deps.Events.Create(ctx, ev)
	if err != nil {
		return Result{}, fmt.Errorf("create event: %w", err)
	}
	if err := e.recordEffect(ctx, commandID, "create_event", "event", created.ID, created); err != nil {
		return Result{}, err
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Created event: %s on %s", created.Title,
			created.StartTime.Format("Mon Jan 2 at 15:04")),
		Data: created,
	}, nil
}

func (e *Executor) rescheduleEvent(ctx context.Context, userID, commandID string, action datatypes.CalendarAction) (Result, error) {
	if missing := action.MissingMandatory(); len(missing) > 0 {
		return Result{
			Success:       false,
			MissingFields: missing,
			Message: fmt.Sprintf("To reschedule I need: %s.",
				strings.Join(missing, ", ")),
		}, nil
	}

	events, err := e.deps.Events.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list events: %w", err)
	}
	var target *datatypes.Event
	for i := range events {
		if events[i].ID == action.EventID {
			target = &events[i]
			break
		}
	}
	if target == nil {
		return Result{
			Success: false,
			Status:  StatusConflict,
			Message: "I couldn't find that event to reschedule.",
		}, nil
	}

	target.StartTime = *action.StartTime
	if action.EndTime != nil {
		target.EndTime = *action.EndTime
	} else {
		target.EndTime = target.StartTime.Add(time.Hour)
	}
	if action.Notes != "" {
		target.Notes = action.Notes
	}

	updated, err := e.deps.Events.Update(ctx, *target)
	if err != nil {
		return Result{}, fmt.Errorf("update event: %w", err)
	}
	if err := e.recordEffect(ctx, commandID, "update_event", "event", updated.ID, updated); err != nil {
		return Result{}, err
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Rescheduled %s to %s", updated.Title,
			updated.StartTime.Format("Mon Jan 2 at 15:04")),
		Data: updated,
	}, nil
}

// removeEvent deletes by id when one was given, otherwise resolves the
// title against the user's events. Multiple matches are a conflict; we
// never guess which event to delete.
func (e *Executor) removeEvent(ctx context.Context, userID, commandID string, action datatypes.CalendarAction) (Result, error) {
	if missing := action.MissingMandatory(); len(missing) > 0 {
		return Result{
			Success:       false,
			MissingFields: missing,
			Message: fmt.Sprintf("To cancel an event I need: %s.",
				strings.Join(missing, ", ")),
		}, nil
	}

	if action.EventID != "" {
		if err := e.deps.Events.Delete(ctx, action.EventID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return Result{
					Success: false,
					Status:  StatusConflict,
					Message: "I couldn't find that event.",
				}, nil
			}
			return Result{}, fmt.Errorf("delete event: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "delete_event", "event", action.EventID, nil); err != nil {
			return Result{}, err
		}
		return Result{Success: true, Message: "Event cancelled."}, nil
	}

	events, err := e.deps.Events.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list events: %w", err)
	}
	matches := matchEventsByTitle(events, action.Title)
	switch len(matches) {
	case 0:
		return Result{
			Success: false,
			Status:  StatusConflict,
			Message: fmt.Sprintf("I couldn't find an event matching %q.", action.Title),
		}, nil
	case 1:
		if err := e.deps.Events.Delete(ctx, matches[0].ID); err != nil {
			return Result{}, fmt.Errorf("delete event: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "delete_event", "event", matches[0].ID,
			map[string]string{"title": matches[0].Title}); err != nil {
			return Result{}, err
		}
		return Result{
			Success: true,
			Message: fmt.Sprintf("Cancelled %s.", matches[0].Title),
		}, nil
	default:
		titles := make([]string, len(matches))
		for i, m := range matches {
			titles[i] = fmt.Sprintf("%s (%s)", m.Title, m.StartTime.Format("Jan 2 15:04"))
		}
		return Result{
			Success: false,
			Status:  StatusConflict,
			Message: fmt.Sprintf("Several events match %q: %s. Which one should I cancel?",
				action.Title, strings.Join(titles, "; ")),
		}, nil
	}
}

// suggestTimes proposes the next free hourly slots during tomorrow's
// working hours. Read-only: no effect is recorded.
func (e *Executor) suggestTimes(ctx context.Context, userID string) (Result, error) {
	events, err := e.deps.Events.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list events: %w", err)
	}

	day := e.now().AddDate(0, 0, 1)
	var free []string
	for hour := 9; hour <= 17 && len(free) < 3; hour++ {
		slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
		if !slotTaken(events, slot) {
			free = append(free, slot.Format("Mon Jan 2 at 15:04"))
		}
	}
	if len(free) == 0 {
		return Result{Success: true, Message: "Tomorrow looks fully booked. Want me to check the day after?"}, nil
	}
	return Result{
		Success: true,
		Message: "You're free at: " + strings.Join(free, ", "),
		Data:    free,
	}, nil
}

func slotTaken(events []datatypes.Event, slot time.Time) bool {
	end := slot.Add(time.Hour)
	for _, ev := range events {
		if ev.StartTime.Before(end) && slot.Before(ev.EndTime) {
			return true
		}
	}
	return false
}
