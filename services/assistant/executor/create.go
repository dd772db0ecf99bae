// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

const (
	defaultTaskPriority   = "medium"
	defaultTaskStatus     = "to_do"
	defaultProjectStatus  = "active"
	defaultBookingMinutes = 60
	defaultBookingService = "General appointment"
	defaultBookingStatus  = "confirmed"
)

// ApplyTask creates a task with the two-phase policy: title is the only
// mandatory field; everything else defaults unless the user supplied it.
func (e *Executor) ApplyTask(ctx context.Context, userID, commandID string, action datatypes.TaskAction) (Result, error) {
	var missing []string
	if strings.TrimSpace(action.Title) == "" {
		missing = append(missing, "title")
	}

	tp := twoPhase{
		entity:             "task",
		missingMandatory:   missing,
		hasOptionalDetails: action.HasOptionalDetails,
		optionalFields:     []string{"description", "priority", "deadline", "project or client link"},
	}
	return e.runTwoPhase(tp, func() (string, error) {
		task := datatypes.Task{
			UserID:   userID,
			Title:    action.Title,
			Priority: defaultTaskPriority,
			Status:   defaultTaskStatus,
		}
		if action.HasOptionalDetails {
			if action.Description != "" {
				task.Description = action.Description
			}
			if action.Priority != "" {
				task.Priority = action.Priority
			}
			if action.Status != "" {
				task.Status = action.Status
			}
			task.Deadline = action.Deadline
			if action.ClientName != "" {
				task.ClientID = e.resolveClientID(ctx, userID, action.ClientName)
			}
			if action.ProjectName != "" {
				task.ProjectID = e.resolveProjectID(ctx, userID, action.ProjectName)
			}
		}

		created, err := e.deps.Tasks.Create(ctx, task)
		if err != nil {
			return "", fmt.Errorf("create task: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "create_task", "task", created.ID, created); err != nil {
			return "", err
		}
		return created.Title, nil
	})
}

// ApplyProject creates a project; name is mandatory.
func (e *Executor) ApplyProject(ctx context.Context, userID, commandID string, action datatypes.ProjectAction) (Result, error) {
	var missing []string
	if strings.TrimSpace(action.Name) == "" {
		missing = append(missing, "project name")
	}

	tp := twoPhase{
		entity:             "project",
		missingMandatory:   missing,
		hasOptionalDetails: action.HasOptionalDetails,
		optionalFields:     []string{"description", "due date", "client link"},
	}
	return e.runTwoPhase(tp, func() (string, error) {
		project := datatypes.Project{
			UserID: userID,
			Name:   action.Name,
			Status: defaultProjectStatus,
		}
		if action.HasOptionalDetails {
			project.Description = action.Description
			if action.Status != "" {
				project.Status = action.Status
			}
			project.DueDate = action.DueDate
			if action.ClientName != "" {
				project.ClientID = e.resolveClientID(ctx, userID, action.ClientName)
			}
		}

		created, err := e.deps.Projects.Create(ctx, project)
		if err != nil {
			return "", fmt.Errorf("create project: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "create_project", "project", created.ID, created); err != nil {
			return "", err
		}
		return created.Name, nil
	})
}

// ApplyClient creates a client record. First name, last name, and phone
// are all mandatory; creation is refused, never defaulted, when any is
// missing.
func (e *Executor) ApplyClient(ctx context.Context, userID, commandID string, action datatypes.ClientAction) (Result, error) {
	var missing []string
	if strings.TrimSpace(action.FirstName) == "" {
		missing = append(missing, "first name")
	}
	if strings.TrimSpace(action.LastName) == "" {
		missing = append(missing, "last name")
	}
	if strings.TrimSpace(action.Phone) == "" {
		missing = append(missing, "phone number")
	}

	tp := twoPhase{
		entity:             "client",
		missingMandatory:   missing,
		hasOptionalDetails: action.HasOptionalDetails,
		optionalFields:     []string{"email address", "company", "address"},
	}
	return e.runTwoPhase(tp, func() (string, error) {
		client := datatypes.Client{
			UserID:    userID,
			FirstName: action.FirstName,
			LastName:  action.LastName,
			Phone:     action.Phone,
		}
		if action.HasOptionalDetails {
			client.Email = action.Email
			client.Company = action.Company
			client.Address = action.Address
		}

		created, err := e.deps.Clients.Create(ctx, client)
		if err != nil {
			return "", fmt.Errorf("create client: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "create_client", "client", created.ID, created); err != nil {
			return "", err
		}
		return created.FullName(), nil
	})
}

// ApplyBooking creates a booking. Date and time are mandatory; duration,
// service, and status default when no optional details were supplied.
// Client resolution tries a fuzzy match and otherwise leaves the booking
// unlinked; find-or-create is intentionally not transactional, so two
// simultaneous bookings for a brand-new client may race.
func (e *Executor) ApplyBooking(ctx context.Context, userID, commandID string, action datatypes.BookingAction) (Result, error) {
	var missing []string
	if strings.TrimSpace(action.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(action.Time) == "" {
		missing = append(missing, "time")
	}

	tp := twoPhase{
		entity:             "booking",
		missingMandatory:   missing,
		hasOptionalDetails: action.HasOptionalDetails,
		optionalFields:     []string{"service", "duration", "note"},
	}
	return e.runTwoPhase(tp, func() (string, error) {
		booking := datatypes.Booking{
			UserID:          userID,
			Date:            action.Date,
			Time:            action.Time,
			DurationMinutes: defaultBookingMinutes,
			Service:         defaultBookingService,
			Status:          defaultBookingStatus,
		}
		if action.HasOptionalDetails {
			if action.DurationMinutes > 0 {
				booking.DurationMinutes = action.DurationMinutes
			}
			if action.Service != "" {
				booking.Service = action.Service
			}
			if action.Status != "" {
				booking.Status = action.Status
			}
			booking.Notes = action.Notes
		}
		if action.ClientName != "" {
			booking.ClientID = e.resolveClientID(ctx, userID, action.ClientName)
		}

		created, err := e.deps.Bookings.Create(ctx, booking)
		if err != nil {
			return "", fmt.Errorf("create booking: %w", err)
		}
		if err := e.recordEffect(ctx, commandID, "create_booking", "booking", created.ID, created); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s on %s at %s", created.Service, created.Date, created.Time), nil
	})
}

// resolveClientID fuzzy-matches a name reference against existing
// clients. An unresolved reference yields an empty id, not an error.
func (e *Executor) resolveClientID(ctx context.Context, userID, name string) string {
	clients, err := e.deps.Clients.ListByUser(ctx, userID)
	if err != nil {
		return ""
	}
	if match, _, ok := MatchClient(clients, name); ok {
		return match.ID
	}
	return ""
}

// resolveProjectID matches a project by case-insensitive name.
func (e *Executor) resolveProjectID(ctx context.Context, userID, name string) string {
	projects, err := e.deps.Projects.ListByUser(ctx, userID)
	if err != nil {
		return ""
	}
	lowered := strings.ToLower(name)
	for _, p := range projects {
		if strings.ToLower(p.Name) == lowered {
			return p.ID
		}
	}
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), lowered) {
			return p.ID
		}
	}
	return ""
}
