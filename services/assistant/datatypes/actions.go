// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CalendarActionType discriminates the calendar action union. Unknown
// tags are rejected during validation instead of falling through.
type CalendarActionType string

const (
	CalendarCreateEvent  CalendarActionType = "create_event"
	CalendarCreateTask   CalendarActionType = "create_task"
	CalendarReschedule   CalendarActionType = "reschedule"
	CalendarCancel       CalendarActionType = "cancel"
	CalendarDelete       CalendarActionType = "delete"
	CalendarSuggestTimes CalendarActionType = "suggest_times"
)

// CalendarAction is the structured result of calendar extraction.
type CalendarAction struct {
	Action     CalendarActionType `json:"action" validate:"required,oneof=create_event create_task reschedule cancel delete suggest_times"`
	Title      string             `json:"title,omitempty"`
	StartTime  *time.Time         `json:"start_time,omitempty"`
	EndTime    *time.Time         `json:"end_time,omitempty"`
	Deadline   *time.Time         `json:"deadline,omitempty"`
	Priority   string             `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	ClientName string             `json:"client_name,omitempty"`
	Status     string             `json:"status,omitempty"`
	EventID    string             `json:"event_id,omitempty"`
	Notes      string             `json:"notes,omitempty"`

	HasMandatoryFields bool `json:"has_mandatory_fields"`
	HasOptionalDetails bool `json:"has_optional_details"`
}

// MissingMandatory returns the human-readable names of mandatory fields
// absent for this action's variant. An empty slice means the action is
// executable.
func (a *CalendarAction) MissingMandatory() []string {
	var missing []string
	switch a.Action {
	case CalendarCreateEvent:
		if a.Title == "" {
			missing = append(missing, "title")
		}
		if a.StartTime == nil {
			missing = append(missing, "start time")
		}
		if a.EndTime == nil {
			missing = append(missing, "end time")
		}
	case CalendarCreateTask:
		if a.Title == "" {
			missing = append(missing, "title")
		}
	case CalendarReschedule:
		if a.EventID == "" {
			missing = append(missing, "event reference")
		}
		if a.StartTime == nil {
			missing = append(missing, "new start time")
		}
	case CalendarCancel, CalendarDelete:
		if a.EventID == "" && a.Title == "" {
			missing = append(missing, "event reference")
		}
	}
	return missing
}

func (a *CalendarAction) Validate() error { return validate.Struct(a) }

// TaskAction covers direct task-domain extraction (outside the calendar
// create_task path).
type TaskAction struct {
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Priority           string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Status             string     `json:"status,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	ProjectName        string     `json:"project_name,omitempty"`
	ClientName         string     `json:"client_name,omitempty"`
	HasOptionalDetails bool       `json:"has_optional_details"`
}

func (a *TaskAction) Validate() error { return validate.Struct(a) }

type ProjectAction struct {
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Status             string     `json:"status,omitempty"`
	ClientName         string     `json:"client_name,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	HasOptionalDetails bool       `json:"has_optional_details"`
}

type ClientAction struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Phone              string `json:"phone"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Company            string `json:"company,omitempty"`
	Address            string `json:"address,omitempty"`
	HasOptionalDetails bool   `json:"has_optional_details"`
}

func (a *ClientAction) Validate() error { return validate.Struct(a) }

type BookingAction struct {
	Date               string `json:"date"` // YYYY-MM-DD
	Time               string `json:"time"` // HH:MM
	DurationMinutes    int    `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Service            string `json:"service,omitempty"`
	ClientName         string `json:"client_name,omitempty"`
	Status             string `json:"status,omitempty"`
	Notes              string `json:"notes,omitempty"`
	HasOptionalDetails bool   `json:"has_optional_details"`
}

func (a *BookingAction) Validate() error { return validate.Struct(a) }

// SettingsPatch is a flat key-value settings change. Language values are
// normalized to ISO codes by the executor, never by the extractor, so
// both LLM and fallback paths converge on one representation.
type SettingsPatch map[string]string
