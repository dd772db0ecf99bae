// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// The offline calendar parser. It keeps the scheduling path alive when no
// LLM is reachable, so it must stay deterministic: same input and clock,
// same descriptor.
//
// Date precedence: "today"/"tomorrow", then month-name + day, then MM/DD,
// then default tomorrow. Time precedence: H[:MM] am/pm, then bare 24-hour
// HH:MM, then a daypart word, then default 10:00. Events run one hour.

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var dayparts = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
	"night":     20,
}

var (
	monthDayPattern    = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})\b`)
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	amPmPattern        = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockPattern       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	meetingWithPattern = regexp.MustCompile(`meeting with ([a-z][a-z .'-]*)`)
	schedulePattern    = regexp.MustCompile(`schedule (?:an? )?([a-z][a-z .'-]*)`)
)

// Words that end a title phrase: date/time signals that follow the name.
var titleStopWords = map[string]bool{
	"today": true, "tomorrow": true, "at": true, "on": true, "next": true,
	"this": true, "in": true, "for": true, "from": true,
}

// ParseCalendarFallback builds a CalendarAction from raw text without an
// LLM. now anchors the relative-day arithmetic.
func ParseCalendarFallback(text string, now time.Time) datatypes.CalendarAction {
	lowered := strings.ToLower(text)

	action := fallbackActionType(lowered)
	title := fallbackTitle(lowered)

	if action == datatypes.CalendarCancel || action == datatypes.CalendarDelete {
		if title == "" {
			title = removalTitle(lowered)
		}
		return datatypes.CalendarAction{
			Action:             action,
			Title:              title,
			HasMandatoryFields: title != "",
		}
	}

	day := fallbackDate(lowered, now)
	hour, minute := fallbackTime(lowered)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	end := start.Add(time.Hour)

	if title == "" {
		title = "New Meeting"
	}
	return datatypes.CalendarAction{
		Action:             action,
		Title:              title,
		StartTime:          &start,
		EndTime:            &end,
		HasMandatoryFields: true,
	}
}

func fallbackActionType(lowered string) datatypes.CalendarActionType {
	switch {
	case strings.Contains(lowered, "delete"):
		return datatypes.CalendarDelete
	case strings.Contains(lowered, "cancel"):
		return datatypes.CalendarCancel
	case strings.Contains(lowered, "reschedule") || strings.Contains(lowered, "move "):
		return datatypes.CalendarReschedule
	case strings.Contains(lowered, "task") || strings.Contains(lowered, "todo"):
		return datatypes.CalendarCreateTask
	default:
		return datatypes.CalendarCreateEvent
	}
}

func fallbackDate(lowered string, now time.Time) time.Time {
	if strings.Contains(lowered, "today") {
		return now
	}
	if strings.Contains(lowered, "tomorrow") {
		return now.AddDate(0, 0, 1)
	}
	if m := monthDayPattern.FindStringSubmatch(lowered); m != nil {
		day, _ := strconv.Atoi(m[2])
		month := monthNames[m[1]]
		candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if candidate.Before(now.AddDate(0, 0, -1)) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate
	}
	if m := numericDatePattern.FindStringSubmatch(lowered); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
			if candidate.Before(now.AddDate(0, 0, -1)) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return candidate
		}
	}
	return now.AddDate(0, 0, 1)
}

func fallbackTime(lowered string) (hour, minute int) {
	if m := amPmPattern.FindStringSubmatch(lowered); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if m[3] == "pm" && hour < 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute
	}
	if m := clockPattern.FindStringSubmatch(lowered); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h <= 23 && mm <= 59 {
			return h, mm
		}
	}
	for word, h := range dayparts {
		if strings.Contains(lowered, word) {
			return h, 0
		}
	}
	return 10, 0
}

func fallbackTitle(lowered string) string {
	if m := meetingWithPattern.FindStringSubmatch(lowered); m != nil {
		name := trimTitlePhrase(m[1])
		if name != "" {
			return "Meeting with " + titleCase(name)
		}
	}
	if m := schedulePattern.FindStringSubmatch(lowered); m != nil {
		phrase := trimTitlePhrase(m[1])
		// "schedule a meeting with X" is already covered above; avoid the
		// bare word "meeting" as a title.
		if phrase != "" && phrase != "meeting" {
			return titleCase(phrase)
		}
	}
	return ""
}

var removalPattern = regexp.MustCompile(`(?:cancel|delete) (?:my |the )?([a-z][a-z .'-]*)`)

// removalTitle extracts the event reference from a cancel/delete request
// when no "meeting with X" phrase is present.
func removalTitle(lowered string) string {
	if m := removalPattern.FindStringSubmatch(lowered); m != nil {
		phrase := trimTitlePhrase(m[1])
		phrase = strings.TrimSuffix(phrase, " meeting")
		return phrase
	}
	return ""
}

// trimTitlePhrase cuts a captured phrase at the first date/time word.
func trimTitlePhrase(phrase string) string {
	words := strings.Fields(phrase)
	var kept []string
	for _, w := range words {
		if titleStopWords[w] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
