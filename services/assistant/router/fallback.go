// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package router

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// Keyword tables for the deterministic router. A message can match any
// number of domains; every matching prompt field is populated.
var domainKeywords = map[string][]string{
	"settings": {"settings", "preference", "preferences", "theme", "language", "notification", "working hours"},
	"calendar": {"schedule", "meeting", "calendar", "book", "cancel", "appointment", "reschedule", "event", "remind"},
	"task":     {"task", "todo", "to-do", "to do"},
	"project":  {"project"},
	"client":   {"client", "customer", "contact"},
	"booking":  {"booking", "bookings"},
	"message":  {"message", "reply", "auto", "away", "out of office", "respond"},
}

var (
	languageNames = datatypes.LanguageNames()

	// "switch from english to spanish" names two languages; the one
	// after "to" is the requested target.
	toLanguagePattern = regexp.MustCompile(`\bto\s+(` + strings.Join(languageNames, "|") + `)\b`)
	languagePatterns  = buildLanguagePatterns()
)

func buildLanguagePatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(languageNames))
	for _, name := range languageNames {
		out[name] = regexp.MustCompile(`\b` + name + `\b`)
	}
	return out
}

// DetectLanguageChange scans a lowercased message for a language name
// used in a change request and returns its ISO code. A name following
// "to" wins; otherwise names are tried in sorted order so the answer
// never depends on map iteration.
func DetectLanguageChange(lowered string) (string, bool) {
	if !strings.Contains(lowered, "language") &&
		!strings.Contains(lowered, "switch to") &&
		!strings.Contains(lowered, "change to") {
		return "", false
	}
	if m := toLanguagePattern.FindStringSubmatch(lowered); m != nil {
		code, _ := datatypes.LanguageCode(m[1])
		return code, true
	}
	for _, name := range languageNames {
		if languagePatterns[name].MatchString(lowered) {
			code, _ := datatypes.LanguageCode(name)
			return code, true
		}
	}
	return "", false
}

// fallbackRoute is the deterministic keyword router used when the LLM is
// unavailable or returned garbage. It never fails: either at least one
// domain prompt is populated, or the result carries a clarification
// request with missing_fields=["request_type"].
func fallbackRoute(message string) datatypes.RoutingResult {
	lowered := strings.ToLower(message)
	result := datatypes.RoutingResult{
		ConversationContext: fmt.Sprintf("User asked: %s", message),
		UsedFallback:        true,
	}

	matched := map[string]bool{}
	for domain, keywords := range domainKeywords {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				matched[domain] = true
				break
			}
		}
	}

	if code, ok := DetectLanguageChange(lowered); ok {
		matched["settings"] = true
		result.SettingsResponse = map[string]string{"language": code}
	}

	if matched["settings"] {
		result.SettingsPrompt = message
	}
	if matched["calendar"] {
		result.CalendarPrompt = message
	}
	if matched["task"] {
		result.TaskPrompt = message
	}
	if matched["project"] {
		result.ProjectPrompt = message
	}
	if matched["client"] {
		result.ClientPrompt = message
	}
	if matched["booking"] {
		result.BookingPrompt = message
	}
	if matched["message"] {
		result.MessagePrompt = message
	}

	if !result.HasDomainPrompts() {
		result.ClarificationPrompt = "I wasn't sure what you'd like to do. Could you tell me whether this is about your settings, calendar, tasks, projects, clients, bookings, or messages?"
		result.MissingFields = []string{"request_type"}
	}
	return result
}
