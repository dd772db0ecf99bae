// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package executor

import (
	"strings"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// MatchTier names the heuristic that produced a client match. The tiers
// are ordered; MatchClient tries each in turn and stops at the first hit.
type MatchTier string

const (
	MatchTierPhone       MatchTier = "phone"
	MatchTierEmail       MatchTier = "email"
	MatchTierExactName   MatchTier = "exact_name"
	MatchTierPartialName MatchTier = "partial_name"
	MatchTierSubstring   MatchTier = "substring"
	MatchTierNone        MatchTier = "none"
)

// MatchClient resolves a free-text reference against existing clients.
// Precedence: phone, then email, then exact full name, then exact first
// or last name, then substring either way. Within one tier the earliest
// client wins.
func MatchClient(clients []datatypes.Client, ref string) (datatypes.Client, MatchTier, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return datatypes.Client{}, MatchTierNone, false
	}
	lowered := strings.ToLower(ref)

	if digits := digitsOnly(ref); len(digits) >= 7 {
		for _, c := range clients {
			if digitsOnly(c.Phone) == digits {
				return c, MatchTierPhone, true
			}
		}
	}
	if strings.Contains(ref, "@") {
		for _, c := range clients {
			if strings.EqualFold(c.Email, ref) {
				return c, MatchTierEmail, true
			}
		}
	}
	for _, c := range clients {
		if strings.EqualFold(c.FullName(), ref) {
			return c, MatchTierExactName, true
		}
	}
	for _, c := range clients {
		if strings.EqualFold(c.FirstName, ref) || strings.EqualFold(c.LastName, ref) {
			return c, MatchTierPartialName, true
		}
	}
	for _, c := range clients {
		full := strings.ToLower(c.FullName())
		if strings.Contains(full, lowered) || strings.Contains(lowered, full) {
			return c, MatchTierSubstring, true
		}
	}
	return datatypes.Client{}, MatchTierNone, false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchEventsByTitle returns every event whose title contains the
// reference, case-insensitively. The caller decides what zero, one, or
// many matches mean.
func matchEventsByTitle(events []datatypes.Event, title string) []datatypes.Event {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return nil
	}
	var out []datatypes.Event
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), lowered) {
			out = append(out, ev)
		}
	}
	return out
}
