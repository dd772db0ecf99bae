// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// RoutingResult is the in-flight outcome of intent classification. Any
// number of the domain prompt fields may be set at once; a message like
// "set my status to away and draft an out-of-office reply" populates both
// the settings and message prompts. Empty string means the field was not
// produced.
type RoutingResult struct {
	SettingsPrompt      string   `json:"settings_prompt,omitempty"`
	CalendarPrompt      string   `json:"calendar_prompt,omitempty"`
	TaskPrompt          string   `json:"task_prompt,omitempty"`
	ProjectPrompt       string   `json:"project_prompt,omitempty"`
	ClientPrompt        string   `json:"client_prompt,omitempty"`
	BookingPrompt       string   `json:"booking_prompt,omitempty"`
	MessagePrompt       string   `json:"message_prompt,omitempty"`
	ClarificationPrompt string   `json:"clarification_prompt,omitempty"`
	MissingFields       []string `json:"missing_fields,omitempty"`
	ConversationContext string   `json:"conversation_context,omitempty"`

	// SettingsResponse carries a ready-made settings patch when the
	// keyword fallback resolved the request (e.g. an explicit language
	// change) without needing an extraction pass.
	SettingsResponse map[string]string `json:"settings_response,omitempty"`

	// UsedFallback marks that the deterministic keyword router produced
	// this result because the LLM call failed or was not configured.
	UsedFallback bool `json:"-"`
}

// HasDomainPrompts reports whether any per-domain prompt was populated.
func (r *RoutingResult) HasDomainPrompts() bool {
	return r.SettingsPrompt != "" || r.CalendarPrompt != "" || r.TaskPrompt != "" ||
		r.ProjectPrompt != "" || r.ClientPrompt != "" || r.BookingPrompt != "" ||
		r.MessagePrompt != "" || len(r.SettingsResponse) > 0
}
