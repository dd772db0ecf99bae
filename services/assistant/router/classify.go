// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package router

import (
	"strings"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// ClassifyCommandType gives the coarse command type recorded on the
// CommandRecord. It runs before routing (the record is created first),
// so it can only use the raw message.
func ClassifyCommandType(message string) datatypes.CommandType {
	lowered := strings.ToLower(message)

	matches := 0
	var last string
	for domain, keywords := range domainKeywords {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				matches++
				last = domain
				break
			}
		}
	}

	switch {
	case matches > 1:
		return datatypes.CommandTypeUnified
	case matches == 0:
		return datatypes.CommandTypeGeneral
	}
	switch last {
	case "settings":
		return datatypes.CommandTypeSettings
	case "calendar", "booking":
		return datatypes.CommandTypeScheduling
	case "message":
		return datatypes.CommandTypeAutoResponse
	default:
		return datatypes.CommandTypeGeneral
	}
}
