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

// NormalizeSettings converts language values from full names ("Spanish")
// to ISO codes ("es"). Normalization lives here, not in the extractors,
// so LLM-produced and fallback-produced patches converge on the same
// representation. It is idempotent: a value that already is an ISO code
// passes through unchanged.
func NormalizeSettings(patch datatypes.SettingsPatch) datatypes.SettingsPatch {
	out := make(datatypes.SettingsPatch, len(patch))
	for k, v := range patch {
		if k == "language" {
			if datatypes.IsLanguageCode(strings.ToLower(v)) {
				out[k] = strings.ToLower(v)
				continue
			}
			if code, ok := datatypes.LanguageCode(v); ok {
				out[k] = code
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ApplySettings normalizes and applies a flat settings patch, recording
// one update_settings effect.
func (e *Executor) ApplySettings(ctx context.Context, userID, commandID string, patch datatypes.SettingsPatch) (Result, error) {
	normalized := NormalizeSettings(patch)

	merged, err := e.deps.Settings.Apply(ctx, userID, normalized)
	if err != nil {
		return Result{}, fmt.Errorf("apply settings: %w", err)
	}
	if err := e.recordEffect(ctx, commandID, "update_settings", "settings", userID, normalized); err != nil {
		return Result{}, err
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, strings.ReplaceAll(k, "_", " "))
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Updated your %s.", strings.Join(keys, ", ")),
		Data:    merged,
	}, nil
}
