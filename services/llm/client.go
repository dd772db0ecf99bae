// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrUnavailable is returned when no LLM backend is configured or the
// configured backend cannot be reached. Callers are expected to fall back
// to their deterministic paths when they see this error.
var ErrUnavailable = errors.New("llm backend unavailable")

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client defines the standard interface for any LLM backend.
type Client interface {
	// Generate produces free-form text for a system+user prompt pair.
	Generate(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (string, error)

	// CompleteJSON produces a single JSON object for a system+user prompt
	// pair and returns its raw bytes. Implementations must return
	// ErrUnavailable (possibly wrapped) when the backend is not usable so
	// callers can degrade deterministically.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error)
}

// ExtractJSONObject locates the first JSON object in a model response.
// Models occasionally wrap the object in markdown fences or preamble text
// even when asked for strict JSON, so we scan rather than unmarshal the
// raw response directly.
func ExtractJSONObject(raw string) ([]byte, error) {
	if gjson.Valid(raw) && gjson.Parse(raw).IsObject() {
		return []byte(raw), nil
	}
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range raw {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					candidate := raw[start : i+1]
					if gjson.Valid(candidate) {
						return []byte(candidate), nil
					}
					start = -1
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return nil, fmt.Errorf("no JSON object found in model response")
}
