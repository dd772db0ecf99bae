// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import "context"

// DisabledClient is the degraded no-credential backend. Every call fails
// with ErrUnavailable so the assistant runs entirely on its deterministic
// fallback parsers.
type DisabledClient struct{}

func NewDisabledClient() *DisabledClient { return &DisabledClient{} }

func (d *DisabledClient) Generate(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (string, error) {
	return "", ErrUnavailable
}

func (d *DisabledClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	return nil, ErrUnavailable
}
