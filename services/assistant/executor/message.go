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

	"github.com/AleutianAI/AleutianDesk/services/llm"
)

const messageSystemPrompt = `You draft short auto-response messages for a freelancer.
Write a warm, human-sounding message under 300 characters. Output only the
message text, no quotes, no explanation.`

const maxMessageRunes = 300

// GenerateMessage drafts an auto-response. The only persistence is the
// effect row; the draft itself is returned to the caller to use.
func (e *Executor) GenerateMessage(ctx context.Context, userID, commandID, prompt string) (Result, error) {
	text, err := e.deps.LLM.Generate(ctx, messageSystemPrompt, prompt, llm.GenerationParams{})
	if err != nil {
		return Result{}, fmt.Errorf("generate message: %w", err)
	}
	if runes := []rune(text); len(runes) > maxMessageRunes {
		text = string(runes[:maxMessageRunes])
	}

	if err := e.recordEffect(ctx, commandID, "generate_message", "message", "",
		map[string]string{"prompt": prompt}); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Here's a draft you can use.", Data: map[string]string{"message": text}}, nil
}
