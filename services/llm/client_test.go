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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_Plain(t *testing.T) {
	out, err := ExtractJSONObject(`{"action":"create_task","title":"Call supplier"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"create_task","title":"Call supplier"}`, string(out))
}

func TestExtractJSONObject_MarkdownFenced(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"action\": \"cancel\", \"title\": \"standup\"}\n```\nLet me know!"
	out, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"cancel","title":"standup"}`, string(out))
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	raw := `prefix {"note":"use {curly} braces","ok":true} suffix`
	out, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"note":"use {curly} braces","ok":true}`, string(out))
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := ExtractJSONObject("sorry, I could not help with that")
	assert.Error(t, err)
}

func TestDisabledClient_AlwaysUnavailable(t *testing.T) {
	c := NewDisabledClient()
	_, err := c.Generate(context.Background(), "sys", "user", GenerationParams{})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = c.CompleteJSON(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrUnavailable)
}

// hangingClient blocks until its context is cancelled.
type hangingClient struct{}

func (h *hangingClient) Generate(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (h *hangingClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDeadlineClient_TimeoutBecomesUnavailable(t *testing.T) {
	c := WithDeadline(&hangingClient{}, 20*time.Millisecond)
	_, err := c.CompleteJSON(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeadlineClient_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	c := WithDeadline(&errClient{err: boom}, time.Second)
	_, err := c.Generate(context.Background(), "sys", "user", GenerationParams{})
	assert.ErrorIs(t, err, boom)
}

type errClient struct{ err error }

func (e *errClient) Generate(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (string, error) {
	return "", e.err
}

func (e *errClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	return nil, e.err
}
