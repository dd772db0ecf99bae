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
	"time"
)

// DeadlineClient wraps a backend with a per-call timeout. A hung backend
// would otherwise hang the whole command; with the wrapper the caller sees
// ErrUnavailable after the deadline and takes its fallback path.
type DeadlineClient struct {
	inner   Client
	timeout time.Duration
}

func WithDeadline(inner Client, timeout time.Duration) *DeadlineClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DeadlineClient{inner: inner, timeout: timeout}
}

func (d *DeadlineClient) Generate(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	out, err := d.inner.Generate(ctx, systemPrompt, userPrompt, params)
	return out, d.wrap(err)
}

func (d *DeadlineClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	out, err := d.inner.CompleteJSON(ctx, systemPrompt, userPrompt)
	return out, d.wrap(err)
}

func (d *DeadlineClient) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llm call exceeded %s: %w", d.timeout, ErrUnavailable)
	}
	return err
}
