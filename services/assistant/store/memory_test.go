// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

func TestMemoryEvents_MissingTargetIsErrNotFound(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	err := mem.Events().Delete(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = mem.Events().Update(ctx, datatypes.Event{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTasks_MissingTargetIsErrNotFound(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	err := mem.Tasks().Delete(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = mem.Tasks().Update(ctx, datatypes.Task{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEvents_DeleteExisting(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	ev, err := mem.Events().Create(ctx, datatypes.Event{UserID: "u1", Title: "Kickoff"})
	require.NoError(t, err)
	require.NoError(t, mem.Events().Delete(ctx, ev.ID))

	events, err := mem.Events().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, events)
}
