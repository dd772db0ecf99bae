// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package contextstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_LastWriteWins(t *testing.T) {
	s := NewMemoryStore(10, time.Minute)
	s.Update("u1", "wants to schedule a meeting")
	s.Update("u1", "meeting scheduled, may reschedule")

	got, ok := s.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, "meeting scheduled, may reschedule", got)
}

func TestMemoryStore_MissingUser(t *testing.T) {
	s := NewMemoryStore(10, time.Minute)
	_, ok := s.Get("nobody")
	assert.False(t, ok)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore(10, time.Minute)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	s.Update("u1", "ctx")
	clock = clock.Add(2 * time.Minute)

	_, ok := s.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_CapacityBound(t *testing.T) {
	s := NewMemoryStore(3, time.Hour)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		s.Update(fmt.Sprintf("u%d", i), "ctx")
		clock = clock.Add(time.Second)
	}
	s.Update("u3", "newest")

	assert.Equal(t, 3, s.Len())
	_, ok := s.Get("u0") // stalest entry was evicted
	assert.False(t, ok)
	got, ok := s.Get("u3")
	assert.True(t, ok)
	assert.Equal(t, "newest", got)
}

func TestMemoryStore_UpdateExistingDoesNotEvict(t *testing.T) {
	s := NewMemoryStore(2, time.Hour)
	s.Update("a", "1")
	s.Update("b", "2")
	s.Update("a", "3")

	assert.Equal(t, 2, s.Len())
	got, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", got)
}
