// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package contextstore caches the latest conversation-context summary per
// user so a follow-up command can resolve references like "move it to
// Friday". Entries are short-lived hints, not durable state; losing one
// only costs the user a clarification question.
package contextstore

import (
	"sync"
	"time"
)

// Store is the conversation-context cache the pipeline reads before
// routing and writes after.
type Store interface {
	Get(userID string) (string, bool)
	Update(userID, context string)
}

const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 30 * time.Minute
)

type entry struct {
	context string
	touched time.Time
}

// MemoryStore is a mutex-guarded map with a capacity bound and a TTL.
// Last write wins. When the store is full the stalest entry is evicted;
// expired entries are dropped lazily on read.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		return "", false
	}
	if s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, userID)
		return "", false
	}
	return e.context, true
}

func (s *MemoryStore) Update(userID, context string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[userID]; !ok && len(s.entries) >= s.maxEntries {
		s.evictStalest()
	}
	s.entries[userID] = entry{context: context, touched: s.now()}
}

// evictStalest removes the least recently written entry. Caller holds mu.
func (s *MemoryStore) evictStalest() {
	var stalest string
	var oldest time.Time
	first := true
	for id, e := range s.entries {
		if first || e.touched.Before(oldest) {
			stalest, oldest = id, e.touched
			first = false
		}
	}
	if !first {
		delete(s.entries, stalest)
	}
}

// Len reports the current entry count.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
