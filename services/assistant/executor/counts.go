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
)

var countKeywords = []string{"how many", "count", "total", "number of"}

// IsCountQuery reports whether a message is asking for an aggregate
// rather than requesting a mutation. The pipeline checks this before
// invoking any extractor so an analytics question is never misread as a
// creation request.
func IsCountQuery(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range countKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// TaskSummary aggregates the user's tasks. Read-only: no effect rows.
func (e *Executor) TaskSummary(ctx context.Context, userID string) (Result, error) {
	tasks, err := e.deps.Tasks.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list tasks: %w", err)
	}

	byStatus := map[string]int{}
	byPriority := map[string]int{}
	dueThisMonth := 0
	now := e.now()
	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++
		if t.Deadline != nil && t.Deadline.Year() == now.Year() && t.Deadline.Month() == now.Month() {
			dueThisMonth++
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("You have %d tasks (%d due this month).", len(tasks), dueThisMonth),
		Data: map[string]any{
			"total":          len(tasks),
			"by_status":      byStatus,
			"by_priority":    byPriority,
			"due_this_month": dueThisMonth,
		},
	}, nil
}

func (e *Executor) ProjectSummary(ctx context.Context, userID string) (Result, error) {
	projects, err := e.deps.Projects.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list projects: %w", err)
	}
	byStatus := map[string]int{}
	for _, p := range projects {
		byStatus[p.Status]++
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("You have %d projects.", len(projects)),
		Data:    map[string]any{"total": len(projects), "by_status": byStatus},
	}, nil
}

func (e *Executor) ClientSummary(ctx context.Context, userID string) (Result, error) {
	clients, err := e.deps.Clients.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list clients: %w", err)
	}
	now := e.now()
	addedThisMonth := 0
	for _, c := range clients {
		if c.CreatedAt.Year() == now.Year() && c.CreatedAt.Month() == now.Month() {
			addedThisMonth++
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("You have %d clients (%d added this month).", len(clients), addedThisMonth),
		Data:    map[string]any{"total": len(clients), "added_this_month": addedThisMonth},
	}, nil
}

func (e *Executor) BookingSummary(ctx context.Context, userID string) (Result, error) {
	bookings, err := e.deps.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list bookings: %w", err)
	}
	byStatus := map[string]int{}
	thisMonth := 0
	prefix := e.now().Format("2006-01")
	for _, b := range bookings {
		byStatus[b.Status]++
		if strings.HasPrefix(b.Date, prefix) {
			thisMonth++
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("You have %d bookings (%d this month).", len(bookings), thisMonth),
		Data:    map[string]any{"total": len(bookings), "by_status": byStatus, "this_month": thisMonth},
	}, nil
}
