// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// anchor is a fixed Wednesday morning; all relative dates resolve from it.
var anchor = time.Date(2025, 6, 11, 8, 30, 0, 0, time.UTC)

func TestFallback_MeetingWithNameTomorrowAfternoon(t *testing.T) {
	a := ParseCalendarFallback("schedule meeting with Dana tomorrow at 3pm", anchor)

	assert.Equal(t, datatypes.CalendarCreateEvent, a.Action)
	assert.Contains(t, a.Title, "Dana")
	require.NotNil(t, a.StartTime)
	assert.Equal(t, 15, a.StartTime.Hour())
	assert.Equal(t, anchor.AddDate(0, 0, 1).Day(), a.StartTime.Day())
	require.NotNil(t, a.EndTime)
	assert.Equal(t, a.StartTime.Add(time.Hour), *a.EndTime)
}

func TestFallback_NoSignalDefaultsTomorrowAtTen(t *testing.T) {
	a := ParseCalendarFallback("set up a sync", anchor)

	require.NotNil(t, a.StartTime)
	assert.Equal(t, 10, a.StartTime.Hour())
	assert.Equal(t, 0, a.StartTime.Minute())
	assert.Equal(t, anchor.AddDate(0, 0, 1).Day(), a.StartTime.Day())
	require.NotNil(t, a.EndTime)
	assert.Equal(t, 11, a.EndTime.Hour())
	assert.Equal(t, "New Meeting", a.Title)
}

func TestFallback_TodayKeywordBeatsOtherDates(t *testing.T) {
	a := ParseCalendarFallback("schedule a review today, maybe 06/20", anchor)
	require.NotNil(t, a.StartTime)
	assert.Equal(t, anchor.Day(), a.StartTime.Day())
}

func TestFallback_MonthNameAndDay(t *testing.T) {
	a := ParseCalendarFallback("schedule kickoff on july 3 in the morning", anchor)
	require.NotNil(t, a.StartTime)
	assert.Equal(t, time.July, a.StartTime.Month())
	assert.Equal(t, 3, a.StartTime.Day())
	assert.Equal(t, 9, a.StartTime.Hour())
}

func TestFallback_PastMonthRollsToNextYear(t *testing.T) {
	a := ParseCalendarFallback("schedule recap on january 15", anchor)
	require.NotNil(t, a.StartTime)
	assert.Equal(t, anchor.Year()+1, a.StartTime.Year())
}

func TestFallback_NumericDate(t *testing.T) {
	a := ParseCalendarFallback("meeting with sam on 9/22", anchor)
	require.NotNil(t, a.StartTime)
	assert.Equal(t, time.September, a.StartTime.Month())
	assert.Equal(t, 22, a.StartTime.Day())
}

func TestFallback_BareClockTime(t *testing.T) {
	a := ParseCalendarFallback("schedule standup tomorrow 14:30", anchor)
	require.NotNil(t, a.StartTime)
	assert.Equal(t, 14, a.StartTime.Hour())
	assert.Equal(t, 30, a.StartTime.Minute())
}

func TestFallback_Dayparts(t *testing.T) {
	cases := map[string]int{
		"morning":   9,
		"afternoon": 14,
		"evening":   18,
		"night":     20,
	}
	for word, hour := range cases {
		a := ParseCalendarFallback("schedule a call tomorrow "+word, anchor)
		require.NotNil(t, a.StartTime, word)
		assert.Equal(t, hour, a.StartTime.Hour(), word)
	}
}

func TestFallback_AmPmEdgeCases(t *testing.T) {
	noon := ParseCalendarFallback("lunch meeting with alex tomorrow at 12pm", anchor)
	require.NotNil(t, noon.StartTime)
	assert.Equal(t, 12, noon.StartTime.Hour())

	midnight := ParseCalendarFallback("schedule backup run tomorrow at 12am", anchor)
	require.NotNil(t, midnight.StartTime)
	assert.Equal(t, 0, midnight.StartTime.Hour())
}

func TestFallback_CancelExtractsTitle(t *testing.T) {
	a := ParseCalendarFallback("cancel the standup meeting", anchor)
	assert.Equal(t, datatypes.CalendarCancel, a.Action)
	assert.Equal(t, "standup", a.Title)
	assert.True(t, a.HasMandatoryFields)
}

func TestFallback_DeleteMeetingWithName(t *testing.T) {
	a := ParseCalendarFallback("delete my meeting with Dana", anchor)
	assert.Equal(t, datatypes.CalendarDelete, a.Action)
	assert.Contains(t, a.Title, "Dana")
}

func TestFallback_TaskKeyword(t *testing.T) {
	a := ParseCalendarFallback("add a task to follow up tomorrow", anchor)
	assert.Equal(t, datatypes.CalendarCreateTask, a.Action)
}

func TestFallback_Deterministic(t *testing.T) {
	first := ParseCalendarFallback("schedule meeting with Dana tomorrow at 3pm", anchor)
	second := ParseCalendarFallback("schedule meeting with Dana tomorrow at 3pm", anchor)
	assert.Equal(t, first, second)
}
