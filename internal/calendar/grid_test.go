package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobbook/internal/calendar"
	"jobbook/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func TestBuildGridShape(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 15),
		date(2024, time.February, 1),   // leap February
		date(2024, time.September, 30), // month starting on Sunday
		date(2024, time.July, 1),       // month starting on Monday
		date(2023, time.December, 31),
		date(2025, time.March, 5),
	}

	for _, ref := range refs {
		cells := calendar.BuildGrid(ref)
		require.Len(t, cells, calendar.GridSize, "ref %s", ref)

		require.Equal(t, time.Monday, cells[0].Date.Weekday(), "ref %s", ref)

		mondays := 0
		inMonth := 0
		for i, c := range cells {
			if c.Date.Weekday() == time.Monday {
				mondays++
			}
			if c.InMonth {
				inMonth++
			}
			if i > 0 {
				require.Equal(t, cells[i-1].Date.AddDate(0, 0, 1), c.Date, "cells must be consecutive days")
			}
		}
		require.Equal(t, 6, mondays, "ref %s", ref)
		require.Equal(t, daysIn(ref.Year(), ref.Month()), inMonth, "ref %s", ref)
	}
}

func TestBuildGridSundayStartMonth(t *testing.T) {
	// September 2024 starts on a Sunday, the maximal backward offset.
	cells := calendar.BuildGrid(date(2024, time.September, 10))
	require.Equal(t, "2024-08-26", cells[0].DateKey)
	require.False(t, cells[0].InMonth)
	require.Equal(t, "2024-09-01", cells[6].DateKey)
	require.True(t, cells[6].InMonth)
}

func TestDateKey(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{date(2024, time.December, 31), "2024-12-31"},
		{date(2024, time.January, 1), "2024-01-01"},
		{date(2024, time.February, 29), "2024-02-29"},
		{date(999, time.March, 7), "0999-03-07"},
	}
	for _, tc := range cases {
		got := calendar.DateKey(tc.in)
		require.Equal(t, tc.want, got)

		// Round trip: the key re-parses to the same local calendar day.
		back, err := time.ParseInLocation("2006-01-02", got, time.Local)
		require.NoError(t, err)
		require.Equal(t, tc.in.Year(), back.Year())
		require.Equal(t, tc.in.Month(), back.Month())
		require.Equal(t, tc.in.Day(), back.Day())
	}
}

func TestIsToday(t *testing.T) {
	now := time.Now()
	require.True(t, calendar.IsToday(now))
	require.False(t, calendar.IsToday(now.AddDate(0, 0, 1)))
	require.False(t, calendar.IsToday(now.AddDate(-1, 0, 0)))
}

func TestMonthLabel(t *testing.T) {
	require.Equal(t, "January 2024", calendar.MonthLabel(date(2024, time.January, 31)))
	require.Equal(t, "December 2023", calendar.MonthLabel(date(2023, time.December, 1)))
}

func TestAddMonthsNormalizes(t *testing.T) {
	// Jan 31 + 1 month must land in February, not skip to March.
	got := calendar.AddMonths(date(2024, time.January, 31), 1)
	require.Equal(t, time.February, got.Month())
	require.Equal(t, 2024, got.Year())
	require.Equal(t, 1, got.Day())

	got = calendar.AddMonths(date(2024, time.January, 15), -1)
	require.Equal(t, time.December, got.Month())
	require.Equal(t, 2023, got.Year())

	got = calendar.AddMonths(date(2024, time.December, 31), 1)
	require.Equal(t, time.January, got.Month())
	require.Equal(t, 2025, got.Year())

	got = calendar.AddMonths(date(2024, time.June, 20), 0)
	require.Equal(t, date(2024, time.June, 1), got)
}

func TestBucketByDaySortsByCreatedAtDescending(t *testing.T) {
	items := []models.CalendarItem{
		{ID: "a", DateKey: "2024-03-01", Type: models.ActionRepair, Title: "Repair", CreatedAt: 100},
		{ID: "b", DateKey: "2024-03-01", Type: models.ActionInstall, Title: "Install", CreatedAt: 300},
		{ID: "c", DateKey: "2024-03-01", Type: models.ActionOther, Title: "Other", CreatedAt: 200},
		{ID: "d", DateKey: "2024-03-02", Type: models.ActionInvoice, Title: "Invoice", CreatedAt: 50},
	}

	buckets := calendar.BucketByDay(items)
	require.Len(t, buckets, 2)

	day := buckets["2024-03-01"]
	require.Len(t, day, 3)
	require.Equal(t, []int64{300, 200, 100}, []int64{day[0].CreatedAt, day[1].CreatedAt, day[2].CreatedAt})

	require.Len(t, buckets["2024-03-02"], 1)
	require.Equal(t, "d", buckets["2024-03-02"][0].ID)
}

func TestBucketByDayTiesKeepListOrder(t *testing.T) {
	items := []models.CalendarItem{
		{ID: "first", DateKey: "2024-03-01", Type: models.ActionOther, Title: "x", CreatedAt: 100},
		{ID: "second", DateKey: "2024-03-01", Type: models.ActionOther, Title: "y", CreatedAt: 100},
	}
	day := calendar.BucketByDay(items)["2024-03-01"]
	require.Equal(t, "first", day[0].ID)
	require.Equal(t, "second", day[1].ID)
}
