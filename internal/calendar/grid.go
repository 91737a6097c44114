package calendar

import (
	"fmt"
	"sort"
	"time"

	"jobbook/internal/models"
)

// GridSize is the fixed cell count of a month view: 6 weeks of 7 days.
// Every month renders into the same stable layout regardless of where it
// starts or how many weeks it spans.
const GridSize = 42

// Cell is one day slot in the rendered month grid.
type Cell struct {
	Date    time.Time
	DateKey string
	InMonth bool
}

// BuildGrid maps a reference date to its 42-cell month view under a
// Monday-start week. The first cell is the Monday on or before the first
// day of the reference month; cells continue for six full weeks.
func BuildGrid(ref time.Time) []Cell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	// time.Weekday counts Sunday as 0; shift so Monday is offset 0 and
	// Sunday is offset 6.
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	cells := make([]Cell, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			Date:    d,
			DateKey: DateKey(d),
			InMonth: d.Month() == ref.Month() && d.Year() == ref.Year(),
		})
	}
	return cells
}

// DateKey formats a date as zero-padded YYYY-MM-DD from its own local
// calendar components. Grid cells and stored items share this routine so
// they always agree on which day an item belongs to; never derive the key
// from a UTC-normalized time.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// IsToday reports whether t falls on the current local calendar day,
// evaluated at call time.
func IsToday(t time.Time) bool {
	now := time.Now()
	return t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day()
}

// MonthLabel renders the heading for a month view, e.g. "January 2024".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// AddMonths moves delta months from t, normalized to the first day of the
// target month so a Jan 31 reference never overflows past February.
func AddMonths(t time.Time, delta int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(delta), 1, 0, 0, 0, 0, t.Location())
}

// BucketByDay groups items by date key with the most recently created
// first. Ties on CreatedAt keep their original list order.
func BucketByDay(items []models.CalendarItem) map[string][]models.CalendarItem {
	buckets := make(map[string][]models.CalendarItem)
	for _, it := range items {
		buckets[it.DateKey] = append(buckets[it.DateKey], it)
	}
	for _, day := range buckets {
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].CreatedAt > day[j].CreatedAt
		})
	}
	return buckets
}
