package streak

import (
	"sort"
	"time"
)

// Day is a calendar date without time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is an earlier date than o.
func (d Day) Before(o Day) bool {
	return d.time().Before(o.time())
}

// AddDays shifts d by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.time().AddDate(0, 0, n), time.UTC)
}

func (d Day) String() string {
	return d.time().Format("2006-01-02")
}

// Result is the streak computed for one user.
type Result struct {
	Current int
	// LastActive is the most recent active day not after today; nil when none.
	LastActive *Day
}

// Current counts consecutive active calendar days ending at today, or at
// yesterday when today has no attempt yet. A streak only breaks once a whole
// day has been skipped. Timestamps after today are ignored.
func Current(loggedAt []time.Time, today time.Time, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}
	todayDay := DayOf(today, loc)

	active := make(map[Day]struct{}, len(loggedAt))
	for _, t := range loggedAt {
		d := DayOf(t, loc)
		if todayDay.Before(d) {
			continue
		}
		active[d] = struct{}{}
	}
	if len(active) == 0 {
		return Result{}
	}

	days := make([]Day, 0, len(active))
	for d := range active {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[j].Before(days[i]) })
	last := days[0]

	cursor := todayDay
	if _, ok := active[cursor]; !ok {
		cursor = cursor.AddDays(-1)
	}
	count := 0
	for {
		if _, ok := active[cursor]; !ok {
			break
		}
		count++
		cursor = cursor.AddDays(-1)
	}
	return Result{Current: count, LastActive: &last}
}
