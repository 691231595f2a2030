package tracker

import (
	"time"
)

// Day truncates an instant to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Planner yields the calendar dates that still need harvesting, one per Next
// call, advancing by exactly one day. The sequence starts at the day after
// the latest persisted date (or at the anchor date when the store is empty)
// and ends at today, inclusive. It is finite and not restartable.
type Planner struct {
	next time.Time
	end  time.Time
}

// NewPlanner builds the date sequence. latest is the most recently persisted
// date, or nil when the store is empty.
func NewPlanner(latest *time.Time, anchor, today time.Time) *Planner {
	start := Day(anchor)
	if latest != nil {
		start = Day(*latest).AddDate(0, 0, 1)
	}
	return &Planner{next: start, end: Day(today)}
}

// Next returns the next date in the sequence, or false when exhausted.
func (p *Planner) Next() (time.Time, bool) {
	if p.next.After(p.end) {
		return time.Time{}, false
	}
	date := p.next
	p.next = p.next.AddDate(0, 0, 1)
	return date, true
}

// Remaining reports how many dates are left in the sequence.
func (p *Planner) Remaining() int {
	if p.next.After(p.end) {
		return 0
	}
	return int(p.end.Sub(p.next).Hours()/24) + 1
}
