// streak.go - Consecutive-day logging counter

package streak

import "time"

// State is a user's streak as stored on the user row.
type State struct {
	Streak      int        `json:"streak"`
	LastLogDate *time.Time `json:"lastLogDate"`
}

// Date returns the calendar date of t in loc, as midnight UTC.
// Dates are stored this way so that comparisons do not depend on the server zone.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b (both already calendar dates).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Advance applies one save made at now to s.
//
//	no previous log      -> 1
//	previous log 1 day ago -> +1
//	same day             -> unchanged
//	more than 1 day ago  -> reset to 1
//
// A last log date in the future (clock skew) leaves the state unchanged.
func Advance(s State, now time.Time, loc *time.Location) State {
	today := Date(now, loc)
	if s.LastLogDate == nil {
		return State{Streak: 1, LastLogDate: &today}
	}

	last := Date(*s.LastLogDate, time.UTC)
	switch diff := DaysBetween(last, today); {
	case diff == 1:
		return State{Streak: s.Streak + 1, LastLogDate: &today}
	case diff > 1:
		return State{Streak: 1, LastLogDate: &today}
	default:
		return s
	}
}

// Current is the streak as it should be displayed at now: a streak whose last
// log is older than yesterday has lapsed even though nothing has reset it yet.
func Current(s State, now time.Time, loc *time.Location) int {
	if s.LastLogDate == nil {
		return 0
	}
	if DaysBetween(Date(*s.LastLogDate, time.UTC), Date(now, loc)) > 1 {
		return 0
	}
	return s.Streak
}
