package reporting

import (
	"time"
)

// Date presets understood by the resolver.
const (
	PresetToday = "today"
	PresetWeek  = "week"
	PresetMonth = "month"
	PresetYear  = "year"
)

// DateSpec is the loose date specification from the request: explicit
// bounds, a named preset, or any mix of the two.
type DateSpec struct {
	FromDate *time.Time
	ToDate   *time.Time
	Preset   string
}

// DateRange is the resolved inclusive [From, To] window. It is produced at
// most once per request so scorecards and grid share identical temporal
// scope.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ResolveDateRange turns a DateSpec into a concrete range against the given
// "now" snapshot.
//
// A preset computes an auto lower bound (today / most recent Monday / first
// of month / January 1) and an auto upper bound of today. Explicit bounds
// always override the auto values per-bound. When no final from/to pair
// exists the result is nil: the caller gets an all-time report, which is
// intentional, not an error. Unknown presets contribute nothing.
func ResolveDateRange(spec DateSpec, now time.Time) *DateRange {
	var from, to *time.Time

	today := truncateToDay(now)
	switch spec.Preset {
	case PresetToday:
		from, to = &today, &today
	case PresetWeek:
		monday := today.AddDate(0, 0, -mondayOffset(today.Weekday()))
		from, to = &monday, &today
	case PresetMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		from, to = &first, &today
	case PresetYear:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		from, to = &first, &today
	}

	if spec.FromDate != nil {
		f := truncateToDay(*spec.FromDate)
		from = &f
	}
	if spec.ToDate != nil {
		t := truncateToDay(*spec.ToDate)
		to = &t
	}

	if from == nil || to == nil {
		return nil
	}
	return &DateRange{From: *from, To: *to}
}

// mondayOffset returns the number of days back to the most recent Monday.
// ISO week start: Sunday maps to the Monday six days prior.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
