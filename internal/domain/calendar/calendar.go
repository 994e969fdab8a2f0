package calendar

import (
	"time"

	"dojo/internal/domain/apperr"
)

// ErrInvalidStart is returned for a malformed ?start= value.
var ErrInvalidStart = apperr.Validation("Start date must be in YYYY-MM-DD format. Showing today instead.")

// Layouts used for day keys and labels.
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "Mon 02 Jan"
)

// Window sizes.
const (
	DaysPerWeek = 7
	WeekCount   = 2
	WindowDays  = DaysPerWeek * WeekCount
)

// Day is a single calendar slot.
type Day[T any] struct {
	Date    string // ISO key, 2006-01-02
	Display string // e.g. "Mon 02 Jan"
	Weekday string // e.g. "Monday"
	Items   []T    // never nil; input order preserved
}

// Week is seven consecutive days.
type Week[T any] struct {
	Days []Day[T]
}

// TwoWeeks is a fixed fourteen-day projection starting at Start.
type TwoWeeks[T any] struct {
	Start string
	End   string // last day in the window (inclusive)
	Weeks []Week[T]
}

// WindowEnd returns the last date (inclusive) of the window starting at start.
func WindowEnd(start time.Time) time.Time {
	return DayStart(start).AddDate(0, 0, WindowDays-1)
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BuildTwoWeeks buckets items into a fourteen-day grid.
// PRE: dateOf returns an ISO date (2006-01-02) for each item
// POST: exactly two weeks of seven days; every day has a non-nil Items slice;
// items keep their input order; items outside the window are dropped
// INVARIANT: does not mutate items
func BuildTwoWeeks[T any](start time.Time, items []T, dateOf func(T) string) TwoWeeks[T] {
	first := DayStart(start)
	index := make(map[string]int, WindowDays)

	days := make([]Day[T], WindowDays)
	for i := range days {
		d := first.AddDate(0, 0, i)
		key := d.Format(DateLayout)
		days[i] = Day[T]{
			Date:    key,
			Display: d.Format(DisplayLayout),
			Weekday: d.Weekday().String(),
			Items:   []T{},
		}
		index[key] = i
	}

	for _, item := range items {
		if i, ok := index[dateOf(item)]; ok {
			days[i].Items = append(days[i].Items, item)
		}
	}

	cal := TwoWeeks[T]{
		Start: days[0].Date,
		End:   days[WindowDays-1].Date,
		Weeks: make([]Week[T], WeekCount),
	}
	for w := range cal.Weeks {
		cal.Weeks[w] = Week[T]{Days: days[w*DaysPerWeek : (w+1)*DaysPerWeek]}
	}
	return cal
}

// ParseStart parses a ?start= value, falling back to today when empty.
// PRE: today is the caller's notion of the current date
// POST: returns the parsed date; a malformed value returns today's date
// together with ErrInvalidStart
func ParseStart(value string, today time.Time) (time.Time, error) {
	if value == "" {
		return DayStart(today), nil
	}
	t, err := time.ParseInLocation(DateLayout, value, today.Location())
	if err != nil {
		return DayStart(today), ErrInvalidStart
	}
	return t, nil
}
