package domain

import "time"

type DateContext string

const (
	DatePast   DateContext = "past"
	DateToday  DateContext = "today"
	DateFuture DateContext = "future"
)

// Clock supplies "today". Both dates handed to ClassifyDate must come from
// the same zone, so the clock owns the zone.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

func ClassifyDate(date, today time.Time) DateContext {
	d, t := DateOnly(date), DateOnly(today)
	switch {
	case d.Before(t):
		return DatePast
	case d.After(t):
		return DateFuture
	default:
		return DateToday
	}
}

// AllowsEntryMutation is false for past days; future days may be planned.
func (c DateContext) AllowsEntryMutation() bool {
	return c == DateToday || c == DateFuture
}
