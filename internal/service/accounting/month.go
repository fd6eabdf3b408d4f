package accounting

import (
	"fmt"
	"strings"
	"time"
)

// Month is a calendar month key, written YYYY-MM.
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// FirstDay and NextFirstDay bound the month as DATE strings: [first, next).
func (m Month) FirstDay() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

func (m Month) NextFirstDay() string {
	return time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

// Window is the month as an instant range in loc.
func (m Month) Window(loc *time.Location) (time.Time, time.Time) {
	from := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	return from.UTC(), from.AddDate(0, 1, 0).UTC()
}

func MonthOf(t time.Time, loc *time.Location) Month {
	t = t.In(loc)
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth reads a YYYY-MM key. A blank key is the current month in loc.
func ParseMonth(raw string, now time.Time, loc *time.Location) (Month, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MonthOf(now, loc), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil || len(raw) != len("2006-01") {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// parseDay reads a YYYY-MM-DD date, or today in loc when blank. Full
// timestamps are accepted and reduced to their calendar day in loc.
func parseDay(raw string, now time.Time, loc *time.Location) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.In(loc).Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc).Format(time.DateOnly), nil
	}
	return "", ErrInvalidDate
}
