package booking

import (
	"strings"
	"time"
)

var appointmentLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseAppointmentDate accepts an ISO 8601 date or date-time. Values without
// an offset are read in loc.
func ParseAppointmentDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrMissingFields
	}
	for _, layout := range appointmentLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// DayWindow returns [start of day, start of next day) for a YYYY-MM-DD key in loc.
func DayWindow(day string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return d.UTC(), d.AddDate(0, 0, 1).UTC(), nil
}
