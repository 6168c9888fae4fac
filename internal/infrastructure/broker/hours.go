package broker

import (
	"fmt"
	"time"
)

// TradingWindow gates the bridge venue on both time of day and weekday,
// evaluated in the venue's own timezone.
type TradingWindow struct {
	location    *time.Location
	openMinute  int
	closeMinute int
	weekdays    map[time.Weekday]bool
}

// NewTradingWindow builds a window from "HH:MM" bounds in the given IANA
// timezone, open on the given weekdays.
func NewTradingWindow(
	timezone, opensAt, closesAt string, weekdays []time.Weekday,
) (*TradingWindow, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load venue timezone: %w", err)
	}
	openMinute, err := parseClock(opensAt)
	if err != nil {
		return nil, err
	}
	closeMinute, err := parseClock(closesAt)
	if err != nil {
		return nil, err
	}

	days := make(map[time.Weekday]bool, len(weekdays))
	for _, day := range weekdays {
		days[day] = true
	}
	return &TradingWindow{
		location:    location,
		openMinute:  openMinute,
		closeMinute: closeMinute,
		weekdays:    days,
	}, nil
}

// NewEquityTradingWindow is the default window of the bridge venue:
// 09:30-16:00 New York time, Monday through Friday.
func NewEquityTradingWindow() (*TradingWindow, error) {
	return NewTradingWindow(
		"America/New_York", "09:30", "16:00",
		[]time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	)
}

// IsOpenAt reports whether the venue trades at the given instant.
func (w *TradingWindow) IsOpenAt(t time.Time) bool {
	local := t.In(w.location)
	if !w.weekdays[local.Weekday()] {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= w.openMinute && minute < w.closeMinute
}

func parseClock(clock string) (int, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
