package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateRange indicates an unusable start/end/days combination
var ErrInvalidDateRange = errors.New("invalid date range")

// Window is the half-open interval [Start, End) of records an operation sees
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the window length in whole days, rounded up
func (w Window) Days() int {
	return int((w.End.Sub(w.Start) + 24*time.Hour - 1) / (24 * time.Hour))
}

// WindowPolicy bounds how far back a request may look
type WindowPolicy struct {
	DefaultDays int
	MaxDays     int
}

// Resolve builds a Window ending at end (default now) and starting at start
// (default end minus days, or DefaultDays when days is 0).
func (p WindowPolicy) Resolve(now time.Time, days int, start, end *time.Time) (Window, error) {
	if days < 0 {
		return Window{}, fmt.Errorf("%w: days must be positive", ErrInvalidDateRange)
	}
	if days == 0 {
		days = p.DefaultDays
	}
	if days > p.MaxDays {
		return Window{}, fmt.Errorf("%w: days must be at most %d", ErrInvalidDateRange, p.MaxDays)
	}

	w := Window{End: now}
	if end != nil {
		w.End = *end
	}
	if start != nil {
		w.Start = *start
	} else {
		w.Start = w.End.AddDate(0, 0, -days)
	}

	if !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("%w: start_date must be before end_date", ErrInvalidDateRange)
	}
	if w.Days() > p.MaxDays {
		return Window{}, fmt.Errorf("%w: range must span at most %d days", ErrInvalidDateRange, p.MaxDays)
	}
	return w, nil
}
