package domain

import (
	"errors"
	"time"

	"leadflow_backend/platform/clock"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

var ErrInvalidPeriod = errors.New("period must be week or month")

// Days is the window length of p.
func (p Period) Days() (int, error) {
	switch p {
	case PeriodWeek:
		return 7, nil
	case PeriodMonth:
		return 30, nil
	}
	return 0, ErrInvalidPeriod
}

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Dates returns the calendar days [from, to) that w covers in loc. The day
// containing To is the last day of the window, so adjacent windows never
// share a day.
func (w Window) Dates(loc *time.Location) (from, to time.Time) {
	return clock.Today(w.From, loc).AddDate(0, 0, 1), clock.Today(w.To, loc).AddDate(0, 0, 1)
}

// Windows returns the current window ending at now and the window of the
// same length right before it.
func Windows(p Period, now time.Time) (current, previous Window, err error) {
	days, err := p.Days()
	if err != nil {
		return Window{}, Window{}, err
	}
	span := time.Duration(days) * 24 * time.Hour
	current = Window{From: now.Add(-span), To: now}
	previous = Window{From: current.From.Add(-span), To: current.From}
	return current, previous, nil
}
