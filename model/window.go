package model

import (
	"errors"
	"time"
)

// MaxSpan is the longest time range the upstream client count history
// endpoint accepts.
const MaxSpan = 31 * 24 * time.Hour

var (
	ErrEndBeforeStart = errors.New("end date must be after start date")
	ErrEndInFuture    = errors.New("end date cannot be in the future")
	ErrStartTooOld    = errors.New("start date cannot be more than 31 days in the past")
	ErrSpanTooLong    = errors.New("date range cannot span more than 31 days")
)

// Window is a start/end pair for a history query.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate checks the window against the reference time now. The checks
// run in a fixed order and the first failure wins. Boundary values
// (end == now, start == now-31d, span == 31d) are accepted.
func (w Window) Validate(now time.Time) error {
	if !w.End.After(w.Start) {
		return ErrEndBeforeStart
	}
	if w.End.After(now) {
		return ErrEndInFuture
	}
	if w.Start.Before(now.Add(-MaxSpan)) {
		return ErrStartTooOld
	}
	if w.End.After(w.Start.Add(MaxSpan)) {
		return ErrSpanTooLong
	}
	return nil
}
