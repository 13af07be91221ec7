package rangeaccrual

import (
	"fmt"
	"time"

	"github.com/meenmo/ralib/calendar"
)

// ObservationSchedule is an ordered, immutable sequence of dates on which
// the index is sampled. Built once at coupon construction.
type ObservationSchedule struct {
	dates []time.Time
}

// NewObservationSchedule validates an explicit date list: non-empty and
// strictly increasing.
func NewObservationSchedule(dates []time.Time) (*ObservationSchedule, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("NewObservationSchedule: empty date list")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("NewObservationSchedule: dates not strictly increasing at index %d (%s)", i, dates[i].Format("2006-01-02"))
		}
	}
	own := make([]time.Time, len(dates))
	copy(own, dates)
	return &ObservationSchedule{dates: own}, nil
}

// NewDailySchedule generates the business days of cal in [start, end],
// the standard observation set for a daily range-accrual period.
func NewDailySchedule(start, end time.Time, cal calendar.CalendarID) (*ObservationSchedule, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("NewDailySchedule: end %s not after start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if calendar.IsBusinessDay(cal, d) {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("NewDailySchedule: no business days between %s and %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return &ObservationSchedule{dates: dates}, nil
}

// Dates returns a copy of the observation dates.
func (s *ObservationSchedule) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Size returns the number of observation dates.
func (s *ObservationSchedule) Size() int {
	return len(s.dates)
}
