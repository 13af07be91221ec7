// Package index implements the rate/FX index collaborators consumed by the
// range-accrual core: historical fixings come from a marketdata.FixingFeed,
// future fixings are projected off discount curves.
package index

import (
	"errors"
	"time"

	"github.com/meenmo/ralib/calendar"
)

var (
	// ErrMissingFixing is returned when a historical fixing is not available.
	ErrMissingFixing = errors.New("missing fixing")
	// ErrNoProjection is returned when projection inputs (curves, spot) are
	// missing for a future fixing date.
	ErrNoProjection = errors.New("missing projection inputs")
)

// DiscountCurve provides discount factors for projection.
type DiscountCurve interface {
	DF(t time.Time) float64
	Settlement() time.Time
}

// Index produces fixings for both historical and projected dates.
type Index interface {
	Name() string
	// Fixing returns the index level on date: the recorded fixing for dates
	// up to the valuation date, a projected level beyond it. It fails if a
	// past fixing is missing or projection inputs are unavailable.
	Fixing(date time.Time) (float64, error)
	FixingCalendar() calendar.CalendarID
}
