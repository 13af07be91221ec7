// Package rangeaccrual prices range-accrual coupons: fixed-rate cashflows
// scaled by the (expected) fraction of observation days the underlying index
// spends inside a trigger band.
package rangeaccrual

import (
	"errors"
	"time"

	"github.com/meenmo/ralib/index"
)

var (
	// ErrNilSchedule is returned when a coupon is built without an observation schedule.
	ErrNilSchedule = errors.New("nil observation schedule")
	// ErrNilIndex is returned when a coupon is built without an index.
	ErrNilIndex = errors.New("nil index")
	// ErrNilSurface is returned when a pricer is built without a volatility surface.
	ErrNilSurface = errors.New("nil volatility surface")
	// ErrBadTriggers is returned when the trigger band is not 0 < lower < upper.
	ErrBadTriggers = errors.New("invalid trigger band")
	// ErrBadSpreadWidth is returned when a replication spread width is not positive.
	ErrBadSpreadWidth = errors.New("non-positive spread width")
	// ErrNoReplicationPricer is returned when replication is requested without
	// a replication-capable option pricer.
	ErrNoReplicationPricer = errors.New("replication-capable option pricer required")
)

// AccrualResult is the output of a pricer evaluation: the accrual fraction
// in [0, 1] plus flat per-date diagnostics keyed "<metric>_<ISODate>" and
// the aggregates "daysInRange" / "observationDays".
type AccrualResult struct {
	Fraction    float64
	Diagnostics map[string]float64
}

// Pricer computes the accrual result for a coupon. Evaluate is a pure
// function of the coupon terms and the pricer's market data; any caching
// lives in the coupon, not here.
type Pricer interface {
	// CheckCoupon reports whether the pricer can price the coupon. It is
	// called at attachment time so incompatibilities surface immediately
	// rather than at first evaluation.
	CheckCoupon(c *Coupon) error
	Evaluate(c *Coupon) (AccrualResult, error)
}

// SwapIndex is the index capability the swap-rate pricer needs beyond plain
// fixings: the underlying swap tenor used to query the swaption surface.
type SwapIndex interface {
	index.Index
	TenorYears() int
}

// ReplicationPricer prices one-day caplets/floorlets on the coupon's index
// for an arbitrary strike, e.g. a convexity-adjusted CMS pricer. Rates are
// forward option rates (undiscounted), as used by the put/call-spread
// replication of a digital payoff.
type ReplicationPricer interface {
	CapletRate(observationDate time.Time, strike float64) (float64, error)
	FloorletRate(observationDate time.Time, strike float64) (float64, error)
}

// ChangeNotifier is implemented by market-data holders that can push change
// notifications. The coupon subscribes its invalidation hook when a pricer
// implements it; everything else is wired by the caller.
type ChangeNotifier interface {
	// Subscribe registers fn and returns a cancel function that removes the
	// registration.
	Subscribe(fn func()) (cancel func())
}
