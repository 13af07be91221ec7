package rangeaccrual

import (
	"fmt"
	"time"

	"github.com/meenmo/ralib/index"
	"github.com/meenmo/ralib/utils"
)

// FixedRateCoupon is the plain fixed-rate cashflow underlying a
// range-accrual coupon.
type FixedRateCoupon struct {
	PaymentDate  time.Time
	Nominal      float64
	Rate         float64
	DayCount     string // utils.YearFraction convention, e.g. "ACT/360"
	AccrualStart time.Time
	AccrualEnd   time.Time
}

// Amount returns nominal * rate * accrual year fraction.
func (f FixedRateCoupon) Amount() float64 {
	return f.Nominal * f.Rate * utils.YearFraction(f.AccrualStart, f.AccrualEnd, f.DayCount)
}

// Coupon is a range-accrual fixed coupon: the fixed amount scaled by the
// fraction of observation days the index spends inside [lower, upper].
//
// The coupon terms (fixed coupon, schedule, index, band) are immutable after
// construction. The computed result is an explicit cache guarded by a stale
// flag: every read goes through recomputeIfStale, and OnDependencyChanged
// (or a pricer swap) invalidates it. Reads of an already-calculated coupon
// do not mutate state and are safe for concurrent readers.
type Coupon struct {
	fixed        FixedRateCoupon
	schedule     *ObservationSchedule
	index        index.Index
	lowerTrigger float64
	upperTrigger float64

	pricer      Pricer
	unsubscribe func()

	calculated bool
	fraction   float64
	results    map[string]float64
}

// NewCoupon builds a range-accrual coupon over an explicit observation
// schedule. Requires a schedule, an index, and 0 < lower < upper.
func NewCoupon(fixed FixedRateCoupon, schedule *ObservationSchedule, idx index.Index, lowerTrigger, upperTrigger float64) (*Coupon, error) {
	if schedule == nil || schedule.Size() == 0 {
		return nil, fmt.Errorf("NewCoupon: %w", ErrNilSchedule)
	}
	if idx == nil {
		return nil, fmt.Errorf("NewCoupon: %w", ErrNilIndex)
	}
	if lowerTrigger <= 0 {
		return nil, fmt.Errorf("NewCoupon: %w: lower trigger %.6f must be positive", ErrBadTriggers, lowerTrigger)
	}
	if lowerTrigger >= upperTrigger {
		return nil, fmt.Errorf("NewCoupon: %w: lower %.6f >= upper %.6f", ErrBadTriggers, lowerTrigger, upperTrigger)
	}
	return &Coupon{
		fixed:        fixed,
		schedule:     schedule,
		index:        idx,
		lowerTrigger: lowerTrigger,
		upperTrigger: upperTrigger,
	}, nil
}

// NewDailyCoupon builds a coupon observing the index on every business day
// of the accrual period, on the index's fixing calendar.
func NewDailyCoupon(fixed FixedRateCoupon, idx index.Index, lowerTrigger, upperTrigger float64) (*Coupon, error) {
	if idx == nil {
		return nil, fmt.Errorf("NewDailyCoupon: %w", ErrNilIndex)
	}
	schedule, err := NewDailySchedule(fixed.AccrualStart, fixed.AccrualEnd, idx.FixingCalendar())
	if err != nil {
		return nil, fmt.Errorf("NewDailyCoupon: %w", err)
	}
	return NewCoupon(fixed, schedule, idx, lowerTrigger, upperTrigger)
}

// SetPricer attaches (or, with nil, detaches) a pricer. Compatibility is
// checked at attachment so a mismatched pricer fails here, not at first
// read. Any subscription to the previous pricer's change notifications is
// cancelled before the swap, and the cached result is invalidated.
func (c *Coupon) SetPricer(p Pricer) error {
	if p != nil {
		if err := p.CheckCoupon(c); err != nil {
			return fmt.Errorf("SetPricer: %w", err)
		}
	}

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.pricer = p
	if notifier, ok := p.(ChangeNotifier); ok {
		c.unsubscribe = notifier.Subscribe(c.OnDependencyChanged)
	}

	c.OnDependencyChanged()
	return nil
}

// OnDependencyChanged marks the cached result stale. Callers wire this to
// whatever change propagation the surrounding system uses (market data
// updates, curve rebuilds, manual invalidation).
func (c *Coupon) OnDependencyChanged() {
	c.calculated = false
}

func (c *Coupon) recomputeIfStale() error {
	if c.calculated {
		return nil
	}

	if c.pricer != nil {
		res, err := c.pricer.Evaluate(c)
		if err != nil {
			return err
		}
		c.fraction = res.Fraction
		c.results = res.Diagnostics
	} else {
		fraction, err := c.intrinsicFraction()
		if err != nil {
			return err
		}
		c.fraction = fraction
		c.results = nil
	}

	c.calculated = true
	return nil
}

// intrinsicFraction is the realized-fixing fallback used when no pricer is
// attached: the fraction of observation dates whose fixing lies inside the
// band, with no diffusion model involved.
func (c *Coupon) intrinsicFraction() (float64, error) {
	inRange := 0.0
	dates := c.schedule.Dates()
	for _, d := range dates {
		obs, err := c.index.Fixing(d)
		if err != nil {
			return 0, fmt.Errorf("intrinsic range accrual: %w", err)
		}
		if obs >= c.lowerTrigger && obs <= c.upperTrigger {
			inRange += 1.0
		}
	}
	return inRange / float64(len(dates)), nil
}

// RangeAccrual returns the accrual fraction in [0, 1], recomputing if stale.
func (c *Coupon) RangeAccrual() (float64, error) {
	if err := c.recomputeIfStale(); err != nil {
		return 0, err
	}
	return c.fraction, nil
}

// Amount returns the coupon amount: accrual fraction times the fixed amount.
func (c *Coupon) Amount() (float64, error) {
	if err := c.recomputeIfStale(); err != nil {
		return 0, err
	}
	return c.fraction * c.fixed.Amount(), nil
}

// AdditionalResults returns a copy of the per-date diagnostics from the last
// evaluation. Empty when priced intrinsically (no pricer attached).
func (c *Coupon) AdditionalResults() (map[string]float64, error) {
	if err := c.recomputeIfStale(); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out, nil
}

// Fixed returns the underlying fixed-rate coupon.
func (c *Coupon) Fixed() FixedRateCoupon { return c.fixed }

// Schedule returns the observation schedule.
func (c *Coupon) Schedule() *ObservationSchedule { return c.schedule }

// Index returns the observed index.
func (c *Coupon) Index() index.Index { return c.index }

// LowerTrigger returns the band's lower bound.
func (c *Coupon) LowerTrigger() float64 { return c.lowerTrigger }

// UpperTrigger returns the band's upper bound.
func (c *Coupon) UpperTrigger() float64 { return c.upperTrigger }
