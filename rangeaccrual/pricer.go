package rangeaccrual

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/ralib/vol"
)

// SwapRatePricer computes the expected accrual fraction for coupons on a
// swap-rate index. Per-side digital probabilities come from the swaption
// surface (Bachelier/Black without convexity adjustment), or, when a
// replication pricer is attached, from a put/call-spread replication that
// carries the CMS convexity adjustment.
type SwapRatePricer struct {
	vol         vol.SwaptionSurface
	replication ReplicationPricer
	spreadWidth float64
}

// NewSwapRatePricer builds a pricer without CMS adjustment: digital
// probabilities are read directly off the surface convention.
func NewSwapRatePricer(surface vol.SwaptionSurface) (*SwapRatePricer, error) {
	if surface == nil {
		return nil, fmt.Errorf("NewSwapRatePricer: %w", ErrNilSurface)
	}
	return &SwapRatePricer{vol: surface}, nil
}

// NewReplicationSwapRatePricer builds a pricer that values each digital via
// spread replication on the supplied option pricer. The pricer must satisfy
// ReplicationPricer; there is no runtime downcasting to a concrete model.
func NewReplicationSwapRatePricer(surface vol.SwaptionSurface, option ReplicationPricer, spreadWidth float64) (*SwapRatePricer, error) {
	if surface == nil {
		return nil, fmt.Errorf("NewReplicationSwapRatePricer: %w", ErrNilSurface)
	}
	if option == nil {
		return nil, fmt.Errorf("NewReplicationSwapRatePricer: %w", ErrNoReplicationPricer)
	}
	if spreadWidth <= 0 {
		return nil, fmt.Errorf("NewReplicationSwapRatePricer: %w (%.6g)", ErrBadSpreadWidth, spreadWidth)
	}
	return &SwapRatePricer{vol: surface, replication: option, spreadWidth: spreadWidth}, nil
}

// CheckCoupon requires the coupon's index to expose the underlying swap
// tenor; the swaption surface is queried per (expiry, tenor, strike).
func (p *SwapRatePricer) CheckCoupon(c *Coupon) error {
	if c == nil {
		return fmt.Errorf("SwapRatePricer: nil coupon")
	}
	if _, ok := c.index.(SwapIndex); !ok {
		return fmt.Errorf("SwapRatePricer: coupon index %q does not expose a swap tenor", c.index.Name())
	}
	return nil
}

// Evaluate runs the observation loop: one digital probability per side per
// date, in-range probability as their difference, uniform day weighting.
func (p *SwapRatePricer) Evaluate(c *Coupon) (AccrualResult, error) {
	if err := p.CheckCoupon(c); err != nil {
		return AccrualResult{}, err
	}
	swapIndex := c.index.(SwapIndex)
	tenor := float64(swapIndex.TenorYears())

	dates := c.schedule.Dates()
	res := AccrualResult{Diagnostics: make(map[string]float64, 4*len(dates)+2)}
	daysInRange := 0.0

	for _, d := range dates {
		obs, err := c.index.Fixing(d)
		if err != nil {
			return AccrualResult{}, fmt.Errorf("SwapRatePricer: %w", err)
		}

		stdLow, stdUpp := 0.0, 0.0
		if d.After(p.vol.ReferenceDate()) {
			// Interpolation can produce slightly negative variances near the
			// reference date; clamp before the square root.
			stdLow = math.Sqrt(math.Max(p.vol.BlackVariance(d, tenor, c.lowerTrigger, true), 0.0))
			stdUpp = math.Sqrt(math.Max(p.vol.BlackVariance(d, tenor, c.upperTrigger, true), 0.0))
		}

		putLow, err := p.probabilityBelow(obs, c.lowerTrigger, stdLow, d)
		if err != nil {
			return AccrualResult{}, err
		}
		putUpp, err := p.probabilityBelow(obs, c.upperTrigger, stdUpp, d)
		if err != nil {
			return AccrualResult{}, err
		}

		// P(lower <= X <= upper) = P(X <= upper) - P(X <= lower).
		inRange := putUpp - putLow
		if inRange < 0 {
			// Mixed intrinsic/probabilistic sides can cross; probabilities stay in [0, 1].
			inRange = 0
		}
		daysInRange += inRange

		iso := d.Format("2006-01-02")
		res.Diagnostics["indexObservation_"+iso] = obs
		res.Diagnostics["standardDevLow_"+iso] = stdLow
		res.Diagnostics["standardDevUpp_"+iso] = stdUpp
		res.Diagnostics["inRangeProbability_"+iso] = inRange
	}

	res.Fraction = daysInRange / float64(len(dates))
	res.Diagnostics["daysInRange"] = daysInRange
	res.Diagnostics["observationDays"] = float64(len(dates))
	return res, nil
}

func (p *SwapRatePricer) probabilityBelow(obs, strike, stdDev float64, d time.Time) (float64, error) {
	if stdDev < MinStdRate {
		if obs < strike {
			return 1.0, nil
		}
		return 0.0, nil
	}
	if p.replication != nil {
		return digitalViaReplication(p.replication, obs, d, strike, p.spreadWidth)
	}
	return ProbabilityBelowStrike(obs, strike, stdDev, p.vol.VolatilityType(), MinStdRate), nil
}

// FXPricer computes the expected accrual fraction for coupons on an FX
// index under a lognormal surface, optionally with a first-order smile
// adjustment from a finite-difference local skew.
type FXPricer struct {
	vol        vol.BlackSurface
	smile      bool
	strikeBump float64 // relative bump for the local-skew sample
}

// DefaultSmileBump is the relative strike bump (1bp) used to sample the
// local skew for the smile adjustment.
const DefaultSmileBump = 0.0001

// NewFXPricer builds an FX pricer without smile adjustment.
func NewFXPricer(surface vol.BlackSurface) (*FXPricer, error) {
	if surface == nil {
		return nil, fmt.Errorf("NewFXPricer: %w", ErrNilSurface)
	}
	return &FXPricer{vol: surface}, nil
}

// NewSmileFXPricer builds an FX pricer that adjusts each digital for the
// local volatility skew sampled with the given relative strike bump.
func NewSmileFXPricer(surface vol.BlackSurface, strikeBump float64) (*FXPricer, error) {
	if surface == nil {
		return nil, fmt.Errorf("NewSmileFXPricer: %w", ErrNilSurface)
	}
	if strikeBump <= 0 {
		return nil, fmt.Errorf("NewSmileFXPricer: strike bump must be positive, got %.6g", strikeBump)
	}
	return &FXPricer{vol: surface, smile: true, strikeBump: strikeBump}, nil
}

// CheckCoupon accepts any coupon; FX pricing needs only plain fixings.
func (p *FXPricer) CheckCoupon(c *Coupon) error {
	if c == nil {
		return fmt.Errorf("FXPricer: nil coupon")
	}
	return nil
}

func (p *FXPricer) Evaluate(c *Coupon) (AccrualResult, error) {
	dates := c.schedule.Dates()
	res := AccrualResult{Diagnostics: make(map[string]float64, 4*len(dates)+2)}
	daysInRange := 0.0

	for _, d := range dates {
		obs, err := c.index.Fixing(d)
		if err != nil {
			return AccrualResult{}, fmt.Errorf("FXPricer: %w", err)
		}

		stdLow, stdUpp, sqrtT := 0.0, 0.0, 0.0
		if d.After(p.vol.ReferenceDate()) {
			stdLow = math.Sqrt(math.Max(p.vol.BlackVariance(d, c.lowerTrigger, true), 0.0))
			stdUpp = math.Sqrt(math.Max(p.vol.BlackVariance(d, c.upperTrigger, true), 0.0))
			sqrtT = math.Sqrt(math.Max(p.vol.TimeFromReference(d), 0.0))
		}

		var putLow, putUpp float64
		if p.smile {
			skewLow := p.localSkew(d, c.lowerTrigger)
			skewUpp := p.localSkew(d, c.upperTrigger)
			putLow = SmileAdjustedProbabilityBelowStrike(obs, c.lowerTrigger, stdLow, sqrtT, skewLow, MinStdFX)
			putUpp = SmileAdjustedProbabilityBelowStrike(obs, c.upperTrigger, stdUpp, sqrtT, skewUpp, MinStdFX)

			iso := d.Format("2006-01-02")
			res.Diagnostics["skewLow_"+iso] = skewLow
			res.Diagnostics["skewUpp_"+iso] = skewUpp
		} else {
			putLow = ProbabilityBelowStrike(obs, c.lowerTrigger, stdLow, vol.Lognormal, MinStdFX)
			putUpp = ProbabilityBelowStrike(obs, c.upperTrigger, stdUpp, vol.Lognormal, MinStdFX)
		}

		inRange := putUpp - putLow
		if inRange < 0 {
			inRange = 0
		}
		daysInRange += inRange

		iso := d.Format("2006-01-02")
		res.Diagnostics["indexObservation_"+iso] = obs
		res.Diagnostics["standardDevLow_"+iso] = stdLow
		res.Diagnostics["standardDevUpp_"+iso] = stdUpp
		res.Diagnostics["inRangeProbability_"+iso] = inRange
	}

	res.Fraction = daysInRange / float64(len(dates))
	res.Diagnostics["daysInRange"] = daysInRange
	res.Diagnostics["observationDays"] = float64(len(dates))
	return res, nil
}

// localSkew samples d(vol)/d(strike) with a small relative strike bump.
func (p *FXPricer) localSkew(d time.Time, strike float64) float64 {
	bumped := strike * (1.0 + p.strikeBump)
	volBase := p.vol.BlackVol(d, strike, true)
	volBumped := p.vol.BlackVol(d, bumped, true)
	return (volBumped - volBase) / (bumped - strike)
}
