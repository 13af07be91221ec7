// Package vol defines the volatility-surface contracts consumed by the
// range-accrual pricers, plus reference implementations matching the
// shapes used in test setups (constant vol, linear strike skew).
package vol

import (
	"time"

	"github.com/meenmo/ralib/utils"
)

// VolatilityType selects the market quoting convention.
type VolatilityType string

const (
	// Normal (Bachelier) volatility, absolute units (e.g. 0.0050 = 50bp).
	Normal VolatilityType = "NORMAL"
	// Lognormal (Black) volatility, relative units (e.g. 0.25 = 25%).
	Lognormal VolatilityType = "LOGNORMAL"
)

// timeBasis is the surface time axis (ACT/365F, market convention).
const timeBasis = "ACT/365F"

// SwaptionSurface provides swap-rate volatilities per expiry/tenor/strike.
// Dates on or before ReferenceDate carry no remaining time value.
type SwaptionSurface interface {
	ReferenceDate() time.Time
	// BlackVariance returns the total variance vol^2 * t for an option
	// expiring at date on a swap of the given tenor (years). The result may
	// be slightly negative near the reference date due to interpolation;
	// callers clamp before taking the square root.
	BlackVariance(date time.Time, swapTenorYears, strike float64, extrapolate bool) float64
	VolatilityType() VolatilityType
}

// BlackSurface provides FX (lognormal) volatilities per expiry/strike.
type BlackSurface interface {
	ReferenceDate() time.Time
	BlackVariance(date time.Time, strike float64, extrapolate bool) float64
	BlackVol(date time.Time, strike float64, extrapolate bool) float64
	TimeFromReference(date time.Time) float64
}

// ConstantSwaptionVol is a flat swaption volatility surface.
type ConstantSwaptionVol struct {
	Ref     time.Time
	Vol     float64
	VolType VolatilityType
}

func (c ConstantSwaptionVol) ReferenceDate() time.Time { return c.Ref }

func (c ConstantSwaptionVol) BlackVariance(date time.Time, swapTenorYears, strike float64, extrapolate bool) float64 {
	t := c.timeFromReference(date)
	if t < 0 {
		return 0
	}
	return c.Vol * c.Vol * t
}

func (c ConstantSwaptionVol) VolatilityType() VolatilityType { return c.VolType }

func (c ConstantSwaptionVol) timeFromReference(date time.Time) float64 {
	return utils.YearFraction(c.Ref, date, timeBasis)
}

// ConstantBlackVol is a flat lognormal FX volatility surface.
type ConstantBlackVol struct {
	Ref time.Time
	Vol float64
}

func (c ConstantBlackVol) ReferenceDate() time.Time { return c.Ref }

func (c ConstantBlackVol) BlackVariance(date time.Time, strike float64, extrapolate bool) float64 {
	t := c.TimeFromReference(date)
	if t < 0 {
		return 0
	}
	return c.Vol * c.Vol * t
}

func (c ConstantBlackVol) BlackVol(date time.Time, strike float64, extrapolate bool) float64 {
	return c.Vol
}

func (c ConstantBlackVol) TimeFromReference(date time.Time) float64 {
	return utils.YearFraction(c.Ref, date, timeBasis)
}

// SkewedBlackVol is a lognormal surface with volatility linear in strike:
// vol(K) = ATMVol + Skew*(K - ATMStrike). Intended for exercising the
// smile-adjusted digital model; it is not an arbitrage-free smile.
type SkewedBlackVol struct {
	Ref       time.Time
	ATMVol    float64
	ATMStrike float64
	Skew      float64 // d(vol)/d(strike)
}

func (s SkewedBlackVol) ReferenceDate() time.Time { return s.Ref }

func (s SkewedBlackVol) BlackVol(date time.Time, strike float64, extrapolate bool) float64 {
	v := s.ATMVol + s.Skew*(strike-s.ATMStrike)
	if v < 0 {
		v = 0
	}
	return v
}

func (s SkewedBlackVol) BlackVariance(date time.Time, strike float64, extrapolate bool) float64 {
	t := s.TimeFromReference(date)
	if t < 0 {
		return 0
	}
	v := s.BlackVol(date, strike, extrapolate)
	return v * v * t
}

func (s SkewedBlackVol) TimeFromReference(date time.Time) float64 {
	return utils.YearFraction(s.Ref, date, timeBasis)
}
