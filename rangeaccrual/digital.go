package rangeaccrual

import (
	"math"

	"github.com/meenmo/ralib/vol"
)

// Standard-deviation floors below which a date is treated as having no time
// value left and the digital collapses to its intrinsic indicator. The
// switch is hard (no interpolation at the threshold) to avoid dividing by
// near-zero variance.
const (
	// MinStdRate is 1bp * sqrt(1 day) in annualized terms.
	MinStdRate = 0.000005
)

// MinStdFX is 1% * sqrt(1 day), the FX-convention floor.
var MinStdFX = 0.01 * math.Sqrt(1.0/365.0)

func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func normalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

// ProbabilityBelowStrike returns the risk-neutral probability that the index
// finishes below the strike, given the time-scaled standard deviation
// vol*sqrt(t) and the quoting convention.
//
// Below minStd the intrinsic indicator is returned. Otherwise:
//
//	Normal:    Phi((strike - level) / stdDev)
//	Lognormal: Phi(-d2), d2 = ln(level/strike)/stdDev - stdDev/2
func ProbabilityBelowStrike(level, strike, stdDev float64, convention vol.VolatilityType, minStd float64) float64 {
	if stdDev < minStd {
		if level < strike {
			return 1.0
		}
		return 0.0
	}
	switch convention {
	case vol.Lognormal:
		d2 := math.Log(level/strike)/stdDev - 0.5*stdDev
		return normalCDF(-d2)
	default:
		return normalCDF((strike - level) / stdDev)
	}
}

// SmileAdjustedProbabilityBelowStrike is the lognormal digital probability
// with a first-order vanna correction for a local volatility skew:
//
//	Phi(-d2) + level * phi(d1) * sqrt(t) * skew
//
// where skew is the finite-difference d(vol)/d(strike) sampled near the
// strike. This is a local approximation, not a full smile model; it is only
// meaningful for skews implied by small strike bumps. The result is clamped
// to [0, 1].
func SmileAdjustedProbabilityBelowStrike(level, strike, stdDev, sqrtT, skew, minStd float64) float64 {
	if stdDev < minStd {
		if level < strike {
			return 1.0
		}
		return 0.0
	}
	d2 := math.Log(level/strike)/stdDev - 0.5*stdDev
	d1 := d2 + stdDev

	p := normalCDF(-d2) + level*normalPDF(d1)*sqrtT*skew
	if p < 0 {
		return 0.0
	}
	if p > 1 {
		return 1.0
	}
	return p
}
