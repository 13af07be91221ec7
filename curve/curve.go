package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/ralib/utils"
)

// curveDayCount is the time basis for the curve's interpolation axis.
// ACT/365F per market convention regardless of currency; leg-specific day
// counts apply to coupon accrual only.
const curveDayCount = "ACT/365F"

// ZeroCurve is a discount curve defined by pillar discount factors with
// log-linear interpolation between pillars and flat-forward extrapolation
// beyond the last pillar.
type ZeroCurve struct {
	settlement      time.Time
	pillarDates     []time.Time
	discountFactors map[time.Time]float64
}

// NewCurveFromDFs creates a curve from explicitly provided discount factors.
// The settlement date pillar is added with DF = 1.0 if not supplied.
func NewCurveFromDFs(settlement time.Time, dfs map[time.Time]float64) (*ZeroCurve, error) {
	if len(dfs) == 0 {
		return nil, fmt.Errorf("NewCurveFromDFs: at least one discount factor is required")
	}

	c := &ZeroCurve{
		settlement:      settlement,
		discountFactors: make(map[time.Time]float64, len(dfs)+1),
	}
	c.discountFactors[settlement] = 1.0
	for d, df := range dfs {
		if df <= 0 {
			return nil, fmt.Errorf("NewCurveFromDFs: non-positive discount factor %.12f at %s", df, d.Format("2006-01-02"))
		}
		c.discountFactors[d] = df
	}
	for d := range c.discountFactors {
		c.pillarDates = append(c.pillarDates, d)
	}
	utils.SortDates(c.pillarDates)
	return c, nil
}

// NewZeroCurve creates a curve from continuously-compounded zero rates
// (decimal, e.g. 0.025) keyed by pillar date.
func NewZeroCurve(settlement time.Time, zeros map[time.Time]float64) (*ZeroCurve, error) {
	if len(zeros) == 0 {
		return nil, fmt.Errorf("NewZeroCurve: at least one zero rate is required")
	}
	dfs := make(map[time.Time]float64, len(zeros))
	for d, z := range zeros {
		t := utils.YearFraction(settlement, d, curveDayCount)
		dfs[d] = math.Exp(-z * t)
	}
	return NewCurveFromDFs(settlement, dfs)
}

// NewFlatCurve creates a curve with a single continuously-compounded rate.
func NewFlatCurve(settlement time.Time, rate float64) *ZeroCurve {
	far := settlement.AddDate(100, 0, 0)
	c, _ := NewZeroCurve(settlement, map[time.Time]float64{far: rate})
	return c
}

// DF returns the discount factor at t using the curve's interpolation rules.
func (c *ZeroCurve) DF(t time.Time) float64 {
	if df, ok := c.discountFactors[t]; ok {
		return df
	}
	if len(c.pillarDates) < 2 {
		// Single pillar beyond settlement: flat-forward off that pillar.
		d := c.pillarDates[len(c.pillarDates)-1]
		t1 := utils.YearFraction(c.settlement, d, curveDayCount)
		if t1 == 0 {
			return 1.0
		}
		fwd := -math.Log(c.discountFactors[d]) / t1
		return math.Exp(-fwd * utils.YearFraction(c.settlement, t, curveDayCount))
	}

	d1, d2 := utils.AdjacentDates(t, c.pillarDates)
	df1 := c.discountFactors[d1]
	df2 := c.discountFactors[d2]

	t1 := utils.YearFraction(c.settlement, d1, curveDayCount)
	t2 := utils.YearFraction(c.settlement, d2, curveDayCount)
	tTarget := utils.YearFraction(c.settlement, t, curveDayCount)

	if t2 == t1 {
		return df1
	}
	fwd := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-fwd*(tTarget-t1))
}

// ZeroRateAt returns the continuously-compounded zero rate (decimal) at t.
func (c *ZeroCurve) ZeroRateAt(t time.Time) float64 {
	yearFrac := utils.YearFraction(c.settlement, t, curveDayCount)
	if yearFrac == 0 {
		return 0
	}
	return -math.Log(c.DF(t)) / yearFrac
}

// Settlement returns the curve's settlement date.
func (c *ZeroCurve) Settlement() time.Time {
	return c.settlement
}

// PillarDates returns the curve's pillar date grid.
func (c *ZeroCurve) PillarDates() []time.Time {
	out := make([]time.Time, len(c.pillarDates))
	copy(out, c.pillarDates)
	return out
}
