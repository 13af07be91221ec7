package rangeaccrual_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/ralib/calendar"
	"github.com/meenmo/ralib/curve"
	"github.com/meenmo/ralib/index"
	"github.com/meenmo/ralib/marketdata"
	"github.com/meenmo/ralib/rangeaccrual"
	"github.com/meenmo/ralib/vol"
)

func fxCoupon(t *testing.T, lower, upper float64) *rangeaccrual.Coupon {
	t.Helper()

	settlement := ymd(2015, time.August, 3)
	dom := curve.NewFlatCurve(settlement, 0.01)
	foreign := curve.NewFlatCurve(settlement, 0.02)
	idx, err := index.NewFXIndex("EUR-USD", calendar.TARGET, marketdata.NewMapFixingFeed(), 1.20, dom, foreign)
	if err != nil {
		t.Fatalf("NewFXIndex: %v", err)
	}

	fixed := rangeaccrual.FixedRateCoupon{
		PaymentDate:  ymd(2015, time.September, 30),
		Nominal:      100.0,
		Rate:         0.01,
		DayCount:     "ACT/360",
		AccrualStart: ymd(2015, time.August, 31),
		AccrualEnd:   ymd(2015, time.September, 30),
	}
	c, err := rangeaccrual.NewDailyCoupon(fixed, idx, lower, upper)
	if err != nil {
		t.Fatalf("NewDailyCoupon: %v", err)
	}
	return c
}

func TestFXPricer_ExtremeBands(t *testing.T) {
	t.Parallel()

	surface := vol.ConstantBlackVol{Ref: ymd(2015, time.August, 3), Vol: 0.10}
	p, err := rangeaccrual.NewFXPricer(surface)
	if err != nil {
		t.Fatalf("NewFXPricer: %v", err)
	}

	// Projected spot stays near 1.20 over a month at 10% vol.
	wide := fxCoupon(t, 0.50, 2.50)
	res, err := p.Evaluate(wide)
	if err != nil {
		t.Fatalf("Evaluate (wide): %v", err)
	}
	if res.Fraction < 0.999 {
		t.Fatalf("wide band: got %.6f want ~1", res.Fraction)
	}

	far := fxCoupon(t, 2.00, 2.50)
	res, err = p.Evaluate(far)
	if err != nil {
		t.Fatalf("Evaluate (far): %v", err)
	}
	if res.Fraction > 1e-6 {
		t.Fatalf("far band: got %.6g want ~0", res.Fraction)
	}
}

func TestFXPricer_FractionBounds(t *testing.T) {
	t.Parallel()

	surface := vol.ConstantBlackVol{Ref: ymd(2015, time.August, 3), Vol: 0.10}
	p, err := rangeaccrual.NewFXPricer(surface)
	if err != nil {
		t.Fatalf("NewFXPricer: %v", err)
	}

	c := fxCoupon(t, 1.19, 1.21)
	res, err := p.Evaluate(c)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Fraction < 0.0 || res.Fraction > 1.0 {
		t.Fatalf("fraction out of [0, 1]: %.8f", res.Fraction)
	}
	if res.Fraction == 0.0 || res.Fraction == 1.0 {
		t.Fatalf("band around spot should be strictly interior: %.8f", res.Fraction)
	}
}

func TestSmileFXPricer_ZeroSkewMatchesPlain(t *testing.T) {
	t.Parallel()

	ref := ymd(2015, time.August, 3)
	flat := vol.ConstantBlackVol{Ref: ref, Vol: 0.10}
	zeroSkew := vol.SkewedBlackVol{Ref: ref, ATMVol: 0.10, ATMStrike: 1.20, Skew: 0.0}

	plain, err := rangeaccrual.NewFXPricer(flat)
	if err != nil {
		t.Fatalf("NewFXPricer: %v", err)
	}
	smile, err := rangeaccrual.NewSmileFXPricer(zeroSkew, rangeaccrual.DefaultSmileBump)
	if err != nil {
		t.Fatalf("NewSmileFXPricer: %v", err)
	}

	c := fxCoupon(t, 1.15, 1.25)
	resPlain, err := plain.Evaluate(c)
	if err != nil {
		t.Fatalf("plain Evaluate: %v", err)
	}
	resSmile, err := smile.Evaluate(c)
	if err != nil {
		t.Fatalf("smile Evaluate: %v", err)
	}

	if math.Abs(resPlain.Fraction-resSmile.Fraction) > 1e-12 {
		t.Fatalf("zero skew should match plain: %.12f vs %.12f", resPlain.Fraction, resSmile.Fraction)
	}
}

func TestSmileFXPricer_SkewDiagnostics(t *testing.T) {
	t.Parallel()

	skewed := vol.SkewedBlackVol{Ref: ymd(2015, time.August, 3), ATMVol: 0.10, ATMStrike: 1.20, Skew: 0.25}
	p, err := rangeaccrual.NewSmileFXPricer(skewed, rangeaccrual.DefaultSmileBump)
	if err != nil {
		t.Fatalf("NewSmileFXPricer: %v", err)
	}

	c := fxCoupon(t, 1.15, 1.25)
	res, err := p.Evaluate(c)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Fraction < 0.0 || res.Fraction > 1.0 {
		t.Fatalf("fraction out of [0, 1]: %.8f", res.Fraction)
	}

	for _, d := range c.Schedule().Dates() {
		iso := d.Format("2006-01-02")
		skewLow, ok := res.Diagnostics["skewLow_"+iso]
		if !ok {
			t.Fatalf("missing diagnostic skewLow_%s", iso)
		}
		if _, ok := res.Diagnostics["skewUpp_"+iso]; !ok {
			t.Fatalf("missing diagnostic skewUpp_%s", iso)
		}
		// The sampled local skew should recover the surface's linear slope.
		if math.Abs(skewLow-0.25) > 1e-6 {
			t.Fatalf("skewLow_%s: got %.8f want 0.25", iso, skewLow)
		}
	}
}

func TestFXPricer_PastPeriodMatchesIntrinsic(t *testing.T) {
	t.Parallel()

	const name = "EUR-USD"
	feed := marketdata.NewMapFixingFeed()
	level := 1.18
	for d := ymd(2015, time.August, 31); !d.After(ymd(2015, time.September, 30)); d = d.AddDate(0, 0, 1) {
		if calendar.IsBusinessDay(calendar.TARGET, d) {
			feed.Add(name, d, level)
			level += 0.004
		}
	}

	idx, err := index.NewFXIndex(name, calendar.TARGET, feed, 0.0, nil, nil)
	if err != nil {
		t.Fatalf("NewFXIndex: %v", err)
	}
	fixed := rangeaccrual.FixedRateCoupon{
		PaymentDate:  ymd(2015, time.September, 30),
		Nominal:      100.0,
		Rate:         0.01,
		DayCount:     "ACT/360",
		AccrualStart: ymd(2015, time.August, 31),
		AccrualEnd:   ymd(2015, time.September, 30),
	}
	// Triggers sit between fixing grid points so no observation lands on an edge.
	lower, upper := 1.201, 1.239
	c, err := rangeaccrual.NewDailyCoupon(fixed, idx, lower, upper)
	if err != nil {
		t.Fatalf("NewDailyCoupon: %v", err)
	}

	// Surface reference date after every observation: intrinsic per day.
	surface := vol.ConstantBlackVol{Ref: ymd(2015, time.December, 31), Vol: 0.10}
	p, err := rangeaccrual.NewFXPricer(surface)
	if err != nil {
		t.Fatalf("NewFXPricer: %v", err)
	}

	res, err := p.Evaluate(c)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	count := 0
	dates := c.Schedule().Dates()
	for _, d := range dates {
		obs, ok := feed.Fixing(name, d)
		if !ok {
			t.Fatalf("missing fixing on %s", d.Format("2006-01-02"))
		}
		if obs >= lower && obs <= upper {
			count++
		}
	}
	want := float64(count) / float64(len(dates))
	if math.Abs(res.Fraction-want) > 1e-12 {
		t.Fatalf("fraction: got %.12f want %.12f (%d/%d)", res.Fraction, want, count, len(dates))
	}
}
