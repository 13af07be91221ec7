package index

import (
	"fmt"
	"time"

	"github.com/meenmo/ralib/calendar"
	"github.com/meenmo/ralib/marketdata"
	"github.com/meenmo/ralib/utils"
)

// SwapRateIndex is a constant-maturity swap rate index (e.g. EUR 10Y).
//
// Historical fixings are read from the feed. Future fixings are forward par
// swap rates: annuity-weighted simple forwards over an annual fixed leg
// starting at the fixing date, projected and discounted off the supplied
// curves.
type SwapRateIndex struct {
	name       string
	cal        calendar.CalendarID
	tenorYears int
	dayCount   string

	fixings marketdata.FixingFeed
	proj    DiscountCurve
	disc    DiscountCurve
}

// NewSwapRateIndex builds a swap-rate index. The fixing feed is required;
// curves may be nil for purely historical use, in which case projecting a
// future fixing fails with ErrNoProjection.
func NewSwapRateIndex(name string, cal calendar.CalendarID, tenorYears int, fixings marketdata.FixingFeed, proj, disc DiscountCurve) (*SwapRateIndex, error) {
	if name == "" {
		return nil, fmt.Errorf("NewSwapRateIndex: name is required")
	}
	if tenorYears <= 0 {
		return nil, fmt.Errorf("NewSwapRateIndex: tenor must be positive, got %d", tenorYears)
	}
	if fixings == nil {
		return nil, fmt.Errorf("NewSwapRateIndex: fixing feed is required")
	}
	return &SwapRateIndex{
		name:       name,
		cal:        cal,
		tenorYears: tenorYears,
		dayCount:   "ACT/365F",
		fixings:    fixings,
		proj:       proj,
		disc:       disc,
	}, nil
}

func (s *SwapRateIndex) Name() string                        { return s.name }
func (s *SwapRateIndex) FixingCalendar() calendar.CalendarID { return s.cal }

// TenorYears returns the underlying swap tenor in years.
func (s *SwapRateIndex) TenorYears() int { return s.tenorYears }

func (s *SwapRateIndex) Fixing(date time.Time) (float64, error) {
	if rate, ok := s.fixings.Fixing(s.name, date); ok {
		return rate, nil
	}

	if s.disc == nil || s.proj == nil {
		return 0, fmt.Errorf("SwapRateIndex %s: %s: %w", s.name, date.Format("2006-01-02"), ErrNoProjection)
	}
	if date.Before(s.disc.Settlement()) {
		return 0, fmt.Errorf("SwapRateIndex %s: %s: %w", s.name, date.Format("2006-01-02"), ErrMissingFixing)
	}
	return s.forwardParRate(date)
}

// forwardParRate computes the par rate of a forward-starting swap:
// parRate = sum(fwd * accrual * df) / sum(accrual * df) over annual periods.
func (s *SwapRateIndex) forwardParRate(start time.Time) (float64, error) {
	floatLegPV := 0.0
	annuity := 0.0

	periodStart := calendar.Adjust(s.cal, start)
	for i := 1; i <= s.tenorYears; i++ {
		periodEnd := calendar.Adjust(s.cal, start.AddDate(i, 0, 0))

		alpha := utils.YearFraction(periodStart, periodEnd, s.dayCount)
		if alpha <= 0 {
			return 0, fmt.Errorf("SwapRateIndex %s: degenerate accrual period at %s", s.name, periodStart.Format("2006-01-02"))
		}

		dfStart := s.proj.DF(periodStart)
		dfEnd := s.proj.DF(periodEnd)
		fwd := (dfStart/dfEnd - 1.0) / alpha

		df := s.disc.DF(periodEnd)
		floatLegPV += fwd * alpha * df
		annuity += alpha * df

		periodStart = periodEnd
	}

	if annuity == 0 {
		return 0, fmt.Errorf("SwapRateIndex %s: annuity is zero at %s", s.name, start.Format("2006-01-02"))
	}
	return floatLegPV / annuity, nil
}
