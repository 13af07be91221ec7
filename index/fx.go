package index

import (
	"fmt"
	"time"

	"github.com/meenmo/ralib/calendar"
	"github.com/meenmo/ralib/marketdata"
)

// FXIndex is a spot FX rate index (e.g. "EUR-USD").
//
// Historical fixings are read from the feed. Future fixings are projected
// via covered interest parity:
//
//	I(t, T) = I(t, t) * P_for(t, T) / P_dom(t, T)
//
// where P_for and P_dom are foreign/domestic discount factors. If no spot is
// set, today's recorded fixing is used as I(t, t).
type FXIndex struct {
	name string
	cal  calendar.CalendarID

	fixings marketdata.FixingFeed
	spot    float64
	dom     DiscountCurve
	foreign DiscountCurve
}

// NewFXIndex builds an FX index. Spot may be zero, in which case projection
// falls back to the fixing recorded on the domestic curve's settlement date.
func NewFXIndex(name string, cal calendar.CalendarID, fixings marketdata.FixingFeed, spot float64, dom, foreign DiscountCurve) (*FXIndex, error) {
	if name == "" {
		return nil, fmt.Errorf("NewFXIndex: name is required")
	}
	if fixings == nil {
		return nil, fmt.Errorf("NewFXIndex: fixing feed is required")
	}
	if spot < 0 {
		return nil, fmt.Errorf("NewFXIndex: negative spot %.6f", spot)
	}
	return &FXIndex{
		name:    name,
		cal:     cal,
		fixings: fixings,
		spot:    spot,
		dom:     dom,
		foreign: foreign,
	}, nil
}

func (f *FXIndex) Name() string                        { return f.name }
func (f *FXIndex) FixingCalendar() calendar.CalendarID { return f.cal }

func (f *FXIndex) Fixing(date time.Time) (float64, error) {
	if rate, ok := f.fixings.Fixing(f.name, date); ok {
		return rate, nil
	}

	if f.dom == nil || f.foreign == nil {
		return 0, fmt.Errorf("FXIndex %s: %s: %w", f.name, date.Format("2006-01-02"), ErrNoProjection)
	}
	today := f.dom.Settlement()
	if date.Before(today) {
		return 0, fmt.Errorf("FXIndex %s: %s: %w", f.name, date.Format("2006-01-02"), ErrMissingFixing)
	}

	spot := f.spot
	if spot == 0 {
		rate, ok := f.fixings.Fixing(f.name, today)
		if !ok {
			return 0, fmt.Errorf("FXIndex %s: no spot and no fixing on %s: %w", f.name, today.Format("2006-01-02"), ErrNoProjection)
		}
		spot = rate
	}

	return spot * f.foreign.DF(date) / f.dom.DF(date), nil
}
