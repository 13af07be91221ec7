package marketdata

import "time"

// FixingFeed supplies historical index fixings (swap rates, FX rates) by
// index name and date. Fixing storage itself is owned by the surrounding
// infrastructure; this is the narrow lookup contract pricing code consumes.
type FixingFeed interface {
	Fixing(index string, date time.Time) (float64, bool)
}

// MapFixingFeed is a static map-backed implementation for development/testing.
type MapFixingFeed struct {
	rates map[string]map[string]float64 // index -> YYYY-MM-DD -> value
}

func NewMapFixingFeed() *MapFixingFeed {
	return &MapFixingFeed{rates: make(map[string]map[string]float64)}
}

// Add records a fixing for the index on the given date, replacing any
// previously recorded value.
func (m *MapFixingFeed) Add(index string, date time.Time, value float64) {
	byDate, ok := m.rates[index]
	if !ok {
		byDate = make(map[string]float64)
		m.rates[index] = byDate
	}
	byDate[date.Format("2006-01-02")] = value
}

func (m *MapFixingFeed) Fixing(index string, date time.Time) (float64, bool) {
	byDate, ok := m.rates[index]
	if !ok {
		return 0, false
	}
	val, ok := byDate[date.Format("2006-01-02")]
	return val, ok
}
