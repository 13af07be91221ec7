// Command rangeaccrual prices a strip of daily range-accrual coupons on a
// CMS index over flat curves and a flat normal swaption volatility, printing
// the expected accrual fraction and amount per coupon.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/meenmo/ralib/calendar"
	"github.com/meenmo/ralib/curve"
	"github.com/meenmo/ralib/index"
	"github.com/meenmo/ralib/marketdata"
	"github.com/meenmo/ralib/rangeaccrual"
	"github.com/meenmo/ralib/utils"
	"github.com/meenmo/ralib/vol"
)

func main() {
	valuationDate := flag.String("date", "2025-06-02", "valuation date (YYYY-MM-DD)")
	nominal := flag.Float64("nominal", 10_000_000, "coupon nominal")
	rate := flag.Float64("rate", 0.045, "fixed coupon rate")
	lower := flag.Float64("lower", 0.02, "lower trigger")
	upper := flag.Float64("upper", 0.04, "upper trigger")
	zeroRate := flag.Float64("zero", 0.03, "flat zero rate for projection and discounting")
	sigma := flag.Float64("vol", 0.0075, "flat normal swaption volatility")
	tenor := flag.Int("tenor", 10, "underlying swap tenor (years)")
	periods := flag.Int("periods", 4, "number of quarterly coupons")
	flag.Parse()

	settlement := utils.DateParser(*valuationDate)

	flat := curve.NewFlatCurve(settlement, *zeroRate)
	idx, err := index.NewSwapRateIndex(fmt.Sprintf("EUR-CMS-%dY", *tenor), calendar.TARGET, *tenor, marketdata.NewMapFixingFeed(), flat, flat)
	if err != nil {
		log.Fatalf("index: %v", err)
	}

	surface := vol.ConstantSwaptionVol{Ref: settlement, Vol: *sigma, VolType: vol.Normal}
	pricer, err := rangeaccrual.NewSwapRatePricer(surface)
	if err != nil {
		log.Fatalf("pricer: %v", err)
	}

	fmt.Printf("range accrual strip | nominal %.0f | rate %.4f | band [%.4f, %.4f] | vol %.4f\n\n",
		*nominal, *rate, *lower, *upper, *sigma)
	fmt.Println("period     start        end          pay          fraction   amount")

	total := 0.0
	start := settlement
	for i := 1; i <= *periods; i++ {
		end := settlement.AddDate(0, 3*i, 0)
		pay := calendar.Adjust(calendar.TARGET, end)

		fixed := rangeaccrual.FixedRateCoupon{
			PaymentDate:  pay,
			Nominal:      *nominal,
			Rate:         *rate,
			DayCount:     "ACT/360",
			AccrualStart: start,
			AccrualEnd:   end,
		}
		coupon, err := rangeaccrual.NewDailyCoupon(fixed, idx, *lower, *upper)
		if err != nil {
			log.Fatalf("coupon %d: %v", i, err)
		}
		if err := coupon.SetPricer(pricer); err != nil {
			log.Fatalf("coupon %d: %v", i, err)
		}

		fraction, err := coupon.RangeAccrual()
		if err != nil {
			log.Fatalf("coupon %d: %v", i, err)
		}
		amount, err := coupon.Amount()
		if err != nil {
			log.Fatalf("coupon %d: %v", i, err)
		}
		total += amount

		fmt.Printf("%-10d %s   %s   %s   %.6f   %.2f\n",
			i,
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
			pay.Format("2006-01-02"),
			fraction,
			amount)

		start = end
	}

	fmt.Printf("\ntotal expected coupon amount: %.2f\n", total)
}
