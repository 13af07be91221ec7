package rangeaccrual

import (
	"fmt"
	"time"
)

// DefaultSpreadWidth is the standard replication spread width (one basis point).
const DefaultSpreadWidth = 0.0001

// digitalViaReplication prices the digital-put indicator P(X < strike) from
// two vanilla option rates straddling the strike by half the spread width.
// The difference quotient approximates the strike-derivative of the option
// price, which equals the risk-neutral digital probability
// (Breeden-Litzenberger). The width is a fixed tick, not infinitesimal, to
// keep the quotient numerically stable.
//
// The branch on strike vs the current fixing picks the better-conditioned
// side (calls above the money, puts below); both sides price the same
// probability.
func digitalViaReplication(p ReplicationPricer, currentFixing float64, observationDate time.Time, strike, spreadWidth float64) (float64, error) {
	if p == nil {
		return 0, fmt.Errorf("digitalViaReplication: %w", ErrNoReplicationPricer)
	}
	if spreadWidth <= 0 {
		return 0, fmt.Errorf("digitalViaReplication: %w (%.6g)", ErrBadSpreadWidth, spreadWidth)
	}

	if strike > currentFixing {
		callPlus, err := p.CapletRate(observationDate, strike+0.5*spreadWidth)
		if err != nil {
			return 0, fmt.Errorf("digitalViaReplication: caplet at %.6f: %w", strike+0.5*spreadWidth, err)
		}
		callMinus, err := p.CapletRate(observationDate, strike-0.5*spreadWidth)
		if err != nil {
			return 0, fmt.Errorf("digitalViaReplication: caplet at %.6f: %w", strike-0.5*spreadWidth, err)
		}
		return 1.0 - (callMinus-callPlus)/spreadWidth, nil
	}

	putPlus, err := p.FloorletRate(observationDate, strike+0.5*spreadWidth)
	if err != nil {
		return 0, fmt.Errorf("digitalViaReplication: floorlet at %.6f: %w", strike+0.5*spreadWidth, err)
	}
	putMinus, err := p.FloorletRate(observationDate, strike-0.5*spreadWidth)
	if err != nil {
		return 0, fmt.Errorf("digitalViaReplication: floorlet at %.6f: %w", strike-0.5*spreadWidth, err)
	}
	return (putPlus - putMinus) / spreadWidth, nil
}
