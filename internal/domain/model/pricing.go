package model

import "math"

// ExpectedAmount recomputes what a booking should cost from first
// principles: the package's listed price, minus the agent's commission when
// the booking is attributed to an agent. Percentage commissions multiply the
// price down, fixed commissions subtract a flat amount (floored at zero).
// An agent with no explicit rate falls back to the package's flat agent
// discount. Client-supplied totals are never consulted.
func ExpectedAmount(pkg *TravelPackage, agent *Agent) int64 {
	price := pkg.Price
	if agent == nil {
		return price
	}
	if agent.CommissionRate == 0 {
		return floorZero(price - pkg.AgentDiscount)
	}
	switch agent.CommissionType {
	case CommissionPercentage:
		cut := int64(math.Round(float64(price) * agent.CommissionRate / 100))
		return floorZero(price - cut)
	case CommissionFixed:
		return floorZero(price - int64(math.Round(agent.CommissionRate)))
	default:
		return price
	}
}

// AmountWithinTolerance reports whether a gateway-settled amount is close
// enough to the expected amount. The band is a fraction of the expected
// amount with a floor of one minor currency unit, so integer rounding on
// either side never produces a false mismatch. Only underpayment is
// rejected; settling slightly above the expected amount is accepted.
func AmountWithinTolerance(expected, actual int64, tolerancePct float64) bool {
	tol := int64(math.Round(float64(expected) * tolerancePct))
	if tol < 1 {
		tol = 1
	}
	return actual >= expected-tol
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
