// Package billing computes the cost of a completed parking session.
package billing

import (
	"math"
	"time"

	"parkwise-backend/internal/domain"
)

// Compute returns the cost of a stay from entry to exit under the given
// pricing. Duration is measured in fractional hours, never floored: a stay
// within the base duration costs the base price, anything beyond is billed
// per hour at the extra-hour rate, proportionally. The result is rounded to
// 2 decimals, half away from zero.
func Compute(entryTime, exitTime time.Time, p domain.Pricing) (float64, error) {
	if exitTime.Before(entryTime) {
		return 0, domain.ErrInvalidInterval
	}

	hours := exitTime.Sub(entryTime).Hours()
	cost := p.BasePrice
	if hours > p.BaseDurationHours {
		cost += (hours - p.BaseDurationHours) * p.ExtraHourPrice
	}
	return round2(cost), nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
