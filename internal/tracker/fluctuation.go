package tracker

import (
	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/storage"
)

var hundred = decimal.NewFromInt(100)

// Fluctuation fills in the movement fields of rec against the prior record
// for the same commodity. A nil prior (anchor date, or commodity never seen
// before) leaves the fields at zero: this observation becomes the baseline
// for future comparisons.
//
// Value and percentage are rounded to two decimal places; significance is
// decided on the rounded percentage. The returned flag reports a zero prior
// average, for which the percentage is undefined and forced to zero.
func Fluctuation(rec storage.PriceRecord, prior *storage.PriceRecord, threshold decimal.Decimal) (storage.PriceRecord, bool) {
	if prior == nil {
		rec.FluctuationValue = decimal.Zero
		rec.FluctuationPercentage = decimal.Zero
		rec.Significant = false
		return rec, false
	}

	value := rec.Average.Sub(prior.Average).Round(2)
	rec.FluctuationValue = value

	if prior.Average.IsZero() {
		rec.FluctuationPercentage = decimal.Zero
		rec.Significant = false
		return rec, true
	}

	pct := value.Div(prior.Average).Mul(hundred).Round(2)
	rec.FluctuationPercentage = pct
	rec.Significant = pct.Abs().GreaterThanOrEqual(threshold)
	return rec, false
}
