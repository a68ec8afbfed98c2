package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitshare/internal/models"
)

var (
	// amountTolerance absorbs independent per-entry rounding (two cents).
	amountTolerance = decimal.RequireFromString("0.02")

	// percentageTolerance is the allowed deviation of the percentage sum from 100.
	percentageTolerance = decimal.RequireFromString("0.1")
)

// ComputeAggregates sums the entries and checks them against the expense total.
//
// The sums are accumulated in decimal so the validity checks compare the
// values the caller sees, not their binary approximations:
//
//	IsAmountValid     = |sum(amount) - total| < 0.02
//	IsPercentageValid = |sum(percentage) - 100| < 0.1
//
// An empty entry list is valid input; its sums are zero.
func ComputeAggregates(entries []models.ShareEntry, total float64) models.Aggregates {
	sumAmount := decimal.Zero
	sumPercentage := decimal.Zero
	for _, e := range entries {
		sumAmount = sumAmount.Add(decimal.NewFromFloat(e.Amount))
		sumPercentage = sumPercentage.Add(decimal.NewFromFloat(e.Percentage))
	}

	return models.Aggregates{
		TotalAmount:       sumAmount.InexactFloat64(),
		TotalPercentage:   sumPercentage.InexactFloat64(),
		IsAmountValid:     sumAmount.Sub(decimalOrZero(total)).Abs().LessThan(amountTolerance),
		IsPercentageValid: sumPercentage.Sub(hundred).Abs().LessThan(percentageTolerance),
	}
}

// Problems returns the user-facing reasons a split cannot be submitted under
// the given strategy. It returns nil when the split can be submitted.
func Problems(strategy models.Strategy, total float64, agg models.Aggregates) []string {
	if agg.CanSubmit(strategy) {
		return nil
	}
	if strategy == models.StrategyPercentage {
		return []string{"Total must be 100%"}
	}
	diff := decimalOrZero(total).Sub(decimal.NewFromFloat(agg.TotalAmount))
	return []string{fmt.Sprintf("Total must equal $%s (Diff: $%s)",
		decimalOrZero(total).StringFixed(2), diff.StringFixed(2))}
}

// decimalOrZero converts a float to decimal, mapping NaN and ±Inf to zero.
func decimalOrZero(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
