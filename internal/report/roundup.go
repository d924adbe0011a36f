package report

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// allowedSteps are the recognized round-up granularities, in rubles.
var allowedSteps = []int64{10, 50, 100}

const monthFormat = "2006-01"

// RoundUp estimates how much would accumulate in a savings pot if every
// expense in the given month were rounded up to the nearest multiple of
// step. Credits never contribute. The total is rounded to 2 decimal
// places only at the end.
func (a *Aggregator) RoundUp(transactions []types.Transaction, month string, step int64) (*types.RoundUpResult, error) {
	if _, err := time.Parse(monthFormat, month); err != nil {
		return nil, &ValidationError{Field: "month", Reason: "must match YYYY-MM"}
	}
	if !slices.Contains(allowedSteps, step) {
		return nil, &ValidationError{Field: "step", Reason: "must be one of 10, 50 or 100"}
	}

	stepAmount := decimal.NewFromInt(step)
	total := decimal.Zero
	var counted int
	for _, t := range transactions {
		if !t.IsDebit() || t.Date.Format(monthFormat) != month {
			continue
		}
		spent := t.Amount.Abs()
		rounded := spent.Div(stepAmount).Ceil().Mul(stepAmount)
		total = total.Add(rounded.Sub(spent))
		counted++
	}

	a.logger.Info("Computed round-up savings",
		"month", month,
		"step", step,
		"expenses", counted,
		"investment_amount", total.Round(2))

	return &types.RoundUpResult{
		Month:            month,
		InvestmentAmount: total.Round(2),
	}, nil
}
