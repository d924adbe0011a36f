package report

import (
	"strings"
	"time"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// SpendingByCategory returns the transactions matching the category
// within the 3 months up to and including reference, in source order.
// The match is exact, case-normalized equality; an empty result is a
// valid outcome, not an error.
func (a *Aggregator) SpendingByCategory(transactions []types.Transaction, category string, reference time.Time) []types.CategoryRow {
	start := windowStart(reference)
	want := strings.TrimSpace(category)

	rows := make([]types.CategoryRow, 0)
	for _, t := range transactions {
		if t.Date.Before(start) || t.Date.After(reference) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(t.Category), want) {
			continue
		}
		rows = append(rows, types.CategoryRow{
			Date:        t.Date.Format(displayDateFormat),
			Amount:      t.Amount.Round(2),
			Category:    t.Category,
			Description: t.Description,
		})
	}

	a.logger.Info("Built category report",
		"category", category,
		"window_start", start.Format(displayDateFormat),
		"window_end", reference.Format(displayDateFormat),
		"rows", len(rows))
	return rows
}

// windowStart is reference minus 3 calendar months. AddDate normalizes
// days past the month end forward (Dec 31 - 3 months = Sep 31 = Oct 1);
// the window must clamp to the last day of the target month instead.
func windowStart(reference time.Time) time.Time {
	start := reference.AddDate(0, -3, 0)
	if start.Day() != reference.Day() {
		start = start.AddDate(0, 0, -start.Day())
	}
	return start
}
