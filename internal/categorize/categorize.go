// Package categorize assigns spending categories to transactions that
// arrived without one, using an LLM behind a small tool-calling loop.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// AllowedCategories is the closed set of categories the labeler may
// assign. Reports match against these case-insensitively.
var AllowedCategories = []string{
	"Супермаркеты",
	"Фастфуд",
	"Переводы",
	"Пополнения",
	"Связь",
	"Транспорт",
	"Каршеринг",
	"Медицина",
	"Развлечения",
	"Разное",
}

// Labeler assigns a category from AllowedCategories to a transaction.
type Labeler interface {
	Label(ctx context.Context, t types.Transaction) (string, error)
}

// Apply fills in the category of every transaction that lacks one,
// leaving existing categories untouched. A failed labeling skips that
// transaction and keeps going; only context cancellation aborts the
// batch.
func Apply(ctx context.Context, logger *log.Logger, labeler Labeler, transactions []types.Transaction) ([]types.Transaction, error) {
	startTime := time.Now()
	labeled := make([]types.Transaction, len(transactions))
	copy(labeled, transactions)

	var assigned, failed int
	for i, t := range labeled {
		if t.Category != "" {
			continue
		}

		category, err := labeler.Label(ctx, t)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			logger.Warn("Failed to categorize transaction",
				"id", t.ID,
				"description", t.Description,
				"error", err)
			failed++
			continue
		}

		labeled[i].Category = category
		assigned++
	}

	logger.Info("Categorization completed",
		"total", len(labeled),
		"assigned", assigned,
		"failed", failed,
		"duration", time.Since(startTime))
	return labeled, nil
}

func validateCategory(category string) error {
	if !slices.Contains(AllowedCategories, category) {
		return fmt.Errorf("category '%s' is not an allowed value", category)
	}
	return nil
}
