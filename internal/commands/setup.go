package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/bank-transaction-reports/internal/categorize"
	"github.com/lox/bank-transaction-reports/internal/ingest"
	"github.com/lox/bank-transaction-reports/internal/rates"
	"github.com/lox/bank-transaction-reports/internal/types"
)

// SetupLogger creates a stderr logger at the requested level.
func SetupLogger(level string) (*log.Logger, error) {
	logger := log.New(os.Stderr)
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(parsed)
	return logger, nil
}

// LoadTransactions reads and normalizes the transactions file, choosing
// the format from the file extension.
func LoadTransactions(ctx context.Context, logger *log.Logger, path string, showProgress bool) ([]types.Transaction, error) {
	var progress ingest.Progress
	if showProgress {
		progress = ingest.NewBarProgress(-1)
	} else {
		progress = ingest.NewNoopProgress()
	}

	defer progress.Close()

	registry := ingest.NewRegistry()
	registry.Register(ingest.NewJSON(logger).WithProgress(progress))
	registry.Register(ingest.NewCSV(logger).WithProgress(progress))
	registry.Register(ingest.NewXLSX(logger).WithProgress(progress))

	format, ok := registry.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type '%s', supported formats: %v", path, registry.List())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening transactions file: %w", err)
	}
	defer file.Close()

	return format.Parse(ctx, file)
}

// SetupResolvers builds the currency and stock resolvers from the quote
// provider config. A missing stock API key degrades stock lookups to
// per-symbol failures rather than refusing to start; the dashboard then
// omits the stock section.
func SetupResolvers(logger *log.Logger, config QuoteConfig) (currencies rates.Resolver, stocks rates.Resolver, err error) {
	cbr, err := rates.NewCBRResolver(rates.NewCBRConfig().
		WithURL(config.CBRURL).
		WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating currency resolver: %w", err)
	}

	if config.FMPAPIKey == "" {
		logger.Warn("No stock API key configured, stock prices will be omitted")
		return cbr, &rates.Unavailable{Reason: "no API key configured"}, nil
	}

	fmp, err := rates.NewFMPResolver(rates.NewFMPConfig().
		WithBaseURL(config.FMPBaseURL).
		WithAPIKey(config.FMPAPIKey).
		WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating stock resolver: %w", err)
	}
	return cbr, fmp, nil
}

// ValidateSymbols rejects malformed currency codes and tickers before
// any network traffic happens.
func ValidateSymbols(currencies, stocks []string) error {
	for _, currency := range currencies {
		if !rates.ValidCurrencyCode(currency) {
			return fmt.Errorf("invalid currency code '%s'", currency)
		}
	}
	for _, stock := range stocks {
		if !rates.ValidSymbol(stock) {
			return fmt.Errorf("invalid stock symbol '%s'", stock)
		}
	}
	return nil
}

// MaybeCategorize fills in missing categories when categorization is
// enabled, and is a no-op otherwise.
func MaybeCategorize(ctx context.Context, logger *log.Logger, config CategorizeConfig, transactions []types.Transaction) ([]types.Transaction, error) {
	if !config.Categorize {
		return transactions, nil
	}

	labeler, err := categorize.NewOpenAILabeler(categorize.NewOpenAIConfig().
		WithAPIKey(config.OpenAIAPIKey).
		WithModel(config.OpenAIModel).
		WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error creating labeler: %w", err)
	}
	return categorize.Apply(ctx, logger, labeler, transactions)
}
