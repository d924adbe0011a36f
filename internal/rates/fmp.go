package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// FMPConfig holds configuration for the Financial Modeling Prep quote
// client.
type FMPConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RetryAttempts uint
	Logger        *log.Logger
}

func NewFMPConfig() FMPConfig {
	return FMPConfig{
		BaseURL:       "https://financialmodelingprep.com/api/v3",
		Timeout:       10 * time.Second,
		RetryAttempts: 3,
	}
}

func (c FMPConfig) WithBaseURL(baseURL string) FMPConfig {
	c.BaseURL = baseURL
	return c
}
func (c FMPConfig) WithAPIKey(apiKey string) FMPConfig {
	c.APIKey = apiKey
	return c
}
func (c FMPConfig) WithTimeout(timeout time.Duration) FMPConfig {
	c.Timeout = timeout
	return c
}
func (c FMPConfig) WithRetryAttempts(attempts uint) FMPConfig {
	c.RetryAttempts = attempts
	return c
}
func (c FMPConfig) WithLogger(logger *log.Logger) FMPConfig {
	c.Logger = logger
	return c
}

func (c FMPConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("quote service base URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("quote service api key is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	if c.RetryAttempts == 0 {
		return fmt.Errorf("retry attempts must be greater than 0")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// FMPResolver resolves ticker symbols to their latest quoted price.
type FMPResolver struct {
	config     FMPConfig
	httpClient *http.Client
	logger     *log.Logger
}

type fmpQuote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

func NewFMPResolver(config FMPConfig) (*FMPResolver, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &FMPResolver{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
	}, nil
}

func (r *FMPResolver) Resolve(ctx context.Context, symbol string) (decimal.Decimal, error) {
	baseURL, err := url.Parse(r.config.BaseURL)
	if err != nil {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: fmt.Errorf("invalid base URL: %w", err)}
	}
	quoteURL := baseURL.JoinPath("quote-short", symbol)
	query := quoteURL.Query()
	query.Set("apikey", r.config.APIKey)
	quoteURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", quoteURL.String(), nil)
	if err != nil {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: err}
	}

	var quotes []fmpQuote
	err = retry.Do(
		func() error {
			resp, err := r.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to make request: %w", err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("quote service returned status %d: %s", resp.StatusCode, body)
			}
			if err := json.Unmarshal(body, &quotes); err != nil {
				r.logger.Debug("Failed to unmarshal quote response", "body", string(body), "error", err)
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.config.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("Retrying quote request", "attempt", n+1, "max_attempts", r.config.RetryAttempts, "error", err)
		}),
	)
	if err != nil {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: err}
	}

	for _, quote := range quotes {
		if quote.Symbol == symbol {
			r.logger.Debug("Resolved stock quote", "stock", symbol, "price", quote.Price)
			return quote.Price, nil
		}
	}
	return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: fmt.Errorf("symbol not present in quote response")}
}

var _ Resolver = (*FMPResolver)(nil)
