package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// CBRConfig holds configuration for the Central Bank of Russia daily
// rates client.
type CBRConfig struct {
	URL           string
	Timeout       time.Duration
	RetryAttempts uint
	Logger        *log.Logger
}

func NewCBRConfig() CBRConfig {
	return CBRConfig{
		URL:           "https://www.cbr-xml-daily.ru/daily_json.js",
		Timeout:       10 * time.Second,
		RetryAttempts: 3,
	}
}

func (c CBRConfig) WithURL(url string) CBRConfig {
	c.URL = url
	return c
}
func (c CBRConfig) WithTimeout(timeout time.Duration) CBRConfig {
	c.Timeout = timeout
	return c
}
func (c CBRConfig) WithRetryAttempts(attempts uint) CBRConfig {
	c.RetryAttempts = attempts
	return c
}
func (c CBRConfig) WithLogger(logger *log.Logger) CBRConfig {
	c.Logger = logger
	return c
}

func (c CBRConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rates service URL is required")
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

// CBRResolver resolves currency codes against the CBR daily rates feed.
// Each Resolve fetches the full document; wrap it in a Cached resolver
// to avoid duplicate round-trips within one aggregation.
type CBRResolver struct {
	config     CBRConfig
	httpClient *http.Client
	logger     *log.Logger
}

type cbrResponse struct {
	Valute map[string]struct {
		Value   decimal.Decimal `json:"Value"`
		Nominal int64           `json:"Nominal"`
	} `json:"Valute"`
}

func NewCBRResolver(config CBRConfig) (*CBRResolver, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &CBRResolver{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
	}, nil
}

func (r *CBRResolver) Resolve(ctx context.Context, symbol string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.config.URL, nil)
	if err != nil {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: err}
	}

	var daily cbrResponse
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
				return fmt.Errorf("rates service returned status %d: %s", resp.StatusCode, body)
			}
			if err := json.Unmarshal(body, &daily); err != nil {
				r.logger.Debug("Failed to unmarshal rates response", "body", string(body), "error", err)
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
			if len(daily.Valute) == 0 {
				return fmt.Errorf("no rates returned from service")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.config.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("Retrying rates request", "attempt", n+1, "max_attempts", r.config.RetryAttempts, "error", err)
		}),
	)
	if err != nil {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: err}
	}

	currency, ok := daily.Valute[symbol]
	if !ok {
		return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: fmt.Errorf("currency not present in daily rates")}
	}

	rate := currency.Value
	if currency.Nominal > 1 {
		rate = rate.Div(decimal.NewFromInt(currency.Nominal))
	}
	r.logger.Debug("Resolved currency rate", "currency", symbol, "rate", rate)
	return rate, nil
}

var _ Resolver = (*CBRResolver)(nil)
