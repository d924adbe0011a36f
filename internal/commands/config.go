package commands

// CommonConfig contains configuration common to all commands
type CommonConfig struct {
	// Input is the path to the transactions export
	Input string `help:"Path to transactions file (.json, .csv or .xlsx)" required:""`
	// LogLevel is the logging level to use
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
	// BaseCurrency is the currency monetary outputs are expressed in
	BaseCurrency string `help:"Currency card totals are expressed in" default:"RUB" env:"BASE_CURRENCY"`
	// NoProgress disables the progress bar
	NoProgress bool `help:"Disable progress bar" default:"false"`
}

// QuoteConfig contains flag definitions for the market data providers
type QuoteConfig struct {
	// CBRURL is the exchange rates document endpoint
	CBRURL string `help:"Exchange rates document URL" default:"https://www.cbr-xml-daily.ru/daily_json.js" env:"CBR_DAILY_URL"`
	// FMPBaseURL is the stock quote API base URL
	FMPBaseURL string `help:"Stock quote API base URL" default:"https://financialmodelingprep.com/api/v3" env:"FMP_BASE_URL"`
	// FMPAPIKey is the API key for the stock quote provider
	FMPAPIKey string `help:"Financial Modeling Prep API key" env:"FMP_API_KEY"`
	// Currencies are the currency codes shown on the dashboard
	Currencies []string `help:"Currency codes to quote" default:"USD,EUR"`
	// Stocks are the ticker symbols shown on the dashboard
	Stocks []string `help:"Stock tickers to quote" default:"AAPL,AMZN,GOOGL,MSFT,TSLA"`
}

// CategorizeConfig contains flag definitions for LLM categorization
type CategorizeConfig struct {
	// Categorize enables filling in missing categories before reporting
	Categorize bool `help:"Categorize transactions that arrived without a category" default:"false"`
	// OpenAIAPIKey is the API key for the categorization model
	OpenAIAPIKey string `help:"OpenAI API key" env:"OPENAI_API_KEY"`
	// OpenAIModel is the model used for categorization
	OpenAIModel string `help:"Model to use for categorization" default:"gpt-4o-mini" env:"OPENAI_MODEL"`
}
