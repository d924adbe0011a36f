package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/bank-transaction-reports/internal/commands"
	"github.com/lox/bank-transaction-reports/internal/mcp"
	"github.com/lox/bank-transaction-reports/internal/report"
)

type CLI struct {
	commands.CommonConfig
	commands.QuoteConfig
	commands.CategorizeConfig
}

func (c *CLI) Run() error {
	logger, err := commands.SetupLogger(c.LogLevel)
	if err != nil {
		return err
	}

	if err := commands.ValidateSymbols(c.Currencies, c.Stocks); err != nil {
		return err
	}

	ctx := context.Background()
	transactions, err := commands.LoadTransactions(ctx, logger, c.Input, false)
	if err != nil {
		return err
	}

	transactions, err = commands.MaybeCategorize(ctx, logger, c.CategorizeConfig, transactions)
	if err != nil {
		return err
	}

	currencies, stocks, err := commands.SetupResolvers(logger, c.QuoteConfig)
	if err != nil {
		return err
	}

	aggregator := report.New(logger, currencies, stocks, c.BaseCurrency)
	server := mcp.New(transactions, aggregator, c.Currencies, c.Stocks, logger)
	logger.Info("Starting MCP server", "transactions", len(transactions))
	return server.Run()
}

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bank-report-mcp-server"),
		kong.Description("Serve bank transaction reports over MCP"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
