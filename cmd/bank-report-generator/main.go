package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bank-transaction-reports/internal/commands"
	"github.com/lox/bank-transaction-reports/internal/export"
	"github.com/lox/bank-transaction-reports/internal/report"
	"github.com/lox/bank-transaction-reports/internal/types"
)

type CLI struct {
	commands.CommonConfig
	commands.QuoteConfig
	commands.CategorizeConfig

	Dashboard DashboardCmd `cmd:"" help:"Build the main-page dashboard for a reference date"`
	Roundup   RoundupCmd   `cmd:"" help:"Estimate round-up savings for a month"`
	Category  CategoryCmd  `cmd:"" help:"Report spending in one category over the trailing 3 months"`
	All       AllCmd       `cmd:"" help:"Build all three reports concurrently"`
}

type DashboardCmd struct {
	AsOf string `help:"Reference timestamp (YYYY-MM-DD HH:MM:SS, default: now)"`
}

type RoundupCmd struct {
	Month string `help:"Month to analyze (YYYY-MM)" required:""`
	Step  int64  `help:"Rounding step (10, 50 or 100)" default:"50"`
}

type CategoryCmd struct {
	Name      string `help:"Spending category to report on" required:""`
	Reference string `help:"Reference date (YYYY-MM-DD, default: today)"`
	Output    string `help:"Write the report to a file (.json, .csv or .xlsx) instead of stdout"`
}

type AllCmd struct {
	AsOf  string `help:"Reference timestamp for the dashboard (default: now)"`
	Month string `help:"Month for the round-up estimate (YYYY-MM)" required:""`
	Step  int64  `help:"Rounding step (10, 50 or 100)" default:"50"`
	Name  string `help:"Spending category to report on" required:""`
}

// session bundles everything a subcommand needs after common setup.
type session struct {
	ctx          context.Context
	transactions []types.Transaction
	aggregator   *report.Aggregator
	cli          *CLI
}

func setup(cli *CLI) (*session, error) {
	logger, err := commands.SetupLogger(cli.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := commands.ValidateSymbols(cli.Currencies, cli.Stocks); err != nil {
		return nil, err
	}

	ctx := context.Background()
	transactions, err := commands.LoadTransactions(ctx, logger, cli.Input, !cli.NoProgress)
	if err != nil {
		return nil, err
	}

	transactions, err = commands.MaybeCategorize(ctx, logger, cli.CategorizeConfig, transactions)
	if err != nil {
		return nil, err
	}

	currencies, stocks, err := commands.SetupResolvers(logger, cli.QuoteConfig)
	if err != nil {
		return nil, err
	}

	return &session{
		ctx:          ctx,
		transactions: transactions,
		aggregator:   report.New(logger, currencies, stocks, cli.BaseCurrency),
		cli:          cli,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", value)
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func (c *DashboardCmd) Run(cli *CLI) error {
	s, err := setup(cli)
	if err != nil {
		return err
	}

	asOf, err := parseTimestamp(c.AsOf)
	if err != nil {
		return err
	}

	dashboard, err := s.aggregator.Dashboard(s.ctx, s.transactions, asOf, cli.Currencies, cli.Stocks)
	if err != nil {
		return err
	}
	return printJSON(dashboard)
}

func (c *RoundupCmd) Run(cli *CLI) error {
	s, err := setup(cli)
	if err != nil {
		return err
	}

	result, err := s.aggregator.RoundUp(s.transactions, c.Month, c.Step)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (c *CategoryCmd) Run(cli *CLI) error {
	s, err := setup(cli)
	if err != nil {
		return err
	}

	reference, err := parseTimestamp(c.Reference)
	if err != nil {
		return err
	}

	rows := s.aggregator.SpendingByCategory(s.transactions, c.Name, reference)
	if c.Output != "" {
		logger, err := commands.SetupLogger(cli.LogLevel)
		if err != nil {
			return err
		}
		return export.ToFile(logger, c.Output, rows)
	}
	return printJSON(rows)
}

// combinedReport is the output shape of the all command.
type combinedReport struct {
	Dashboard *types.Dashboard     `json:"dashboard"`
	RoundUp   *types.RoundUpResult `json:"round_up"`
	Category  []types.CategoryRow  `json:"category_spending"`
}

func (c *AllCmd) Run(cli *CLI) error {
	s, err := setup(cli)
	if err != nil {
		return err
	}

	asOf, err := parseTimestamp(c.AsOf)
	if err != nil {
		return err
	}

	var combined combinedReport
	g, gCtx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		dashboard, err := s.aggregator.Dashboard(gCtx, s.transactions, asOf, cli.Currencies, cli.Stocks)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		combined.Dashboard = dashboard
		return nil
	})
	g.Go(func() error {
		result, err := s.aggregator.RoundUp(s.transactions, c.Month, c.Step)
		if err != nil {
			return fmt.Errorf("round-up: %w", err)
		}
		combined.RoundUp = result
		return nil
	})
	g.Go(func() error {
		combined.Category = s.aggregator.SpendingByCategory(s.transactions, c.Name, asOf)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(combined)
}

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bank-report-generator"),
		kong.Description("Generate dashboards and spending reports from bank transaction exports"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
