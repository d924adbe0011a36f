// Package mcp exposes the report aggregators as MCP tools over stdio,
// so an LLM client can query a loaded transactions file.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lox/bank-transaction-reports/internal/report"
	"github.com/lox/bank-transaction-reports/internal/types"
)

type Server struct {
	transactions []types.Transaction
	aggregator   *report.Aggregator
	currencies   []string
	stocks       []string
	logger       *log.Logger
}

func New(transactions []types.Transaction, aggregator *report.Aggregator, currencies, stocks []string, logger *log.Logger) *Server {
	return &Server{
		transactions: transactions,
		aggregator:   aggregator,
		currencies:   currencies,
		stocks:       stocks,
		logger:       logger,
	}
}

func (s *Server) Run() error {
	mcpServer := server.NewMCPServer(
		"Bank Report Generator",
		"1.0.0",
	)

	mcpServer.AddTool(mcp.NewTool("generate_dashboard",
		mcp.WithDescription("Build the main-page dashboard: per-card spend and cashback for the month to date, top transactions, currency rates and stock prices"),
		mcp.WithString("as_of",
			mcp.Description("Reference timestamp in YYYY-MM-DD HH:MM:SS form (default: now)"),
		),
	), s.dashboardHandler)

	mcpServer.AddTool(mcp.NewTool("roundup_savings",
		mcp.WithDescription("Estimate savings from rounding every expense in a month up to the nearest multiple of a step"),
		mcp.WithString("month",
			mcp.Required(),
			mcp.Description("Month to analyze in YYYY-MM form"),
		),
		mcp.WithString("step",
			mcp.Description("Rounding step: 10, 50 or 100 (default: 50)"),
		),
	), s.roundupHandler)

	mcpServer.AddTool(mcp.NewTool("spending_by_category",
		mcp.WithDescription("List transactions in a spending category over the 3 months up to a reference date"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Spending category to report on"),
		),
		mcp.WithString("reference",
			mcp.Description("Reference date in YYYY-MM-DD form (default: today)"),
		),
	), s.categoryHandler)

	return server.ServeStdio(mcpServer)
}

func (s *Server) dashboardHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asOf := time.Now()
	if raw, ok := request.Params.Arguments["as_of"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, errors.New("as_of must be a string")
		}
		parsed, err := parseTimestamp(value)
		if err != nil {
			return nil, err
		}
		asOf = parsed
	}

	dashboard, err := s.aggregator.Dashboard(ctx, s.transactions, asOf, s.currencies, s.stocks)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return jsonResult(dashboard)
}

func (s *Server) roundupHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month, ok := request.Params.Arguments["month"].(string)
	if !ok {
		return nil, errors.New("month must be a string")
	}

	step := int64(50)
	if stepVal, ok := request.Params.Arguments["step"]; ok {
		switch v := stepVal.(type) {
		case int:
			step = int64(v)
		case float64:
			step = int64(v)
		case string:
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("step must be a valid integer: %w", err)
			}
			step = parsed
		default:
			return nil, errors.New("step must be a number or string")
		}
	}

	result, err := s.aggregator.RoundUp(s.transactions, month, step)
	if err != nil {
		return nil, fmt.Errorf("failed to compute round-up savings: %w", err)
	}
	return jsonResult(result)
}

func (s *Server) categoryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, ok := request.Params.Arguments["category"].(string)
	if !ok {
		return nil, errors.New("category must be a string")
	}

	reference := time.Now()
	if raw, ok := request.Params.Arguments["reference"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, errors.New("reference must be a string")
		}
		parsed, err := parseTimestamp(value)
		if err != nil {
			return nil, err
		}
		reference = parsed
	}

	rows := s.aggregator.SpendingByCategory(s.transactions, category, reference)
	return jsonResult(rows)
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s', expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", value)
}

func jsonResult(value any) (*mcp.CallToolResult, error) {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
