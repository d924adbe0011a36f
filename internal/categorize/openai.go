package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/lox/bank-transaction-reports/internal/types"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxAttempts = 3
)

// OpenAIConfig holds the configuration for the OpenAI-backed labeler.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxAttempts int
	Logger      *log.Logger
}

// NewOpenAIConfig creates a config with sensible defaults.
func NewOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:       defaultModel,
		MaxAttempts: defaultMaxAttempts,
	}
}

func (c OpenAIConfig) WithAPIKey(key string) OpenAIConfig {
	c.APIKey = key
	return c
}

func (c OpenAIConfig) WithBaseURL(url string) OpenAIConfig {
	c.BaseURL = url
	return c
}

func (c OpenAIConfig) WithModel(model string) OpenAIConfig {
	c.Model = model
	return c
}

func (c OpenAIConfig) WithMaxAttempts(attempts int) OpenAIConfig {
	c.MaxAttempts = attempts
	return c
}

func (c OpenAIConfig) WithLogger(logger *log.Logger) OpenAIConfig {
	c.Logger = logger
	return c
}

// Validate checks that the config is valid.
func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// OpenAILabeler assigns categories via OpenAI tool calling. Invalid
// categories are fed back to the model for correction up to
// MaxAttempts times.
type OpenAILabeler struct {
	logger      *log.Logger
	client      *openai.Client
	model       string
	maxAttempts int
}

var _ Labeler = (*OpenAILabeler)(nil)

// NewOpenAILabeler creates a labeler from the given config.
func NewOpenAILabeler(config OpenAIConfig) (*OpenAILabeler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid labeler config: %w", err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAILabeler{
		logger:      config.Logger,
		client:      openai.NewClientWithConfig(clientConfig),
		model:       config.Model,
		maxAttempts: config.MaxAttempts,
	}, nil
}

type categoryArguments struct {
	Category string `json:"category"`
}

// Label classifies a single transaction into one of AllowedCategories.
func (l *OpenAILabeler) Label(ctx context.Context, t types.Transaction) (string, error) {
	prompt := fmt.Sprintf(`Classify the following bank transaction into exactly one spending category.

Description: %s
Amount: %s %s
From: %s
To: %s

Call the assign_category function with the chosen category. Use only these categories:
%s`,
		t.Description, t.Amount, t.Currency, t.From, t.To, categoryGuidelines())

	chatMessages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a financial transaction classifier. You must call the assign_category function with one of the allowed categories. DO NOT explain your reasoning or add comments.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		},
	}

	assignCategoryTool := openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "assign_category",
			Description: "Assign a spending category to a bank transaction",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"category": map[string]any{
						"type":        "string",
						"enum":        AllowedCategories,
						"description": "The spending category of the transaction",
					},
				},
				"required": []string{"category"},
			},
			Strict: true,
		},
	}

	var lastError error
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		l.logger.Debug("Running categorization attempt", "attempt", attempt, "id", t.ID)

		resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:      l.model,
			Messages:   chatMessages,
			Tools:      []openai.Tool{assignCategoryTool},
			ToolChoice: "auto",
		})
		if err != nil {
			lastError = err
			continue
		}

		if len(resp.Choices) == 0 {
			lastError = fmt.Errorf("no choices in response")
			continue
		}

		message := resp.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			lastError = fmt.Errorf("no tool calls in response")
			continue
		}

		toolCall := message.ToolCalls[0]
		category, err := parseToolCall(toolCall)
		if err == nil {
			l.logger.Debug("Transaction categorized",
				"id", t.ID,
				"description", t.Description,
				"category", category)
			return category, nil
		}
		l.logger.Debug("Tool call validation failed", "error", err)
		lastError = err

		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Previous tool call arguments:\n%s\nError: %s\nPlease correct your response using only allowed values.",
				toolCall.Function.Arguments, err),
		})
	}

	return "", fmt.Errorf("failed to get valid category after %d attempts: %w", l.maxAttempts, lastError)
}

func parseToolCall(toolCall openai.ToolCall) (string, error) {
	if toolCall.Function.Name != "assign_category" {
		return "", fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
	}
	var args categoryArguments
	if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("invalid JSON in tool call arguments: %w", err)
	}
	if err := validateCategory(args.Category); err != nil {
		return "", err
	}
	return args.Category, nil
}

func categoryGuidelines() string {
	var sb strings.Builder
	for _, c := range AllowedCategories {
		sb.WriteString(fmt.Sprintf("- %s\n", c))
	}
	return sb.String()
}
