// Package mask produces display-safe card and account identifiers.
// Masking is pure string work; every call also emits a diagnostic log
// entry so rejected inputs are visible without inspecting return values.
package mask

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	cardNumberLength    = 16
	accountNumberLength = 20
	cardMaskToken       = "******"
	accountMaskToken    = "**"
)

// ValidationError reports which masking constraint an input violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Config holds configuration for a Masker.
type Config struct {
	// VisibleDigits is how many trailing digits remain visible.
	VisibleDigits int
	Logger        *log.Logger
}

func NewConfig() Config {
	return Config{
		VisibleDigits: 4,
	}
}

func (c Config) WithVisibleDigits(n int) Config {
	c.VisibleDigits = n
	return c
}

func (c Config) WithLogger(logger *log.Logger) Config {
	c.Logger = logger
	return c
}

func (c Config) Validate() error {
	if c.VisibleDigits <= 0 {
		return fmt.Errorf("visible digits must be greater than 0")
	}
	// Keep the visible tail clear of the leading segment on cards.
	if c.VisibleDigits > cardNumberLength-6-len(cardMaskToken) {
		return fmt.Errorf("visible digits must not exceed %d", cardNumberLength-6-len(cardMaskToken))
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// Masker masks card and account numbers for display.
type Masker struct {
	config Config
	logger *log.Logger
}

func New(config Config) (*Masker, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Masker{
		config: config,
		logger: config.Logger,
	}, nil
}

// CardNumber masks a 16-digit card number, keeping the first 6 and the
// trailing visible digits. An empty input yields an empty output.
func (m *Masker) CardNumber(number string) (string, error) {
	if number == "" {
		m.logger.Info("Masked empty card number")
		return "", nil
	}
	if err := m.validateNumber("card number", number, cardNumberLength); err != nil {
		return "", err
	}
	masked := number[:6] + cardMaskToken + number[len(number)-m.config.VisibleDigits:]
	m.logger.Info("Masked card number", "masked", masked)
	return masked, nil
}

// Account masks a 20-digit account number, keeping the first 2 and the
// trailing visible digits. An empty input yields an empty output.
func (m *Masker) Account(number string) (string, error) {
	if number == "" {
		m.logger.Info("Masked empty account number")
		return "", nil
	}
	if err := m.validateNumber("account number", number, accountNumberLength); err != nil {
		return "", err
	}
	masked := number[:2] + accountMaskToken + number[len(number)-m.config.VisibleDigits:]
	m.logger.Info("Masked account number", "masked", masked)
	return masked, nil
}

// AccountCard masks a free-text label followed by a card or account
// number, picking the rule by digit count. Cards use the grouped display
// form "XXXX XX** **** XXXX"; accounts show only the last 4 digits.
func (m *Masker) AccountCard(labelAndNumber string) (string, error) {
	label, number := splitLabel(labelAndNumber)

	switch len(number) {
	case cardNumberLength:
		masked := fmt.Sprintf("%s %s** **** %s", number[:4], number[4:6], number[12:])
		m.logger.Info("Masked labeled card number", "masked", label+masked)
		return label + masked, nil
	case accountNumberLength:
		masked := accountMaskToken + number[len(number)-4:]
		m.logger.Info("Masked labeled account number", "masked", label+masked)
		return label + masked, nil
	default:
		err := &ValidationError{
			Field:  "card or account number",
			Reason: fmt.Sprintf("expected %d or %d digits, got %d", cardNumberLength, accountNumberLength, len(number)),
		}
		m.logger.Warn("Rejected labeled number", "input", labelAndNumber, "error", err)
		return "", err
	}
}

func (m *Masker) validateNumber(field, number string, length int) error {
	if !allDigits(number) {
		err := &ValidationError{Field: field, Reason: "must contain only digits"}
		m.logger.Warn("Rejected number", "field", field, "error", err)
		return err
	}
	if len(number) != length {
		err := &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be exactly %d digits, got %d", length, len(number)),
		}
		m.logger.Warn("Rejected number", "field", field, "error", err)
		return err
	}
	return nil
}

// splitLabel separates a trailing digit run from its leading label.
// The label keeps whatever spacing it arrived with.
func splitLabel(s string) (label, number string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// LastDigits extracts the trailing digit run of a card or account
// identifier and returns its last n digits, left-padded with zeros.
// It returns "" when the identifier carries no digits at all.
func LastDigits(identifier string, n int) string {
	_, number := splitLabel(strings.TrimSpace(identifier))
	if number == "" {
		return ""
	}
	if len(number) >= n {
		return number[len(number)-n:]
	}
	return strings.Repeat("0", n-len(number)) + number
}
