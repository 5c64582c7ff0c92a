// Package target validates and formats the number a progress task is aimed at.
package target

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/elitectl/internal/errors"
)

// DefaultPattern accepts Indonesian numbers in international format.
const DefaultPattern = "+62*"

// CountryCode is the calling code FormatNumber groups digits for.
const CountryCode = "62"

// CompletionSuffix follows the formatted target in the completion message.
const CompletionSuffix = " TELAH DI MASUKKAN BUG💀"

// EmptyPreview is shown when no number has been entered.
const EmptyPreview = "No number entered"

// Validator checks targets against a glob pattern.
type Validator struct {
	pattern string
	g       glob.Glob
}

// NewValidator compiles pattern (gobwas/glob syntax).
func NewValidator(pattern string) (*Validator, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid target pattern").
			WithField("task.target_pattern").
			WithValue(pattern).
			WithCause(err)
	}
	return &Validator{pattern: pattern, g: g}, nil
}

// Pattern returns the glob the validator was built from.
func (v *Validator) Pattern() string {
	return v.pattern
}

// Validate trims target and returns it if it matches the pattern.
func (v *Validator) Validate(target string) (string, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" || !v.g.Match(trimmed) {
		return "", errors.NewValidationError(fmt.Sprintf("target must match %s", v.pattern)).
			WithField("target").
			WithValue(trimmed).
			WithCause(errors.ErrInvalidTarget)
	}
	return trimmed, nil
}

// FormatNumber renders a number starting with the 62 calling code as
// "+62 XXX XXXX XXXX", dropping every non-digit first. Other input is
// returned unchanged.
func FormatNumber(number string) string {
	if number == "" {
		return ""
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, number)

	if !strings.HasPrefix(digits, CountryCode) {
		return number
	}

	parts := []string{"+" + CountryCode}
	for _, span := range [][2]int{{2, 5}, {5, 9}, {9, 13}} {
		if part := substring(digits, span[0], span[1]); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// Preview returns the formatted number, or EmptyPreview for blank input.
func Preview(number string) string {
	if strings.TrimSpace(number) == "" {
		return EmptyPreview
	}
	return FormatNumber(number)
}

// CompletionMessage is shown once a task against number reaches 100%.
func CompletionMessage(number string) string {
	return FormatNumber(number) + CompletionSuffix
}

func substring(s string, start, end int) string {
	if start >= len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
