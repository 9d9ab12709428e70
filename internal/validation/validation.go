// Package validation checks usernames, passwords and amounts supplied by callers.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const minPasswordLength = 8

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

	// MinAmount is the smallest amount accepted by ParseAmount.
	MinAmount = decimal.RequireFromString("0.01")
	// MaxAmount is the largest amount accepted by ParseAmount.
	MaxAmount = decimal.NewFromInt(10_000_000)
)

var (
	ErrAmountFormat    = errors.New("amount is not a decimal number")
	ErrAmountPrecision = errors.New("amount has more than 2 decimal places")
	ErrAmountRange     = fmt.Errorf("amount must be between %s and %s", MinAmount, MaxAmount)
	ErrAmountNegative  = errors.New("amount must not be negative")
	ErrAmountPositive  = errors.New("amount must be positive")
)

// IsValidUsername reports whether username is 3-20 ASCII letters, digits or
// underscores.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidPassword reports whether password has at least 8 characters and
// contains a lowercase letter, an uppercase letter, a digit and a special
// character. Whitespace and underscores are not special.
func IsValidPassword(password string) bool {
	if len([]rune(password)) < minPasswordLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case isSpecial(r):
			special = true
		}
	}

	return lower && upper && digit && special
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) && r != '_'
}

// ParseAmount parses a user supplied amount such as "1,234.50". Thousands
// separators are ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return decimal.Decimal{}, ErrAmountFormat
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, ErrAmountFormat
	}

	// "1.000" has the value of "1" but was written with three places.
	if amount.Exponent() < -2 {
		return decimal.Decimal{}, ErrAmountPrecision
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}

	return amount, nil
}

// ValidateAmount checks precision and the [MinAmount, MaxAmount] range.
func ValidateAmount(amount decimal.Decimal) error {
	if err := ValidatePrecision(amount); err != nil {
		return err
	}
	if amount.LessThan(MinAmount) || amount.GreaterThan(MaxAmount) {
		return ErrAmountRange
	}
	return nil
}

// ValidatePrecision checks that amount has at most two decimal places.
func ValidatePrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return ErrAmountPrecision
	}
	return nil
}

// ValidateTransferAmount checks that amount is positive with at most two
// decimal places.
func ValidateTransferAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountPositive
	}
	return ValidatePrecision(amount)
}

// ValidateBalance checks that balance is non-negative with at most two
// decimal places.
func ValidateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrAmountNegative
	}
	return ValidatePrecision(balance)
}
