// Package core provides the ledger's field parsing and aggregation.
//
// The parsers turn raw user input into canonical transaction fields or
// return an error wrapping one of ErrInvalidFormat, ErrInvalidAmount or
// ErrInvalidCategory. They never read input themselves and never retry.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current time for default dates.
type Clock func() time.Time

// decimalPattern admits plain and exponent notation only; hex floats,
// underscores, NaN and Inf are not amounts.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

var categoryCodes = map[string]Category{
	"I": Income,
	"E": Expense,
}

// ParseDate parses text in DD-MM-YYYY form.
//
// Empty text with allowDefault set yields today's date according to clock
// (time.Now when clock is nil). No other layouts are accepted.
//
// Examples:
//   ParseDate("01-02-2024", false, nil) -> 1 February 2024
//   ParseDate("", true, clock)          -> clock's calendar day
//   ParseDate("2024-02-01", false, nil) -> ErrInvalidFormat
func ParseDate(text string, allowDefault bool, clock Clock) (Date, error) {
	if allowDefault && text == "" {
		if clock == nil {
			clock = time.Now
		}
		return DateOf(clock()), nil
	}
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return Date{}, fmt.Errorf("%w: please use %s", ErrInvalidFormat, DatePattern)
	}
	return Date{Time: t}, nil
}

// ParseDecimal parses a finite decimal number, ignoring surrounding
// whitespace.
func ParseDecimal(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if !decimalPattern.MatchString(text) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, text)
	}
	return v, nil
}

// ParseAmount parses a positive decimal amount such as "12" or "12.50".
func ParseAmount(text string) (float64, error) {
	v, err := ParseDecimal(text)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: amount must be a positive non-zero value", ErrInvalidAmount)
	}
	return v, nil
}

// ParseCategory maps the single-letter codes I and E, in either case.
// Surrounding whitespace is not stripped.
func ParseCategory(code string) (Category, error) {
	if c, ok := categoryCodes[strings.ToUpper(code)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: please enter 'I' for Income or 'E' for Expense", ErrInvalidCategory)
}

// FormatAmount renders an amount in the shortest form that parses back to
// the same value.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
