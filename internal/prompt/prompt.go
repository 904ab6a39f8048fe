// Package prompt reads transaction fields from an interactive session.
//
// Each question is asked again after a validation failure, up to
// MaxAttempts times. The parsing itself is done by package core.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
)

// DefaultMaxAttempts bounds how often a single question is repeated.
const DefaultMaxAttempts = 5

var ErrTooManyAttempts = errors.New("too many invalid attempts")

type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	clock       core.Clock
	maxAttempts int
}

type Option func(*Prompter)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(p *Prompter) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithClock sets the clock used for the default transaction date.
func WithClock(clock core.Clock) Option {
	return func(p *Prompter) {
		p.clock = clock
	}
}

func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Line prints msg and returns the next input line without its terminator.
// io.EOF is returned only when no input is left at all.
func (p *Prompter) Line(msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Date asks for a DD-MM-YYYY date. With allowDefault an empty answer means
// today.
func (p *Prompter) Date(msg string, allowDefault bool) (core.Date, error) {
	return ask(p, msg, func(s string) (core.Date, error) {
		return core.ParseDate(strings.TrimSpace(s), allowDefault, p.clock)
	})
}

func (p *Prompter) Amount() (float64, error) {
	return ask(p, "Enter the amount: ", core.ParseAmount)
}

func (p *Prompter) Category() (core.Category, error) {
	return ask(p, "Enter the category ('I' for Income or 'E' for Expense): ", func(s string) (core.Category, error) {
		return core.ParseCategory(strings.TrimSpace(s))
	})
}

// Description is optional and never fails validation.
func (p *Prompter) Description() (string, error) {
	return p.Line("Enter a description (optional): ")
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func (p *Prompter) Confirm(msg string) (bool, error) {
	answer, err := p.Line(msg)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Transaction asks for every field of a new transaction in turn.
func (p *Prompter) Transaction() (core.Transaction, error) {
	date, err := p.Date("Enter the date of the transaction (dd-mm-yyyy) or ENTER for today's date: ", true)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := p.Amount()
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := p.Category()
	if err != nil {
		return core.Transaction{}, err
	}
	description, err := p.Description()
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	}, nil
}

func ask[T any](p *Prompter, msg string, parse func(string) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		answer, err := p.Line(msg)
		if err != nil {
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		lastErr = err
		fmt.Fprintln(p.out, capitalize(err.Error()))
	}
	return zero, fmt.Errorf("%w: %w", ErrTooManyAttempts, lastErr)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
