package core

import (
	"errors"
	"math"
	"time"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

// DateLayout is the canonical DD-MM-YYYY form used on disk and at the prompt.
const (
	DateLayout  = "02-01-2006"
	DatePattern = "DD-MM-YYYY"
)

type (
	Category string

	// Date is a calendar day without time component.
	Date struct {
		time.Time
	}

	Transaction struct {
		Date        Date
		Amount      float64
		Category    Category
		Description string
	}

	Summary struct {
		TotalIncome  float64
		TotalExpense float64
		NetSavings   float64
	}
)

var (
	ErrInvalidFormat   = errors.New("invalid date format")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping the wall clock date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// String renders the date in DD-MM-YYYY form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Before and After compare calendar days only.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }

// Within reports whether start <= d <= end.
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return c == Income || c == Expense
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}
