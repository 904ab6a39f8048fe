package core

import "sort"

// DailyTotal is the income and expense booked on one calendar day.
type DailyTotal struct {
	Date    Date
	Income  float64
	Expense float64
}

// Summarize totals income and expense over rows. Rows in any other
// category are ignored.
func Summarize(rows []Transaction) Summary {
	var s Summary
	for _, t := range rows {
		switch t.Category {
		case Income:
			s.TotalIncome += t.Amount
		case Expense:
			s.TotalExpense += t.Amount
		}
	}
	s.NetSavings = s.TotalIncome - s.TotalExpense
	return s
}

// DailyTotals groups rows by day, ascending. Days carrying only one
// category report zero for the other.
func DailyTotals(rows []Transaction) []DailyTotal {
	byDay := make(map[Date]*DailyTotal)
	for _, t := range rows {
		dt, ok := byDay[t.Date]
		if !ok {
			dt = &DailyTotal{Date: t.Date}
			byDay[t.Date] = dt
		}
		switch t.Category {
		case Income:
			dt.Income += t.Amount
		case Expense:
			dt.Expense += t.Amount
		}
	}
	out := make([]DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
