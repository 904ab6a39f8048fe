package core

import "testing"

func TestSummarize(t *testing.T) {
	rows := []Transaction{
		{Date: NewDate(2024, 1, 1), Amount: 100, Category: Income},
		{Date: NewDate(2024, 1, 2), Amount: 40, Category: Expense},
	}
	s := Summarize(rows)
	if s.TotalIncome != 100 || s.TotalExpense != 40 || s.NetSavings != 60 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	if s := Summarize(nil); s != (Summary{}) {
		t.Fatalf("empty input should give zero summary, got %+v", s)
	}

	rows = append(rows, Transaction{Date: NewDate(2024, 1, 3), Amount: 500, Category: "Transfer"})
	if s := Summarize(rows); s.TotalIncome != 100 || s.TotalExpense != 40 {
		t.Fatalf("unknown categories must not count: %+v", s)
	}
}

func TestSummarizeNegativeNet(t *testing.T) {
	s := Summarize([]Transaction{
		{Date: NewDate(2024, 1, 1), Amount: 10, Category: Income},
		{Date: NewDate(2024, 1, 1), Amount: 25, Category: Expense},
	})
	if s.NetSavings != -15 {
		t.Fatalf("expected -15, got %v", s.NetSavings)
	}
}

func TestDailyTotals(t *testing.T) {
	rows := []Transaction{
		{Date: NewDate(2024, 1, 3), Amount: 5, Category: Expense},
		{Date: NewDate(2024, 1, 1), Amount: 100, Category: Income},
		{Date: NewDate(2024, 1, 3), Amount: 7, Category: Expense},
		{Date: NewDate(2024, 1, 1), Amount: 20, Category: Expense},
	}
	got := DailyTotals(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if got[0].Date != NewDate(2024, 1, 1) || got[0].Income != 100 || got[0].Expense != 20 {
		t.Fatalf("unexpected first day: %+v", got[0])
	}
	if got[1].Date != NewDate(2024, 1, 3) || got[1].Income != 0 || got[1].Expense != 12 {
		t.Fatalf("unexpected second day: %+v", got[1])
	}

	if len(DailyTotals(nil)) != 0 {
		t.Fatalf("expected no days for empty input")
	}
}
