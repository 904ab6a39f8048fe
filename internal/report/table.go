// Package report renders query results for people: a console table with
// a summary block, and a PNG chart of income and expense over time.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"ledger/internal/core"
)

// WriteTransactions writes the rows as a table followed by the summary.
func WriteTransactions(w io.Writer, start, end core.Date, rows []core.Transaction, summary core.Summary) error {
	if _, err := fmt.Fprintf(w, "Transactions from %s to %s:\n", start, end); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Amount", "Category", "Description"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})
	for _, tx := range rows {
		table.Append([]string{
			tx.Date.String(),
			fmt.Sprintf("%.2f", tx.Amount),
			tx.Category.String(),
			tx.Description,
		})
	}
	table.Render()

	return WriteSummary(w, summary)
}

// WriteSummary writes income, expense and net saving with two decimals.
func WriteSummary(w io.Writer, summary core.Summary) error {
	_, err := fmt.Fprintf(w, "\nSummary:\nIncome: %.2f\nExpense: %.2f\nNet Saving: %.2f\n",
		summary.TotalIncome, summary.TotalExpense, summary.NetSavings)
	return err
}
