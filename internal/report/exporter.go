package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
)

const (
	DefaultPlotFile    = "income_expense_plot.png"
	DefaultSummaryFile = "income_expense_summary.txt"
)

// Exporter writes a query result to disk as a chart and a text summary.
type Exporter struct {
	PlotFile    string
	SummaryFile string
}

func NewExporter(plotFile, summaryFile string) *Exporter {
	if plotFile == "" {
		plotFile = DefaultPlotFile
	}
	if summaryFile == "" {
		summaryFile = DefaultSummaryFile
	}
	return &Exporter{PlotFile: plotFile, SummaryFile: summaryFile}
}

// Save writes both files concurrently. The rows must not be empty.
func (e *Exporter) Save(ctx context.Context, start, end core.Date, rows []core.Transaction, summary core.Summary) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	totals := core.DailyTotals(rows)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeFile(ctx, e.PlotFile, func(w io.Writer) error {
			return RenderChart(w, totals)
		})
	})
	g.Go(func() error {
		return writeFile(ctx, e.SummaryFile, func(w io.Writer) error {
			return WriteTransactions(w, start, end, rows, summary)
		})
	})
	return g.Wait()
}

func writeFile(ctx context.Context, path string, render func(io.Writer) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := render(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
