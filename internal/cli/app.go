package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/prompt"
	"ledger/internal/report"
	"ledger/internal/services"
)

const menu = `
1. Add a new transaction
2. View transactions and summary within a date range
3. Exit
`

// App runs the menu driven session.
type App struct {
	ledger   *services.LedgerService
	prompter *prompt.Prompter
	exporter *report.Exporter
	out      io.Writer
	logger   *log.Logger
}

func NewApp(ledger *services.LedgerService, prompter *prompt.Prompter, exporter *report.Exporter, out io.Writer, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &App{
		ledger:   ledger,
		prompter: prompter,
		exporter: exporter,
		out:      out,
		logger:   logger.WithComponent(log.ComponentCLI),
	}
}

// Run loops over the menu until the user exits, input ends or ctx is
// cancelled. Input and storage errors of one action are reported and the
// loop continues.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(a.out, menu)
		choice, err := a.prompter.Line("Enter your choice (1-3): ")
		if err != nil {
			return a.endOfInput(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = a.add(ctx)
		case "2":
			err = a.view(ctx)
		case "3":
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Enter 1, 2, or 3.")
			continue
		}

		if errors.Is(err, io.EOF) {
			return a.endOfInput(err)
		}
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (a *App) add(ctx context.Context) error {
	if err := a.ledger.Initialize(ctx); err != nil {
		return err
	}
	tx, err := a.prompter.Transaction()
	if err != nil {
		return err
	}
	if err := a.ledger.AddTransaction(ctx, tx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Entry added successfully!")
	return nil
}

func (a *App) view(ctx context.Context) error {
	start, err := a.prompter.Date("Enter the start date (dd-mm-yyyy): ", false)
	if err != nil {
		return err
	}
	end, err := a.prompter.Date("Enter the end date (dd-mm-yyyy): ", false)
	if err != nil {
		return err
	}

	res, err := a.ledger.Transactions(ctx, start.String(), end.String())
	if err != nil {
		return err
	}
	if len(res.Rows) == 0 {
		fmt.Fprintln(a.out, "No transactions found in the given date range.")
		return nil
	}
	if err := report.WriteTransactions(a.out, start, end, res.Rows, res.Summary); err != nil {
		return err
	}
	if res.MalformedRows > 0 {
		fmt.Fprintf(a.out, "Warning: %d row(s) had an unreadable amount and were counted as 0.\n", res.MalformedRows)
	}

	return a.offerChart(ctx, start, end, res.Rows, res.Summary)
}

func (a *App) offerChart(ctx context.Context, start, end core.Date, rows []core.Transaction, summary core.Summary) error {
	save, err := a.prompter.Confirm("Do you want to save the plot? (y/n): ")
	if err != nil || !save {
		return err
	}
	if err := a.exporter.Save(ctx, start, end, rows, summary); err != nil {
		a.logger.ErrorContext(ctx, "Failed to export report",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		return err
	}
	a.logger.InfoContext(ctx, "Report exported",
		log.FieldOutputFile, a.exporter.PlotFile,
		log.FieldOperation, log.OpExport)
	fmt.Fprintf(a.out, "Plot saved as '%s'.\n", a.exporter.PlotFile)
	return nil
}

func (a *App) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(a.out, "\nExiting...")
		return nil
	}
	return err
}
