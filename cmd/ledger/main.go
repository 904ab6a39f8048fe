package main

import (
	"context"
	"fmt"
	"os"

	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/prompt"
	"ledger/internal/report"
	"ledger/internal/services"
	"ledger/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	ledger := services.NewLedgerService(
		storage.NewCSVStore(cfg.LedgerFile),
		cli.NewPublisher(logger, cfg),
		logger,
	)
	closeLedger := cli.CloseOnce(logger, ledger)
	cli.ExitOnSignal(logger, closeLedger)

	app := cli.NewApp(
		ledger,
		prompt.New(os.Stdin, os.Stdout, prompt.WithMaxAttempts(cfg.PromptMaxAttempts)),
		report.NewExporter(cfg.PlotFile, cfg.SummaryFile),
		os.Stdout,
		logger,
	)

	logger.Debug("Starting ledger", log.FieldPath, cfg.LedgerFile, log.FieldOperation, log.OpStartup)
	runErr := app.Run(context.Background())
	closeLedger()
	if runErr != nil {
		logger.Error("Ledger session failed", log.FieldError, runErr)
		os.Exit(1)
	}
}
