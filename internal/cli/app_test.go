package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/prompt"
	"ledger/internal/report"
	"ledger/internal/services"
	"ledger/internal/storage"
)

type testEnv struct {
	dir   string
	store *storage.CSVStore
	out   *bytes.Buffer
}

func runApp(t *testing.T, input string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:   dir,
		store: storage.NewCSVStore(filepath.Join(dir, storage.DefaultFile)),
		out:   &bytes.Buffer{},
	}
	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentApp, Output: io.Discard})
	clock := func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	app := NewApp(
		services.NewLedgerService(env.store, nil, logger),
		prompt.New(strings.NewReader(input), env.out, prompt.WithClock(clock), prompt.WithMaxAttempts(3)),
		report.NewExporter(filepath.Join(dir, "plot.png"), filepath.Join(dir, "summary.txt")),
		env.out,
		logger,
	)
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return env
}

func TestAppAddAndView(t *testing.T) {
	input := strings.Join([]string{
		"1", "01-01-2024", "100", "I", "salary",
		"1", "", "40", "e", "groceries",
		"2", "01-01-2024", "31-01-2024", "n",
		"3",
	}, "\n") + "\n"
	env := runApp(t, input)
	out := env.out.String()

	if strings.Count(out, "Entry added successfully!") != 2 {
		t.Fatalf("expected two entries added:\n%s", out)
	}
	for _, want := range []string{"Income: 100.00", "Expense: 40.00", "Net Saving: 60.00", "10-01-2024", "Exiting..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	res, err := env.store.Query(context.Background(), "10-01-2024", "10-01-2024")
	if err != nil || len(res.Rows) != 1 || res.Rows[0].Category != core.Expense {
		t.Fatalf("default-dated expense not stored: %+v, %v", res, err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "plot.png")); !os.IsNotExist(err) {
		t.Fatalf("plot must not be saved when declined")
	}
}

func TestAppSavesPlot(t *testing.T) {
	input := "1\n05-01-2024\n12\ni\n\n2\n01-01-2024\n31-01-2024\ny\n3\n"
	env := runApp(t, input)
	if !strings.Contains(env.out.String(), "Plot saved as") {
		t.Fatalf("expected save confirmation:\n%s", env.out.String())
	}
	for _, name := range []string{"plot.png", "summary.txt"} {
		if _, err := os.Stat(filepath.Join(env.dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestAppViewEmptyAndUninitialized(t *testing.T) {
	env := runApp(t, "2\n01-01-2024\n31-01-2024\n3\n")
	if !strings.Contains(env.out.String(), "ledger file not found") {
		t.Fatalf("expected not found error before initialize:\n%s", env.out.String())
	}

	env = runApp(t, "1\n01-01-2024\n5\ni\n\n2\n01-02-2024\n28-02-2024\n3\n")
	if !strings.Contains(env.out.String(), "No transactions found in the given date range.") {
		t.Fatalf("expected empty range message:\n%s", env.out.String())
	}
}

func TestAppInvalidChoiceAndEOF(t *testing.T) {
	env := runApp(t, "9\n")
	out := env.out.String()
	if !strings.Contains(out, "Invalid choice. Enter 1, 2, or 3.") {
		t.Fatalf("expected invalid choice message:\n%s", out)
	}
	if !strings.Contains(out, "Exiting...") {
		t.Fatalf("expected exit on end of input:\n%s", out)
	}
}

func TestAppTooManyInvalidAmounts(t *testing.T) {
	env := runApp(t, "1\n01-01-2024\n0\n-1\nfree\n3\n")
	out := env.out.String()
	if !strings.Contains(out, "too many invalid attempts") {
		t.Fatalf("expected attempts error:\n%s", out)
	}
	res, err := env.store.Query(context.Background(), "01-01-2024", "31-12-2024")
	if err != nil || len(res.Rows) != 0 {
		t.Fatalf("nothing should be stored: %+v, %v", res, err)
	}
}

func TestAppCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app := NewApp(nil, prompt.New(strings.NewReader(""), io.Discard), nil, io.Discard, nil)
	if err := app.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
