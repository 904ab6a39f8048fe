package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

type fakePublisher struct {
	published []core.Transaction
	err       error
	closed    bool
}

func (p *fakePublisher) PublishTransactionAdded(_ context.Context, tx core.Transaction) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, tx)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type failingStore struct {
	appendErr error
}

func (s *failingStore) Initialize(context.Context) error               { return nil }
func (s *failingStore) Append(context.Context, core.Transaction) error { return s.appendErr }
func (s *failingStore) Query(context.Context, string, string) (storage.Result, error) {
	return storage.Result{}, storage.ErrFileNotFound
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: buf})
}

func newTestService(t *testing.T, pub Publisher) (*LedgerService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	store := storage.NewCSVStore(filepath.Join(t.TempDir(), storage.DefaultFile))
	return NewLedgerService(store, pub, testLogger(&buf)), &buf
}

func TestLedgerService_AddAndQuery(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	txs := []core.Transaction{
		{Date: core.NewDate(2024, 1, 1), Amount: 100, Category: core.Income, Description: "salary"},
		{Date: core.NewDate(2024, 1, 2), Amount: 40, Category: core.Expense, Description: "food"},
	}
	for _, tx := range txs {
		if err := svc.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(pub.published))
	}

	res, err := svc.Transactions(ctx, "01-01-2024", "02-01-2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.Rows) != 2 || res.Summary.NetSavings != 60 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLedgerService_StoreLogsThroughServiceLogger(t *testing.T) {
	svc, logs := newTestService(t, nil)
	ctx := context.Background()

	tx := core.Transaction{Date: core.NewDate(2024, 1, 1), Amount: 5, Category: core.Expense}
	if err := svc.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "Transaction appended") || !strings.Contains(out, "component=storage") {
		t.Fatalf("expected storage debug record in service logs, got %q", out)
	}
}

func TestLedgerService_AddRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)

	err := svc.AddTransaction(context.Background(), core.Transaction{Date: core.NewDate(2024, 1, 1), Amount: -1, Category: core.Income})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing should be published for a rejected transaction")
	}
}

func TestLedgerService_PublishFailureDoesNotFailAppend(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	svc, logs := newTestService(t, pub)
	ctx := context.Background()

	tx := core.Transaction{Date: core.NewDate(2024, 1, 1), Amount: 5, Category: core.Expense}
	if err := svc.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("append should succeed when publish fails: %v", err)
	}
	if !strings.Contains(logs.String(), "Failed to publish") {
		t.Fatalf("expected publish failure to be logged, got %q", logs.String())
	}
	res, err := svc.Transactions(ctx, "01-01-2024", "01-01-2024")
	if err != nil || len(res.Rows) != 1 {
		t.Fatalf("row should be stored: %+v, %v", res, err)
	}
}

func TestLedgerService_StoreErrors(t *testing.T) {
	var buf bytes.Buffer
	svc := NewLedgerService(&failingStore{appendErr: errors.New("disk full")}, nil, testLogger(&buf))
	ctx := context.Background()

	err := svc.AddTransaction(ctx, core.Transaction{Date: core.NewDate(2024, 1, 1), Amount: 1, Category: core.Income})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected append error, got %v", err)
	}

	if _, err := svc.Transactions(ctx, "01-01-2024", "01-01-2024"); !errors.Is(err, storage.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if !strings.Contains(buf.String(), log.ErrorTypeNotFound) {
		t.Fatalf("expected not found error type in logs, got %q", buf.String())
	}
}

func TestLedgerService_QueryInvalidBound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := svc.Transactions(ctx, "1/1/2024", "31-01-2024"); !errors.Is(err, core.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestLedgerService_Close(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil publisher: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc, _ := newTestService(t, pub)
		if err := svc.Close(); err != nil || !pub.closed {
			t.Fatalf("expected publisher closed, err=%v", err)
		}
	})
}
