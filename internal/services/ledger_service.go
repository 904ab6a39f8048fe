package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// Store is the persistence the service needs; *storage.CSVStore satisfies it.
type Store interface {
	Initialize(ctx context.Context) error
	Append(ctx context.Context, tx core.Transaction) error
	Query(ctx context.Context, start, end string) (storage.Result, error)
}

// Publisher announces appended transactions. It is optional.
type Publisher interface {
	PublishTransactionAdded(ctx context.Context, tx core.Transaction) error
	Close() error
}

// LedgerService orchestrates ledger operations across the store and the
// optional event publisher.
type LedgerService struct {
	store     Store
	publisher Publisher
	logger    *log.Logger
}

func NewLedgerService(store Store, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Initialize makes sure the ledger file exists.
func (s *LedgerService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(s.loggerContext(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to initialize ledger",
			log.NewFields().WithOperation(log.OpInitialize).WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		return fmt.Errorf("initialize ledger: %w", err)
	}
	return nil
}

// AddTransaction validates tx, appends it and then publishes a
// notification. A failed publish is logged, never returned: the row is
// already on disk.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) error {
	fields := log.NewFields().
		WithOperation(log.OpAppend).
		WithTransaction(tx.Date.String(), tx.Amount, tx.Category.String())

	if err := tx.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Rejected invalid transaction",
			fields.WithErrorType(log.ErrorTypeValidation).WithError(err).ToSlice()...)
		return fmt.Errorf("validate transaction: %w", err)
	}

	storeCtx := s.loggerContext(ctx)
	if err := s.store.Initialize(storeCtx); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	if err := s.store.Append(storeCtx, tx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to append transaction",
			fields.WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		return fmt.Errorf("append transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction added", fields.ToSlice()...)

	s.publish(ctx, tx)
	return nil
}

// Transactions returns the rows dated within [start, end] with their
// summary. Rows whose amount was unreadable are reported as a warning.
func (s *LedgerService) Transactions(ctx context.Context, start, end string) (storage.Result, error) {
	fields := log.NewFields().WithOperation(log.OpQuery).WithRange(start, end)

	res, err := s.store.Query(s.loggerContext(ctx), start, end)
	if err != nil {
		errorType := log.ErrorTypeStorage
		switch {
		case errors.Is(err, storage.ErrFileNotFound):
			errorType = log.ErrorTypeNotFound
		case errors.Is(err, core.ErrInvalidFormat):
			errorType = log.ErrorTypeValidation
		}
		s.logger.WarnContext(ctx, "Query failed", fields.WithErrorType(errorType).WithError(err).ToSlice()...)
		return storage.Result{}, fmt.Errorf("query transactions: %w", err)
	}

	fields[log.FieldRows] = len(res.Rows)
	if res.MalformedRows > 0 {
		fields[log.FieldMalformed] = res.MalformedRows
		s.logger.WarnContext(ctx, "Some amounts could not be read and were counted as zero", fields.ToSlice()...)
	} else {
		s.logger.DebugContext(ctx, "Query completed", fields.ToSlice()...)
	}
	return res, nil
}

// loggerContext carries the service logger to the store and the
// publisher, which tag it with their own component.
func (s *LedgerService) loggerContext(ctx context.Context) context.Context {
	return log.NewContext(ctx, s.logger)
}

func (s *LedgerService) publish(ctx context.Context, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionAdded(s.loggerContext(ctx), tx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction added message",
			log.NewFields().WithOperation(log.OpPublish).WithErrorType(log.ErrorTypeNetwork).WithError(err).ToSlice()...)
	}
}

// Close releases the publisher connection, if any.
func (s *LedgerService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
