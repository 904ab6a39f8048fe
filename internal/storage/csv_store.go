package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
)

// DefaultFile is the ledger file name, relative to the working directory.
const DefaultFile = "finance_data.csv"

// Columns is the header row, in canonical field order.
var Columns = []string{"date", "amount", "category", "description"}

var (
	ErrFileNotFound = errors.New("ledger file not found")
	ErrMalformedRow = errors.New("malformed ledger row")
)

// Result is the outcome of a range query.
type Result struct {
	Rows    []core.Transaction
	Summary core.Summary
	// MalformedRows counts matching rows whose amount could not be parsed
	// and was counted as zero.
	MalformedRows int
}

// CSVStore is an append-only ledger kept in a single CSV file. It holds no
// state besides the path; every call opens and closes the file.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	if path == "" {
		path = DefaultFile
	}
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Initialize creates the file with only the header row when it does not
// exist. An existing file is never touched.
func (s *CSVStore) Initialize(ctx context.Context) (err error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync ledger file: %w", err)
	}

	s.logger(ctx).DebugContext(ctx, "Ledger file created", log.FieldOperation, log.OpInitialize)
	return nil
}

// Append writes one row at the end of the file. The transaction is written
// as given; validation belongs to the caller. CRLF line breaks in the
// description are stored as LF, the only form the file reads back.
func (s *CSVStore) Append(ctx context.Context, tx core.Transaction) (err error) {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, s.path)
	}
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger file: %w", cerr)
		}
	}()

	if err := terminateLastLine(f); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(tx)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync ledger file: %w", err)
	}

	s.logger(ctx).DebugContext(ctx, "Transaction appended",
		log.NewFields().
			WithOperation(log.OpAppend).
			WithTransaction(tx.Date.String(), tx.Amount, tx.Category.String()).
			ToSlice()...)
	return nil
}

// Query parses both bounds as DD-MM-YYYY dates and returns the rows dated
// within [start, end].
func (s *CSVStore) Query(ctx context.Context, start, end string) (Result, error) {
	from, err := core.ParseDate(start, false, nil)
	if err != nil {
		return Result{}, fmt.Errorf("start date: %w", err)
	}
	to, err := core.ParseDate(end, false, nil)
	if err != nil {
		return Result{}, fmt.Errorf("end date: %w", err)
	}
	return s.QueryRange(ctx, from, to)
}

// QueryRange loads the whole file and returns matching rows in file order
// together with their summary. Unparsable amounts count as zero.
func (s *CSVStore) QueryRange(ctx context.Context, start, end core.Date) (Result, error) {
	records, err := s.readAll()
	if err != nil {
		return Result{}, err
	}

	res := Result{Rows: []core.Transaction{}}
	if len(records) == 0 {
		return res, nil
	}

	idx, err := columnIndex(records[0])
	if err != nil {
		return Result{}, err
	}

	for i, rec := range records[1:] {
		record := i + 2
		tx, amountOK, err := decodeRow(rec, idx)
		if err != nil {
			return Result{}, fmt.Errorf("%w: record %d: %v", ErrMalformedRow, record, err)
		}
		if !tx.Date.Within(start, end) {
			continue
		}
		if !amountOK {
			res.MalformedRows++
			s.logger(ctx).WarnContext(ctx, "Unparsable amount counted as zero",
				log.FieldOperation, log.OpQuery, log.FieldRecord, record)
		}
		res.Rows = append(res.Rows, tx)
	}

	res.Summary = core.Summarize(res.Rows)
	return res, nil
}

func (s *CSVStore) logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentStorage).With(log.FieldPath, s.path)
}

func (s *CSVStore) readAll() ([][]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return records, nil
}

// terminateLastLine writes a newline when a non-empty file does not end
// with one, so a hand-edited file cannot glue two rows together.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return fmt.Errorf("read ledger file: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	return nil
}

type columns struct {
	date, amount, category, description int
}

func columnIndex(header []string) (columns, error) {
	idx := columns{-1, -1, -1, -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "date":
			idx.date = i
		case "amount":
			idx.amount = i
		case "category":
			idx.category = i
		case "description":
			idx.description = i
		}
	}
	if idx.date < 0 || idx.amount < 0 || idx.category < 0 {
		return idx, fmt.Errorf("%w: header must contain %s", ErrMalformedRow, strings.Join(Columns, ","))
	}
	return idx, nil
}

func encodeRow(tx core.Transaction) []string {
	return []string{
		tx.Date.String(),
		core.FormatAmount(tx.Amount),
		tx.Category.String(),
		strings.ReplaceAll(tx.Description, "\r\n", "\n"),
	}
}

// decodeRow reports amountOK=false when the amount field is missing or not
// a decimal number. A bad date is an error.
func decodeRow(rec []string, idx columns) (core.Transaction, bool, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	d, err := core.ParseDate(strings.TrimSpace(field(idx.date)), false, nil)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("date %q: %w", field(idx.date), err)
	}

	tx := core.Transaction{
		Date:        d,
		Category:    core.Category(field(idx.category)),
		Description: field(idx.description),
	}
	amount, err := core.ParseDecimal(field(idx.amount))
	if err != nil {
		return tx, false, nil
	}
	tx.Amount = amount
	return tx, true, nil
}
