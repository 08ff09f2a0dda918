// Package storage keeps a history of calculation runs in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/iit-withholding/internal/domain"
	"github.com/rpgo/iit-withholding/internal/logging"
	"github.com/rpgo/iit-withholding/pkg/dateutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run id has no stored records.
var ErrRunNotFound = errors.New("run not found")

var now = func() time.Time { return time.Now().UTC() }

// Run describes one stored schedule.
type Run struct {
	ID          string
	Start       dateutil.YearMonth
	End         dateutil.YearMonth
	GeneratedAt time.Time
	CreatedAt   time.Time
	TotalTax    decimal.Decimal
}

// SQLiteRecorder persists schedules. Amounts are stored as decimal strings so they round-trip exactly.
// created_at is stored as unix nanoseconds so runs order by their real creation time.
type SQLiteRecorder struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// pragmas in the DSN apply to every pooled connection, not just the first
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str(logging.FieldPath, dbPath).Msg("run history opened")
	return &SQLiteRecorder{db: db, log: log}, nil
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSchedule stores the schedule and its records in one transaction and returns the new run id.
func (r *SQLiteRecorder) SaveSchedule(ctx context.Context, s *domain.Schedule) (string, error) {
	if s == nil {
		return "", errors.New("nil schedule")
	}
	id := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, start_month, end_month, generated_at, created_at, total_tax) VALUES (?, ?, ?, ?, ?, ?)`,
		id, s.Start.String(), s.End.String(), s.GeneratedAt.UTC().Format(time.RFC3339Nano),
		now().UnixNano(), s.TotalTax().String())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO month_records
		(run_id, seq, month, salary, monthly_deduction, cumulative_income, taxable_income, tax, cumulative_tax,
		rate, quick_deduction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range s.Records {
		_, err := stmt.ExecContext(ctx, id, i, rec.Month.String(),
			rec.Salary.String(), rec.MonthlyDeduction.String(), rec.CumulativeIncome.String(),
			rec.TaxableIncome.String(), rec.Tax.String(), rec.CumulativeTax.String(),
			rec.Rate.String(), rec.QuickDeduction.String())
		if err != nil {
			return "", fmt.Errorf("insert record %s: %w", rec.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	r.log.Info().Str(logging.FieldRunID, id).Int("records", len(s.Records)).Msg("schedule saved")
	return id, nil
}

// LoadRecords returns the records of run id in month order.
func (r *SQLiteRecorder) LoadRecords(ctx context.Context, id string) ([]domain.MonthRecord, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT month, salary, monthly_deduction, cumulative_income,
		taxable_income, tax, cumulative_tax, rate, quick_deduction FROM month_records WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.MonthRecord
	for rows.Next() {
		var month string
		var cols [recordAmounts]string
		if err := rows.Scan(&month, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7]); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(month, cols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

const runColumns = `id, start_month, end_month, generated_at, created_at, total_tax`

// ListRuns returns the stored runs, newest first.
func (r *SQLiteRecorder) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadSchedule rebuilds the schedule of run id from its stored records. Year summaries are not
// stored, so the returned schedule has none.
func (r *SQLiteRecorder) LoadSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	records, err := r.LoadRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Schedule{Start: run.Start, End: run.End, GeneratedAt: run.GeneratedAt, Records: records}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var id, start, end, generated, total string
	var created int64
	if err := row.Scan(&id, &start, &end, &generated, &created, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run := Run{ID: id, CreatedAt: time.Unix(0, created).UTC()}
	var err error
	if run.Start, err = dateutil.ParseYearMonth(start); err != nil {
		return Run{}, fmt.Errorf("run %s start: %w", id, err)
	}
	if run.End, err = dateutil.ParseYearMonth(end); err != nil {
		return Run{}, fmt.Errorf("run %s end: %w", id, err)
	}
	if run.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated); err != nil {
		return Run{}, fmt.Errorf("run %s generated_at: %w", id, err)
	}
	if run.TotalTax, err = decimal.NewFromString(total); err != nil {
		return Run{}, fmt.Errorf("run %s total_tax: %w", id, err)
	}
	return run, nil
}

// recordAmounts is the number of decimal columns in month_records.
const recordAmounts = 8

func decodeRecord(month string, cols [recordAmounts]string) (domain.MonthRecord, error) {
	ym, err := dateutil.ParseYearMonth(month)
	if err != nil {
		return domain.MonthRecord{}, fmt.Errorf("stored month %q: %w", month, err)
	}
	var vals [recordAmounts]decimal.Decimal
	for i, c := range cols {
		if vals[i], err = decimal.NewFromString(c); err != nil {
			return domain.MonthRecord{}, fmt.Errorf("stored amount %q for %s: %w", c, month, err)
		}
	}
	return domain.MonthRecord{
		Month:            ym,
		Salary:           vals[0],
		MonthlyDeduction: vals[1],
		CumulativeIncome: vals[2],
		TaxableIncome:    vals[3],
		Tax:              vals[4],
		CumulativeTax:    vals[5],
		Rate:             vals[6],
		QuickDeduction:   vals[7],
	}, nil
}
