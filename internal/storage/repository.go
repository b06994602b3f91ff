// Package storage is the durable bill-record store backed by SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bollette/internal/core"
)

// StoredBill is one durable record row. AmountCents and BillDate are nil
// when the source value could not be normalized; such rows are kept for
// record-keeping but never participate in totals.
type StoredBill struct {
	SourceFile  string
	HouseNumber string
	TenantName  string
	Vendor      string
	AmountCents *int64
	BillDate    *string // ISO YYYY-MM-DD
}

// FromRecord converts a normalized record to its storage row, enriched with
// the tenant's name for the house.
func FromRecord(rec core.BillRecord, tenantName string) StoredBill {
	row := StoredBill{
		SourceFile:  rec.Source,
		HouseNumber: rec.HouseNumber,
		TenantName:  tenantName,
		Vendor:      string(rec.Vendor),
	}
	if rec.Amount != nil {
		cents := rec.Amount.Cents
		row.AmountCents = &cents
	}
	if rec.BillDate != nil {
		iso := rec.BillDate.ISO()
		row.BillDate = &iso
	}
	return row
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendBills appends a batch with at-least-once dedupe by source file:
// rows whose source identifier already exists are skipped, never
// overwritten. Returns the inserted and skipped counts.
func (r *SQLiteRepository) AppendBills(ctx context.Context, rows []StoredBill) (inserted, skipped int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bills (source_file, house_number, tenant_name, vendor, amount_cents, bill_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_file) DO NOTHING`)
	if err != nil {
		return 0, 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		res, err := stmt.ExecContext(ctx,
			row.SourceFile, row.HouseNumber, row.TenantName, row.Vendor,
			nullableInt(row.AmountCents), nullableString(row.BillDate))
		if err != nil {
			return 0, 0, fmt.Errorf("insert bill %s: %w", row.SourceFile, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("rows affected for %s: %w", row.SourceFile, err)
		}
		if n == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Bills appended to SQLite",
		"inserted", inserted,
		"skipped_duplicates", skipped)
	return inserted, skipped, nil
}

// ListBills returns every stored bill ordered by house then bill date.
func (r *SQLiteRepository) ListBills(ctx context.Context) ([]StoredBill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source_file, house_number, tenant_name, vendor, amount_cents, bill_date
		FROM bills
		ORDER BY house_number, bill_date, source_file`)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var out []StoredBill
	for rows.Next() {
		var (
			row    StoredBill
			amount sql.NullInt64
			date   sql.NullString
		)
		if err := rows.Scan(&row.SourceFile, &row.HouseNumber, &row.TenantName,
			&row.Vendor, &amount, &date); err != nil {
			return nil, fmt.Errorf("scan bill row: %w", err)
		}
		if amount.Valid {
			row.AmountCents = &amount.Int64
		}
		if date.Valid {
			row.BillDate = &date.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return out, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
