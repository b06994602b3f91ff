package storage

import (
	"context"
	"path/filepath"
	"testing"

	"bollette/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "bills.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAppendBillsDedupeBySource(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	amount := int64(12345)
	date := "2025-10-03"
	first := []StoredBill{{
		SourceFile:  "enmax_oct.pdf",
		HouseNumber: "1705",
		TenantName:  "Mike Chen",
		Vendor:      "ENMAX",
		AmountCents: &amount,
		BillDate:    &date,
	}}

	inserted, skipped, err := repo.AppendBills(ctx, first)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if inserted != 1 || skipped != 0 {
		t.Fatalf("expected 1 inserted, got inserted=%d skipped=%d", inserted, skipped)
	}

	// Same source again plus one new row: the duplicate is skipped, never
	// overwritten.
	other := int64(99999)
	second := []StoredBill{
		{SourceFile: "enmax_oct.pdf", HouseNumber: "1705", Vendor: "ENMAX", AmountCents: &other},
		{SourceFile: "atco_oct.pdf", HouseNumber: "1705", Vendor: "ATCO"},
	}
	inserted, skipped, err = repo.AppendBills(ctx, second)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if inserted != 1 || skipped != 1 {
		t.Fatalf("expected 1 inserted 1 skipped, got inserted=%d skipped=%d", inserted, skipped)
	}

	bills, err := repo.ListBills(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(bills))
	}
	for _, b := range bills {
		if b.SourceFile == "enmax_oct.pdf" {
			if b.AmountCents == nil || *b.AmountCents != 12345 {
				t.Fatalf("duplicate append must not overwrite: %+v", b)
			}
			if b.TenantName != "Mike Chen" {
				t.Fatalf("tenant enrichment lost: %+v", b)
			}
		}
		if b.SourceFile == "atco_oct.pdf" && (b.AmountCents != nil || b.BillDate != nil) {
			t.Fatalf("null fields must round-trip as nil: %+v", b)
		}
	}
}

func TestFromRecord(t *testing.T) {
	rec := core.Normalize(core.RawFields{
		Source:      "enmax_oct.pdf",
		HouseNumber: "1705",
		Vendor:      "ENMAX",
		Amount:      "123.45",
		BillDate:    "2025-10-03",
	})
	row := FromRecord(rec, "Mike Chen")
	if row.AmountCents == nil || *row.AmountCents != 12345 {
		t.Fatalf("unexpected amount: %+v", row.AmountCents)
	}
	if row.BillDate == nil || *row.BillDate != "2025-10-03" {
		t.Fatalf("unexpected date: %+v", row.BillDate)
	}

	partial := core.Normalize(core.RawFields{Source: "x.pdf", HouseNumber: "819", Vendor: "ATCO"})
	pr := FromRecord(partial, "")
	if pr.AmountCents != nil || pr.BillDate != nil {
		t.Fatalf("expected nil amount and date: %+v", pr)
	}
}
