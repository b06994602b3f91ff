package extract

import (
	"testing"

	"bollette/internal/core"
)

const atcoSample = `ATCO Gas and Pipelines Ltd.
1705 Maple Street NW
Calgary AB T2N 0A1
Statement Date: AUG 20, 2025
TOTAL AMOUNT DUE: $1,234.56
`

func TestAtcoExtract(t *testing.T) {
	a := NewAtco(testHouses)
	fields, err := a.Extract(core.RawDocument{Source: "atco.pdf", Text: atcoSample})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.HouseNumber != "1705" {
		t.Fatalf("house: expected 1705, got %q", fields.HouseNumber)
	}
	if fields.Amount != "1234.56" {
		t.Fatalf("amount: expected thousands separator stripped, got %q", fields.Amount)
	}
	if fields.BillDate != "2025-08-20" {
		t.Fatalf("date: expected 2025-08-20, got %q", fields.BillDate)
	}
	if fields.Vendor != "ATCO" {
		t.Fatalf("vendor: expected ATCO, got %q", fields.Vendor)
	}
}

func TestAtcoHouseAnchoredAtLineStart(t *testing.T) {
	a := NewAtco(testHouses)
	// The roster value mid-line must not match; only a line-start value does.
	fields, err := a.Extract(core.RawDocument{Source: "atco.pdf", Text: "account 1705 ref\nsomething else\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.HouseNumber != "" {
		t.Fatalf("expected no house, got %q", fields.HouseNumber)
	}

	fields, _ = a.Extract(core.RawDocument{Source: "atco.pdf", Text: "intro line\n  819 Hill Road\n"})
	if fields.HouseNumber != "819" {
		t.Fatalf("expected 819, got %q", fields.HouseNumber)
	}
}

func TestAtcoAmountDueVariant(t *testing.T) {
	a := NewAtco(testHouses)
	fields, _ := a.Extract(core.RawDocument{Source: "atco.pdf", Text: "Amount Due $ 67.89\n"})
	if fields.Amount != "67.89" {
		t.Fatalf("expected 67.89, got %q", fields.Amount)
	}
}

func TestAtcoDueByShiftsBackOneMonth(t *testing.T) {
	a := NewAtco(testHouses)
	cases := []struct {
		text string
		want string
	}{
		// Due date trails the billing month by one month.
		{"Due By: AUG 20, 2025", "2025-07-20"},
		// January wraps to December of the previous year.
		{"Due By: JAN 15, 2025", "2024-12-15"},
		// Day clamps to the target month's length.
		{"Due By: MAR 31, 2025", "2025-02-28"},
	}
	for _, tc := range cases {
		fields, err := a.Extract(core.RawDocument{Source: "atco.pdf", Text: tc.text})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.text, err)
		}
		if fields.BillDate != tc.want {
			t.Fatalf("%q: expected %s, got %q", tc.text, tc.want, fields.BillDate)
		}
	}
}

func TestAtcoStatementDatePreferredOverDueBy(t *testing.T) {
	a := NewAtco(testHouses)
	text := "Statement Date: AUG 20, 2025\nDue By: SEP 10, 2025\n"
	fields, _ := a.Extract(core.RawDocument{Source: "atco.pdf", Text: text})
	if fields.BillDate != "2025-08-20" {
		t.Fatalf("expected statement date to win, got %q", fields.BillDate)
	}
}
