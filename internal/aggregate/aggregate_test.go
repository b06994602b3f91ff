package aggregate

import (
	"testing"

	"bollette/internal/core"
)

func rec(house string, vendor core.Vendor, iso string, cents int64) core.BillRecord {
	return core.Normalize(core.RawFields{
		Source:      house + "_" + iso + "_" + string(vendor),
		HouseNumber: house,
		Vendor:      string(vendor),
		BillDate:    iso,
		Amount:      core.Money{Cents: cents}.String(),
	})
}

func TestLatestMonthKeepsOnlyMostRecentMonth(t *testing.T) {
	records := []core.BillRecord{
		rec("1705", core.VendorEnmax, "2025-09-03", 10000),
		rec("1705", core.VendorEnmax, "2025-10-03", 12345),
		rec("1705", core.VendorAtco, "2025-10-20", 6789),
		rec("819", core.VendorEnmax, "2025-09-12", 5000),
	}

	periods := LatestMonth(records)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}

	// Sorted by house number: "1705" < "819" as strings.
	p := periods[0]
	if p.HouseNumber != "1705" {
		t.Fatalf("expected house 1705 first, got %s", p.HouseNumber)
	}
	if p.PeriodEnd.ISO() != "2025-10-31" {
		t.Fatalf("expected period end 2025-10-31, got %s", p.PeriodEnd.ISO())
	}
	if len(p.Records) != 2 {
		t.Fatalf("September record should be dropped, got %d records", len(p.Records))
	}
	if p.Total.Cents != 19134 {
		t.Fatalf("expected total 19134 cents, got %d", p.Total.Cents)
	}
	if p.VendorBreakdown[core.VendorEnmax].Cents != 12345 ||
		p.VendorBreakdown[core.VendorAtco].Cents != 6789 {
		t.Fatalf("unexpected breakdown: %+v", p.VendorBreakdown)
	}

	if periods[1].HouseNumber != "819" || periods[1].PeriodEnd.ISO() != "2025-09-30" {
		t.Fatalf("unexpected second period: %+v", periods[1])
	}
}

func TestSumInvariant(t *testing.T) {
	records := []core.BillRecord{
		rec("1705", core.VendorEnmax, "2025-10-03", 12345),
		rec("1705", core.VendorEnmax, "2025-10-15", 55),
		rec("1705", core.VendorAtco, "2025-10-20", 6789),
	}
	for _, p := range LatestMonth(records) {
		var sum int64
		for _, m := range p.VendorBreakdown {
			sum += m.Cents
		}
		if sum != p.Total.Cents {
			t.Fatalf("house %s: breakdown sum %d != total %d", p.HouseNumber, sum, p.Total.Cents)
		}
	}
}

func TestRepeatedVendorSummedNotOverwritten(t *testing.T) {
	records := []core.BillRecord{
		rec("819", core.VendorEnmax, "2025-10-03", 100),
		rec("819", core.VendorEnmax, "2025-10-17", 250),
	}
	periods := LatestMonth(records)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if got := periods[0].VendorBreakdown[core.VendorEnmax].Cents; got != 350 {
		t.Fatalf("expected 350, got %d", got)
	}
}

func TestNullFieldsExcludedFromTotals(t *testing.T) {
	noAmount := core.Normalize(core.RawFields{
		Source: "x.pdf", HouseNumber: "819", Vendor: "ENMAX", BillDate: "2025-10-03",
	})
	noDate := core.Normalize(core.RawFields{
		Source: "y.pdf", HouseNumber: "819", Vendor: "ENMAX", Amount: "10.00",
	})
	records := []core.BillRecord{
		noAmount,
		noDate,
		rec("819", core.VendorEnmax, "2025-10-05", 999),
	}
	periods := LatestMonth(records)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if periods[0].Total.Cents != 999 {
		t.Fatalf("expected only the complete record counted, got %d", periods[0].Total.Cents)
	}
	if len(periods[0].Records) != 1 {
		t.Fatalf("expected 1 included record, got %d", len(periods[0].Records))
	}
}

func TestFixedMonthOverridePoolsAcrossMonths(t *testing.T) {
	records := []core.BillRecord{
		rec("819", core.VendorEnmax, "2025-01-10", 4000),
		rec("819", core.VendorAtco, "2025-03-20", 2500),
	}
	periods, err := FixedMonth(records, 2, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected one pooled period, got %d", len(periods))
	}
	p := periods[0]
	if p.PeriodEnd.ISO() != "2025-02-28" {
		t.Fatalf("expected synthetic February period end, got %s", p.PeriodEnd.ISO())
	}
	if p.Total.Cents != 6500 {
		t.Fatalf("expected pooled total 6500, got %d", p.Total.Cents)
	}
	if len(p.Records) != 2 {
		t.Fatalf("expected both records pooled, got %d", len(p.Records))
	}
}

func TestFixedMonthRejectsOutOfRange(t *testing.T) {
	for _, m := range []int{0, 13, -1} {
		if _, err := FixedMonth(nil, m, 2025); err == nil {
			t.Fatalf("month %d: expected error", m)
		}
	}
}
