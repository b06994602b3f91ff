// Package aggregate groups a run's normalized bill records by house and
// billing month and computes per-period totals and vendor breakdowns.
package aggregate

import (
	"fmt"
	"sort"

	"bollette/internal/core"
)

// LatestMonth groups the batch by house, keeps only each house's most
// recent billing month present in the batch, and totals it. Records with a
// nil date or amount are excluded from totals. Results are ordered by house
// number for deterministic processing.
func LatestMonth(records []core.BillRecord) []core.HouseBillingPeriod {
	byHouse := groupByHouseMonth(records)

	var out []core.HouseBillingPeriod
	for house, months := range byHouse {
		var latest string
		for key := range months {
			if key > latest {
				latest = key
			}
		}
		out = append(out, buildPeriod(house, months[latest]))
	}
	sortPeriods(out)
	return out
}

// FixedMonth pools every house's countable records under one synthetic
// period ending on the last day of the given month in the given year,
// irrespective of each record's true date. month must be 1-12.
func FixedMonth(records []core.BillRecord, month, year int) ([]core.HouseBillingPeriod, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidMonth, month)
	}
	periodEnd := core.NewDate(year, month, 1).MonthEnd()

	byHouse := make(map[string][]core.BillRecord)
	for _, r := range records {
		if !r.Countable() {
			continue
		}
		byHouse[r.HouseNumber] = append(byHouse[r.HouseNumber], r)
	}

	var out []core.HouseBillingPeriod
	for house, recs := range byHouse {
		p := buildPeriod(house, recs)
		p.PeriodEnd = periodEnd
		out = append(out, p)
	}
	sortPeriods(out)
	return out, nil
}

// groupByHouseMonth indexes countable records by house, then by the
// month-end ISO key of their bill date.
func groupByHouseMonth(records []core.BillRecord) map[string]map[string][]core.BillRecord {
	byHouse := make(map[string]map[string][]core.BillRecord)
	for _, r := range records {
		if !r.Countable() {
			continue
		}
		key := r.BillDate.MonthEnd().ISO()
		if byHouse[r.HouseNumber] == nil {
			byHouse[r.HouseNumber] = make(map[string][]core.BillRecord)
		}
		byHouse[r.HouseNumber][key] = append(byHouse[r.HouseNumber][key], r)
	}
	return byHouse
}

// buildPeriod totals one house's records for one month. The period end is
// derived from the first record's bill date; every record in recs shares
// that month. Repeated occurrences of a vendor are summed, never overwritten.
func buildPeriod(house string, recs []core.BillRecord) core.HouseBillingPeriod {
	p := core.HouseBillingPeriod{
		HouseNumber:     house,
		Records:         recs,
		VendorBreakdown: make(map[core.Vendor]core.Money),
	}
	if len(recs) > 0 {
		p.PeriodEnd = recs[0].BillDate.MonthEnd()
	}
	for _, r := range recs {
		p.Total = p.Total.Add(*r.Amount)
		p.VendorBreakdown[r.Vendor] = p.VendorBreakdown[r.Vendor].Add(*r.Amount)
	}
	return p
}

func sortPeriods(periods []core.HouseBillingPeriod) {
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].HouseNumber < periods[j].HouseNumber
	})
}
