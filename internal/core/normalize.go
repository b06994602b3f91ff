package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var forgivingDateRe = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`)

// Normalize canonicalizes extracted fields into a BillRecord. It never fails:
// a value that cannot be coerced becomes nil (amount, date), UNKNOWN (vendor)
// or is kept as its original string (house). Applying Normalize to the Raw()
// form of its own output yields an identical record.
func Normalize(raw RawFields) BillRecord {
	rec := BillRecord{Source: raw.Source}

	v := Vendor(strings.ToUpper(strings.TrimSpace(raw.Vendor)))
	switch v {
	case VendorEnmax, VendorAtco:
		rec.Vendor = v
	default:
		rec.Vendor = VendorUnknown
	}

	if cents, err := ParseAmountToCents(raw.Amount); err == nil {
		rec.Amount = &Money{Cents: cents}
	}

	if d, ok := normalizeDate(raw.BillDate); ok {
		rec.BillDate = &d
	}

	rec.HouseNumber = CanonicalHouseNumber(raw.HouseNumber)
	return rec
}

// normalizeDate accepts a strict YYYY-MM-DD date, or coerces forgiving
// single/double digit month/day forms with "/" or "-" separators.
func normalizeDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t.UTC()}, true
	}
	m := forgivingDateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	date := NewDate(y, mo, d)
	// time.Date normalizes out-of-range components; reject anything that moved.
	if date.Year() != y || int(date.Month()) != mo || date.Day() != d {
		return Date{}, false
	}
	return date, true
}

// CanonicalHouseNumber coerces integer-like house numbers to their canonical
// numeric form ("0819" -> "819") and keeps anything else verbatim. Roster and
// policy lookups index under both the given and the canonical form, so either
// representation resolves to the same entry.
func CanonicalHouseNumber(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}
