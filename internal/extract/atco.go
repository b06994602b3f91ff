package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bollette/internal/core"
)

// monthAbbrNumbers maps 3-letter month abbreviations to month numbers for
// the "<MMM> <day>, <year>" date form.
var monthAbbrNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// Atco extracts fields from the ATCO statement layout.
type Atco struct {
	houseRe    *regexp.Regexp
	amountRe   *regexp.Regexp
	stmtDateRe *regexp.Regexp
	dueByRe    *regexp.Regexp
}

// NewAtco builds the ATCO extractor over the given house roster.
func NewAtco(houses []string) *Atco {
	alts := houseAlternation(houses)
	return &Atco{
		// Roster value anchored at the start of any line.
		houseRe:    regexp.MustCompile(`(?im)^\s*(` + alts + `)\b`),
		amountRe:   regexp.MustCompile(`(?i)(?:TOTAL\s+AMOUNT\s+DUE|Amount\s+Due)\s*:?\s*\$?\s*([\d,]+\.\d{2})`),
		stmtDateRe: regexp.MustCompile(`(?i)Statement\s*Date:\s*([A-Za-z]{3})\s+(\d{1,2}),\s*(\d{4})`),
		dueByRe:    regexp.MustCompile(`(?i)Due\s*By:\s*([A-Za-z]{3})\s+(\d{1,2}),\s*(\d{4})`),
	}
}

func (a *Atco) Vendor() core.Vendor { return core.VendorAtco }

// Extract pulls house, amount and date from ATCO first-page text.
// A statement date is used as the bill date directly. When only a due-by
// date is present, the billing month trails it by one calendar month, so
// the parsed month is shifted back (January wraps to December of the
// previous year).
func (a *Atco) Extract(doc core.RawDocument) (core.RawFields, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return core.RawFields{}, &core.ExtractionFailedError{Source: doc.Source, Err: errEmptyDocument}
	}

	fields := core.RawFields{
		Source: doc.Source,
		Vendor: string(core.VendorAtco),
	}

	if m := a.houseRe.FindStringSubmatch(doc.Text); m != nil {
		fields.HouseNumber = m[1]
	}
	if m := a.amountRe.FindStringSubmatch(doc.Text); m != nil {
		fields.Amount = strings.ReplaceAll(m[1], ",", "")
	}

	if m := a.stmtDateRe.FindStringSubmatch(doc.Text); m != nil {
		fields.BillDate = abbrDateISO(m[1], m[2], m[3], 0)
	} else if m := a.dueByRe.FindStringSubmatch(doc.Text); m != nil {
		fields.BillDate = abbrDateISO(m[1], m[2], m[3], -1)
	}

	return fields, nil
}

// abbrDateISO renders "<MMM> <day>, <year>" as ISO, shifting the month by
// monthShift whole months and clamping the day to the target month's length.
func abbrDateISO(abbr, dayStr, yearStr string, monthShift int) string {
	month, ok := monthAbbrNumbers[strings.ToUpper(abbr)]
	if !ok {
		return ""
	}
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)

	month += monthShift
	for month < 1 {
		month += 12
		year--
	}
	if last := core.NewDate(year, month, 1).MonthEnd().Day(); day > last {
		day = last
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
