package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bollette/internal/core"
)

// monthNumbers maps full English month names (lowercase) to month numbers
// for the compact CurrentBillDate token.
var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

const monthNameAlternation = "January|February|March|April|May|June|" +
	"July|August|September|October|November|December"

// streetSuffixes is the closed set of street-type tokens accepted by the
// street-suffix house strategy.
const streetSuffixes = "AVENUE|AVE|STREET|ST|ROAD|RD|BOULEVARD|BLVD|" +
	"DRIVE|DR|WAY|LANE|LN|COURT|CT|PLACE|PL"

// Enmax extracts fields from the ENMAX statement layout.
type Enmax struct {
	strategy HouseStrategy
	houseRe  *regexp.Regexp
	amountRe *regexp.Regexp
	dateRe   *regexp.Regexp
}

// NewEnmax builds the ENMAX extractor over the given house roster.
// strategy selects the house detection approach (HouseByLabel when empty).
func NewEnmax(houses []string, strategy HouseStrategy) *Enmax {
	if strategy == "" {
		strategy = HouseByLabel
	}
	alts := houseAlternation(houses)

	var houseRe *regexp.Regexp
	if strategy == HouseByStreetSuffix {
		houseRe = regexp.MustCompile(`(?i)\b(` + alts + `)\s+(?:` + streetSuffixes + `)\b`)
	} else {
		// Roster value following the SERVICE ADDRESS label within a short window.
		houseRe = regexp.MustCompile(`(?i)SERVICE\s*ADDRESS[^:\n]{0,80}:\s*(` + alts + `)`)
	}

	return &Enmax{
		strategy: strategy,
		houseRe:  houseRe,
		amountRe: regexp.MustCompile(`(?i)(?:PreAuthorizedAmount.*?\$|TotalCurrentCharges.*?\$)\s*(\d+\.\d{2})`),
		dateRe:   regexp.MustCompile(`(?i)CurrentBillDate:\s*(\d{4})(` + monthNameAlternation + `)(\d{1,2})`),
	}
}

func (e *Enmax) Vendor() core.Vendor { return core.VendorEnmax }

// Extract pulls house, amount and date from ENMAX first-page text.
// The bill date is the compact "<year><Monthname><day>" token.
func (e *Enmax) Extract(doc core.RawDocument) (core.RawFields, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return core.RawFields{}, &core.ExtractionFailedError{Source: doc.Source, Err: errEmptyDocument}
	}

	fields := core.RawFields{
		Source: doc.Source,
		Vendor: string(core.VendorEnmax),
	}

	if m := e.houseRe.FindStringSubmatch(doc.Text); m != nil {
		fields.HouseNumber = m[1]
	}
	if m := e.amountRe.FindStringSubmatch(doc.Text); m != nil {
		fields.Amount = m[1]
	}
	if m := e.dateRe.FindStringSubmatch(doc.Text); m != nil {
		year := m[1]
		month := monthNumbers[strings.ToLower(m[2])]
		day, _ := strconv.Atoi(m[3])
		fields.BillDate = fmt.Sprintf("%s-%02d-%02d", year, month, day)
	}

	return fields, nil
}
