package extract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"bollette/internal/core"
)

const (
	// HouseByLabel locates the house number after the SERVICE ADDRESS label.
	HouseByLabel HouseStrategy = "label"
	// HouseByStreetSuffix locates the house number immediately before a
	// street-type suffix token on an address line.
	HouseByStreetSuffix HouseStrategy = "street"
)

// HouseStrategy selects how the ENMAX layout locates the house number.
type HouseStrategy string

// Extractor is the per-layout field extraction strategy. A missing field
// never blocks the others; partial results are valid.
type Extractor interface {
	Vendor() core.Vendor
	// Extract pulls house, amount and bill date from the document text.
	// Fields that cannot be located are empty strings, not errors.
	Extract(doc core.RawDocument) (core.RawFields, error)
}

var errEmptyDocument = errors.New("empty document text")

// ForVendor returns the extraction strategy for the classified vendor.
// houses is the roster of known house-number strings; only roster values
// are ever matched, never free-form digits.
func ForVendor(v core.Vendor, houses []string, strategy HouseStrategy) (Extractor, error) {
	switch v {
	case core.VendorEnmax:
		return NewEnmax(houses, strategy), nil
	case core.VendorAtco:
		return NewAtco(houses), nil
	default:
		return nil, fmt.Errorf("no extractor for vendor %q", v)
	}
}

// houseAlternation builds a regexp alternation from the roster with longer
// strings before any shorter string that is their prefix, so "1705" is
// never mis-matched as "170".
func houseAlternation(houses []string) string {
	sorted := make([]string, len(houses))
	copy(sorted, houses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, h := range sorted {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return strings.Join(quoted, "|")
}
