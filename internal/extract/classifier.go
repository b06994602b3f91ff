// Package extract identifies which vendor layout produced a statement's
// first-page text and pulls house, amount and bill date out of it.
package extract

import (
	"strings"

	"bollette/internal/core"
)

// DefaultFilenameHint is the filename substring that marks an ATCO download
// when permissive classification is enabled.
const DefaultFilenameHint = "statements"

// Classifier maps first-page text to a vendor tag using an ordered list of
// mutually exclusive literal markers, first match wins.
type Classifier struct {
	permissive   bool
	filenameHint string
}

// NewClassifier builds a classifier. When permissive is true the document's
// source name is consulted as a tie-breaker after both content markers miss;
// hint selects the ATCO filename substring (DefaultFilenameHint when empty).
func NewClassifier(permissive bool, hint string) *Classifier {
	if hint == "" {
		hint = DefaultFilenameHint
	}
	return &Classifier{permissive: permissive, filenameHint: strings.ToUpper(hint)}
}

// Classify returns the vendor tag for the document's text, or an
// UnclassifiedVendorError when the text is empty or matches no marker.
func (c *Classifier) Classify(doc core.RawDocument) (core.Vendor, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return core.VendorUnknown, &core.UnclassifiedVendorError{Source: doc.Source}
	}

	upper := strings.ToUpper(doc.Text)
	switch {
	case strings.Contains(upper, "ENMAX.COM"):
		return core.VendorEnmax, nil
	case strings.Contains(upper, "STATEMENT DATE:"):
		return core.VendorAtco, nil
	}

	if c.permissive && strings.Contains(strings.ToUpper(doc.Source), c.filenameHint) {
		return core.VendorAtco, nil
	}

	return core.VendorUnknown, &core.UnclassifiedVendorError{Source: doc.Source}
}
