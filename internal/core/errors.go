package core

import (
	"fmt"
	"strings"
)

// UnreadableSourceError marks a document whose text could not be read.
// Fatal for that document only; the batch continues.
type UnreadableSourceError struct {
	Source string
	Err    error
}

func (e *UnreadableSourceError) Error() string {
	return fmt.Sprintf("unreadable source %s: %v", e.Source, e.Err)
}

func (e *UnreadableSourceError) Unwrap() error { return e.Err }

// UnclassifiedVendorError marks a document matching neither vendor layout.
type UnclassifiedVendorError struct {
	Source string
}

func (e *UnclassifiedVendorError) Error() string {
	return fmt.Sprintf("could not determine vendor from document content: %s", e.Source)
}

// ExtractionFailedError marks a document the selected extractor could not
// process at all. Individual missing fields are not errors.
type ExtractionFailedError struct {
	Source string
	Err    error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// MissingRequiredVendorError marks a house whose billing period lacks an
// attachment for one or more policy-required vendors. Aborts only that
// house's draft, never the batch.
type MissingRequiredVendorError struct {
	HouseNumber string
	PeriodEnd   Date
	Missing     []Vendor
}

func (e *MissingRequiredVendorError) Error() string {
	names := make([]string, len(e.Missing))
	for i, v := range e.Missing {
		names[i] = string(v)
	}
	return fmt.Sprintf("missing required vendors for house %s %s: %s",
		e.HouseNumber, e.PeriodEnd.ISO(), strings.Join(names, ", "))
}

// TransportError marks a delivery attempt that failed. Reported upward,
// never retried by the core.
type TransportError struct {
	HouseNumber string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed for house %s: %v", e.HouseNumber, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
