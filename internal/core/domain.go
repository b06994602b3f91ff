package core

import (
	"errors"
	"time"
)

const (
	VendorEnmax   Vendor = "ENMAX"
	VendorAtco    Vendor = "ATCO"
	VendorUnknown Vendor = "UNKNOWN"
)

const (
	TemplateSingle TemplateKind = "single_vendor"
	TemplateDual   TemplateKind = "dual_vendor"
)

type (
	// Vendor tags the statement layout a bill was extracted from.
	Vendor string

	// TemplateKind selects the notification body layout for a house.
	TemplateKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RawDocument is the first-page text of a single statement, ephemeral per run.
	RawDocument struct {
		Source string // identifier, usually the originating file name
		Text   string
	}

	// RawFields holds extracted field values before normalization.
	// Empty strings mark fields the extractor could not locate.
	RawFields struct {
		Source      string
		HouseNumber string
		Amount      string
		BillDate    string
		Vendor      string
	}

	// BillRecord is one normalized bill. Amount and BillDate are nil when the
	// source value could not be coerced; such records are excluded from totals
	// but still eligible for record-keeping when house and date are present.
	BillRecord struct {
		Source      string
		HouseNumber string
		Vendor      Vendor
		Amount      *Money
		BillDate    *Date
	}

	// HouseBillingPeriod groups one house's bills for one calendar month.
	// All member records share HouseNumber and fall in PeriodEnd's month.
	HouseBillingPeriod struct {
		HouseNumber     string
		PeriodEnd       Date // month-end date
		Records         []BillRecord
		Total           Money
		VendorBreakdown map[Vendor]Money
	}

	// TenantProfile is read-only roster data for one house.
	TenantProfile struct {
		HouseNumber         string
		TenantName          string
		Email               string
		BaseRent            Money
		UtilitySharePercent int // 0-100
	}

	// HousePolicy names the vendors whose attachments must all be present
	// before a draft may be produced, and the template to render with.
	HousePolicy struct {
		RequiredVendors []Vendor
		Template        TemplateKind
	}

	// DraftContent is a ready-to-deliver notification. Built fresh each run,
	// never persisted by the core.
	DraftContent struct {
		HouseNumber string
		Subject     string
		Body        string
		Attachments []string // sorted attachment identifiers
		Recipient   string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrUnknownHouse  = errors.New("no tenant profile for house")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MonthEnd returns the last day of the date's month.
func (d Date) MonthEnd() Date {
	y, m, _ := d.Date()
	return Date{Time: time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)}
}

// NextMonthStart returns the first day of the month after the date's month.
func (d Date) NextMonthStart() Date {
	y, m, _ := d.Date()
	return Date{Time: time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)}
}

// MonthName returns the date's full English month name.
func (d Date) MonthName() string {
	return d.Format("January")
}

// Recordable reports whether the record carries enough identity for durable
// record-keeping: both house and bill date present.
func (r BillRecord) Recordable() bool {
	return r.HouseNumber != "" && r.BillDate != nil
}

// Countable reports whether the record participates in period totals.
func (r BillRecord) Countable() bool {
	return r.Recordable() && r.Amount != nil
}

// Raw re-renders the record's fields in their canonical string forms.
// Normalize(r.Raw()) equals r for any normalized record.
func (r BillRecord) Raw() RawFields {
	raw := RawFields{
		Source:      r.Source,
		HouseNumber: r.HouseNumber,
		Vendor:      string(r.Vendor),
	}
	if r.Amount != nil {
		raw.Amount = r.Amount.String()
	}
	if r.BillDate != nil {
		raw.BillDate = r.BillDate.ISO()
	}
	return raw
}

// Validate checks that the policy's template kind and vendors are known.
func (p HousePolicy) Validate() error {
	switch p.Template {
	case TemplateSingle, TemplateDual:
	default:
		return errors.New("unknown template kind: " + string(p.Template))
	}
	for _, v := range p.RequiredVendors {
		switch v {
		case VendorEnmax, VendorAtco:
		default:
			return errors.New("unknown required vendor: " + string(v))
		}
	}
	return nil
}
