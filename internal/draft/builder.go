// Package draft computes a tenant's owed amount for a billing period and
// renders the notification text, enforcing the house's vendor policy.
package draft

import (
	"errors"
	"fmt"
	"sort"

	"bollette/internal/core"
)

// ErrNoAttachments marks a billing period with no bill attachment at all.
var ErrNoAttachments = errors.New("no bill attachments found")

// Builder assembles DraftContent values. It performs no mutation beyond the
// store's read-only existence checks.
type Builder struct {
	store AttachmentStore
}

func NewBuilder(store AttachmentStore) *Builder {
	return &Builder{store: store}
}

// Build produces the ready-to-deliver draft for one house's billing period.
// Every vendor in the policy's required set must have an attachment present;
// a missing one returns MissingRequiredVendorError and aborts only this
// house's draft.
func (b *Builder) Build(period core.HouseBillingPeriod, profile core.TenantProfile, pol core.HousePolicy) (core.DraftContent, error) {
	attachments, found, err := b.resolveAttachments(period, pol)
	if err != nil {
		return core.DraftContent{}, err
	}

	share := period.Total.SharePercent(profile.UtilitySharePercent)
	final := profile.BaseRent.Add(share)

	// Both display dates derive from the canonical period date; the subject
	// month is never re-parsed out of the rendered rent-date string.
	rentDate := fmt.Sprintf("%s 01", period.PeriodEnd.NextMonthStart().MonthName())
	subject := fmt.Sprintf("%s utility bill", period.PeriodEnd.MonthName())

	body, err := renderBody(pol.Template, bodyData{
		RentDate:    rentDate,
		BaseRent:    profile.BaseRent.WholeDollars(),
		Percent:     profile.UtilitySharePercent,
		Total:       period.Total,
		FinalAmount: final,
		Breakdown:   breakdownLines(period, pol, found),
	})
	if err != nil {
		return core.DraftContent{}, err
	}

	return core.DraftContent{
		HouseNumber: period.HouseNumber,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
		Recipient:   profile.Email,
	}, nil
}

// resolveAttachments checks the store for every breakdown vendor and
// enforces the required set. The returned list is sorted; found reports
// which vendors have an attachment.
func (b *Builder) resolveAttachments(period core.HouseBillingPeriod, pol core.HousePolicy) ([]string, map[core.Vendor]bool, error) {
	found := make(map[core.Vendor]bool)
	var attachments []string
	for vendor := range period.VendorBreakdown {
		if b.store.Exists(period.HouseNumber, period.PeriodEnd, vendor) {
			found[vendor] = true
			attachments = append(attachments, AttachmentName(period.HouseNumber, period.PeriodEnd, vendor))
		}
	}

	var missing []core.Vendor
	for _, required := range pol.RequiredVendors {
		if !found[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &core.MissingRequiredVendorError{
			HouseNumber: period.HouseNumber,
			PeriodEnd:   period.PeriodEnd,
			Missing:     missing,
		}
	}
	if len(attachments) == 0 {
		return nil, nil, fmt.Errorf("%w for house %s %s",
			ErrNoAttachments, period.HouseNumber, period.PeriodEnd.ISO())
	}

	sort.Strings(attachments)
	return attachments, found, nil
}

// breakdownLines itemizes the dual template's labeled amounts: the policy's
// required vendors in policy order, or every breakdown vendor in sorted
// order when the policy names none.
func breakdownLines(period core.HouseBillingPeriod, pol core.HousePolicy, found map[core.Vendor]bool) []breakdownLine {
	vendors := pol.RequiredVendors
	if len(vendors) == 0 {
		for v := range period.VendorBreakdown {
			vendors = append(vendors, v)
		}
		sort.Slice(vendors, func(i, j int) bool { return vendors[i] < vendors[j] })
	}

	var lines []breakdownLine
	for _, v := range vendors {
		amount, ok := period.VendorBreakdown[v]
		if !ok {
			continue
		}
		lines = append(lines, breakdownLine{Label: vendorLabel(v), Amount: amount})
	}
	return lines
}
