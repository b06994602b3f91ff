package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bollette/internal/core"
)

const (
	tenantsSheet  = "Tenants"
	policiesSheet = "Policies"
)

// LoadWorkbook reads tenant profiles from the workbook's Tenants sheet and,
// when a Policies sheet is present, per-house policy overrides. Reload is
// caller-invoked: call LoadWorkbook again and swap the result.
func LoadWorkbook(path string, mode Mode) (*Memory, map[string]core.HousePolicy, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	profiles, err := readTenants(f)
	if err != nil {
		return nil, nil, err
	}

	policies, err := readPolicies(f)
	if err != nil {
		return nil, nil, err
	}

	return NewMemory(mode, profiles), policies, nil
}

func readTenants(f *excelize.File) ([]core.TenantProfile, error) {
	rows, err := f.GetRows(tenantsSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", tenantsSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s sheet has no data rows", tenantsSheet)
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{"house_number", "tenant_name", "email", "base_rent", "utility_share_percent"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s sheet missing column %q", tenantsSheet, required)
		}
	}

	var profiles []core.TenantProfile
	for i, row := range rows[1:] {
		house := cell(row, cols["house_number"])
		if house == "" {
			continue
		}
		rentCents, err := core.ParseAmountToCents(cell(row, cols["base_rent"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: base_rent: %w", tenantsSheet, i+2, err)
		}
		share, err := strconv.Atoi(cell(row, cols["utility_share_percent"]))
		if err != nil || share < 0 || share > 100 {
			return nil, fmt.Errorf("%s row %d: utility_share_percent must be 0-100", tenantsSheet, i+2)
		}
		profiles = append(profiles, core.TenantProfile{
			HouseNumber:         house,
			TenantName:          cell(row, cols["tenant_name"]),
			Email:               cell(row, cols["email"]),
			BaseRent:            core.Money{Cents: rentCents},
			UtilitySharePercent: share,
		})
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%s sheet has no usable rows", tenantsSheet)
	}
	return profiles, nil
}

// readPolicies returns nil when the workbook has no Policies sheet; callers
// then fall back to the built-in policy set.
func readPolicies(f *excelize.File) (map[string]core.HousePolicy, error) {
	idx, err := f.GetSheetIndex(policiesSheet)
	if err != nil || idx == -1 {
		return nil, nil
	}
	rows, err := f.GetRows(policiesSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", policiesSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{"house_number", "required_vendors", "template"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s sheet missing column %q", policiesSheet, required)
		}
	}

	policies := make(map[string]core.HousePolicy)
	for i, row := range rows[1:] {
		house := cell(row, cols["house_number"])
		if house == "" {
			continue
		}
		p := core.HousePolicy{Template: parseTemplate(cell(row, cols["template"]))}
		for _, v := range strings.Split(cell(row, cols["required_vendors"]), ",") {
			v = strings.ToUpper(strings.TrimSpace(v))
			if v != "" {
				p.RequiredVendors = append(p.RequiredVendors, core.Vendor(v))
			}
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", policiesSheet, i+2, err)
		}
		policies[house] = p
	}
	return policies, nil
}

func parseTemplate(s string) core.TemplateKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dual", "dual_vendor":
		return core.TemplateDual
	case "single", "single_vendor":
		return core.TemplateSingle
	default:
		return core.TemplateKind(strings.TrimSpace(s))
	}
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
