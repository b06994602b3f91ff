package roster

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"bollette/internal/core"
)

func testProfiles() []core.TenantProfile {
	return []core.TenantProfile{
		{
			HouseNumber:         "1705",
			TenantName:          "Mike Chen",
			Email:               "mike.chen@email.com",
			BaseRent:            core.Money{Cents: 115000},
			UtilitySharePercent: 60,
		},
		{
			HouseNumber:         "819",
			TenantName:          "Sarah Johnson",
			Email:               "sarah.johnson@email.com",
			BaseRent:            core.Money{Cents: 120000},
			UtilitySharePercent: 60,
		},
	}
}

func TestMemoryStrictMode(t *testing.T) {
	dir := NewMemory(ModeStrict, testProfiles())

	p, err := dir.Profile("1705")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TenantName != "Mike Chen" || p.BaseRent.Cents != 115000 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := dir.Profile("9999"); !errors.Is(err, core.ErrUnknownHouse) {
		t.Fatalf("strict mode must fail hard, got %v", err)
	}
}

func TestMemoryLenientMode(t *testing.T) {
	dir := NewMemory(ModeLenient, testProfiles())

	p, err := dir.Profile("9999")
	if err != nil {
		t.Fatalf("lenient mode must not fail: %v", err)
	}
	if p.TenantName != "Tenant 9999" {
		t.Fatalf("expected placeholder name, got %q", p.TenantName)
	}
	if p.BaseRent.Cents != 120000 || p.UtilitySharePercent != 60 {
		t.Fatalf("unexpected placeholder defaults: %+v", p)
	}
}

func TestProfileAcceptsCanonicalForm(t *testing.T) {
	// A roster keyed "0819" must answer for the canonical "819" the
	// normalizer produces, in both modes, and the other way around.
	padded := []core.TenantProfile{{
		HouseNumber:         "0819",
		TenantName:          "Sarah Johnson",
		Email:               "sarah.johnson@email.com",
		BaseRent:            core.Money{Cents: 120000},
		UtilitySharePercent: 60,
	}}

	for _, mode := range []Mode{ModeStrict, ModeLenient} {
		dir := NewMemory(mode, padded)
		for _, house := range []string{"0819", "819"} {
			p, err := dir.Profile(house)
			if err != nil {
				t.Fatalf("mode %s, house %q: unexpected error: %v", mode, house, err)
			}
			if p.TenantName != "Sarah Johnson" {
				t.Fatalf("mode %s, house %q: got %q, want the roster entry", mode, house, p.TenantName)
			}
		}
	}

	// Canonical roster key, zero-padded lookup.
	dir := NewMemory(ModeStrict, testProfiles())
	p, err := dir.Profile("0819")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TenantName != "Sarah Johnson" {
		t.Fatalf("zero-padded lookup: got %q", p.TenantName)
	}
}

func TestHouseNumbersSorted(t *testing.T) {
	dir := NewMemory(ModeStrict, testProfiles())
	houses := dir.HouseNumbers()
	if len(houses) != 2 || houses[0] != "1705" || houses[1] != "819" {
		t.Fatalf("unexpected houses: %v", houses)
	}
}

func writeTestWorkbook(t *testing.T, withPolicies bool) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(tenantsSheet); err != nil {
		t.Fatal(err)
	}
	tenantRows := [][]interface{}{
		{"house_number", "tenant_name", "email", "base_rent", "utility_share_percent"},
		{"1705", "Mike Chen", "mike.chen@email.com", "1150", "60"},
		{"819", "Sarah Johnson", "sarah.johnson@email.com", "1200.00", "60"},
	}
	for i, row := range tenantRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(tenantsSheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	if withPolicies {
		if _, err := f.NewSheet(policiesSheet); err != nil {
			t.Fatal(err)
		}
		policyRows := [][]interface{}{
			{"house_number", "required_vendors", "template"},
			{"1705", "ENMAX, ATCO", "dual"},
			{"819", "", "single"},
		}
		for i, row := range policyRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(policiesSheet, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeTestWorkbook(t, true)

	dir, policies, err := LoadWorkbook(path, ModeStrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := dir.Profile("1705")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BaseRent.Cents != 115000 || p.Email != "mike.chen@email.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	pol, ok := policies["1705"]
	if !ok {
		t.Fatal("expected policy override for 1705")
	}
	if pol.Template != core.TemplateDual || len(pol.RequiredVendors) != 2 {
		t.Fatalf("unexpected policy: %+v", pol)
	}
	if single := policies["819"]; single.Template != core.TemplateSingle || len(single.RequiredVendors) != 0 {
		t.Fatalf("unexpected policy for 819: %+v", single)
	}
}

func TestLoadWorkbookWithoutPolicies(t *testing.T) {
	path := writeTestWorkbook(t, false)

	dir, policies, err := LoadWorkbook(path, ModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policies != nil {
		t.Fatalf("expected nil policies, got %+v", policies)
	}
	if houses := dir.HouseNumbers(); len(houses) != 2 {
		t.Fatalf("unexpected houses: %v", houses)
	}
}

func TestLoadWorkbookMissing(t *testing.T) {
	if _, _, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), ModeStrict); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}
