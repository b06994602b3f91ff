// Package roster provides the read-only tenant/house directory consulted
// during draft generation, and the extraction house-number roster.
package roster

import (
	"fmt"
	"sort"
	"sync"

	"bollette/internal/core"
)

const (
	// ModeStrict makes an absent house a hard error.
	ModeStrict Mode = "strict"
	// ModeLenient resolves an absent house to a placeholder profile.
	ModeLenient Mode = "lenient"
)

// Mode selects how lookups treat houses with no roster entry. The choice is
// explicit configuration, never an incidental fallback.
type Mode string

func (m Mode) Valid() bool { return m == ModeStrict || m == ModeLenient }

// Directory is the tenant/house roster port.
type Directory interface {
	// Profile returns the tenant profile for an exact house-number key.
	Profile(house string) (core.TenantProfile, error)
	// HouseNumbers lists every known house number, sorted.
	HouseNumbers() []string
}

// PlaceholderProfile is the lenient-mode stand-in for an unknown house.
func PlaceholderProfile(house string) core.TenantProfile {
	return core.TenantProfile{
		HouseNumber:         house,
		TenantName:          fmt.Sprintf("Tenant %s", house),
		Email:               "tenant@example.com",
		BaseRent:            core.Money{Cents: 120000},
		UtilitySharePercent: 60,
	}
}

// Memory is an in-memory Directory. It also backs workbook loads; reloading
// means constructing a fresh one, there is no hidden global cache.
// Profiles are indexed under both the roster's own key and its canonical
// integer form, so "0819" and "819" resolve to the same entry.
type Memory struct {
	mu       sync.Mutex
	mode     Mode
	profiles map[string]core.TenantProfile
	byKey    map[string]string // lookup key (given or canonical) -> profile key
}

func NewMemory(mode Mode, profiles []core.TenantProfile) *Memory {
	m := &Memory{
		mode:     mode,
		profiles: make(map[string]core.TenantProfile, len(profiles)),
		byKey:    make(map[string]string, len(profiles)),
	}
	for _, p := range profiles {
		m.profiles[p.HouseNumber] = p
		m.byKey[p.HouseNumber] = p.HouseNumber
		m.byKey[core.CanonicalHouseNumber(p.HouseNumber)] = p.HouseNumber
	}
	return m
}

func (m *Memory) Profile(house string) (core.TenantProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.byKey[house]
	if !ok {
		key, ok = m.byKey[core.CanonicalHouseNumber(house)]
	}
	if ok {
		return m.profiles[key], nil
	}
	if m.mode == ModeLenient {
		return PlaceholderProfile(house), nil
	}
	return core.TenantProfile{}, fmt.Errorf("%w: %s", core.ErrUnknownHouse, house)
}

func (m *Memory) HouseNumbers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.profiles))
	for house := range m.profiles {
		out = append(out, house)
	}
	sort.Strings(out)
	return out
}
