// Package policy maps house identifiers to vendor requirements and
// notification template rules.
package policy

import (
	"bollette/internal/core"
)

// Engine is a pure lookup from exact house-number strings to policies.
// Unmatched houses fall back to one default policy.
type Engine struct {
	byHouse  map[string]core.HousePolicy
	fallback core.HousePolicy
}

// DefaultPolicy is the fallback for houses without an explicit entry:
// no required vendors, single-amount template.
func DefaultPolicy() core.HousePolicy {
	return core.HousePolicy{Template: core.TemplateSingle}
}

// New builds an engine over explicit per-house policies. A nil map yields
// an engine that always answers with the default policy. Entries are indexed
// under both the given key and its canonical integer form, so "0819" and
// "819" name the same policy.
func New(byHouse map[string]core.HousePolicy) *Engine {
	e := &Engine{
		byHouse:  make(map[string]core.HousePolicy, len(byHouse)),
		fallback: DefaultPolicy(),
	}
	for house, p := range byHouse {
		e.byHouse[house] = p
		e.byHouse[core.CanonicalHouseNumber(house)] = p
	}
	return e
}

// Default returns the engine used when the roster carries no policy
// overrides: houses 1705 and 1707 require both vendors' attachments and
// render the itemized dual-vendor template.
func Default() *Engine {
	dual := core.HousePolicy{
		RequiredVendors: []core.Vendor{core.VendorEnmax, core.VendorAtco},
		Template:        core.TemplateDual,
	}
	return New(map[string]core.HousePolicy{
		"1705": dual,
		"1707": dual,
	})
}

// For returns the policy for a house, falling back to the default policy
// when the house has no explicit entry.
func (e *Engine) For(house string) core.HousePolicy {
	if p, ok := e.byHouse[house]; ok {
		return p
	}
	if p, ok := e.byHouse[core.CanonicalHouseNumber(house)]; ok {
		return p
	}
	return e.fallback
}
