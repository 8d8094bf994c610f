// Package enrich holds the immutable reference tables used to enrich
// extracted bureau records: pincode geography, the zone map, the account
// category taxonomy, the internal-employee mobile set, and score banding.
package enrich

import "strings"

// Place is the geography record one pincode resolves to.
type Place struct {
	City  string
	State string
}

// Store is the enrichment reference store. It is built once by Load and is
// read-only afterwards, so concurrent use by extractor goroutines is safe.
type Store struct {
	pincodes  map[string]Place
	employees map[string]struct{}
}

// Empty returns a Store with no reference data loaded. Lookups degrade to
// their neutral defaults, which is the documented behavior when master files
// are missing.
func Empty() *Store {
	return &Store{
		pincodes:  map[string]Place{},
		employees: map[string]struct{}{},
	}
}

// NewStore builds a store from in-memory tables. Master-file loading goes
// through Load; this constructor serves embedders and tests.
func NewStore(pincodes map[string]Place, employees []string) *Store {
	s := Empty()
	for pc, p := range pincodes {
		s.pincodes[normalizePincode(pc)] = p
	}
	for _, m := range employees {
		if m = normalizeMobile(m); m != "" {
			s.employees[m] = struct{}{}
		}
	}
	return s
}

// Location resolves a pincode to (city, state, zone). Unknown pincodes yield
// empty city/state; unmapped states yield zone "Unknown".
func (s *Store) Location(pincode string) (city, state, zone string) {
	p, ok := s.pincodes[normalizePincode(pincode)]
	if !ok {
		return "", "", ZoneFor("")
	}
	return p.City, p.State, ZoneFor(p.State)
}

// IsEmployee reports whether the mobile number belongs to an internal
// employee. Numbers are normalized before the membership test to absorb the
// trailing ".0" artifact that spreadsheet exports introduce.
func (s *Store) IsEmployee(mobile string) bool {
	m := normalizeMobile(mobile)
	if m == "" {
		return false
	}
	_, ok := s.employees[m]
	return ok
}

// PincodeCount returns the number of loaded pincode rows.
func (s *Store) PincodeCount() int { return len(s.pincodes) }

// EmployeeCount returns the number of loaded employee mobiles.
func (s *Store) EmployeeCount() int { return len(s.employees) }

func normalizePincode(pc string) string {
	pc = strings.TrimSpace(pc)
	// Numeric columns round-trip through floats in some masters ("110001.0").
	if i := strings.IndexByte(pc, '.'); i >= 0 {
		pc = pc[:i]
	}
	return pc
}

func normalizeMobile(m string) string {
	m = strings.TrimSpace(m)
	m = strings.TrimSuffix(m, ".0")
	return m
}
