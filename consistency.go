package berlin

import "sort"

// Inconsistencies groups locations whose subdivision reference does not
// resolve, by state and then by the unresolved subdivision code.
type Inconsistencies map[string]map[string][]*Location

// Empty reports whether the catalog was consistent.
func (in Inconsistencies) Empty() bool { return len(in) == 0 }

// Count returns the number of orphaned locations.
func (in Inconsistencies) Count() int {
	n := 0
	for _, bySub := range in {
		for _, locs := range bySub {
			n += len(locs)
		}
	}
	return n
}

// States returns the states with orphans, sorted.
func (in Inconsistencies) States() []string {
	out := make([]string, 0, len(in))
	for st := range in {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// Codes returns the unresolved subdivision codes of a state, sorted.
func (in Inconsistencies) Codes(state string) []string {
	out := make([]string, 0, len(in[state]))
	for code := range in[state] {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Check audits the subdivision references of every location. It never
// modifies the catalog. Locations keep catalog order within a group.
func Check(cat *Catalog) (Inconsistencies, error) {
	if cat == nil {
		return nil, ErrNoCatalog
	}

	missing := Inconsistencies{}
	for _, loc := range cat.Locations() {
		id := loc.SubdivisionID()
		if id == "" {
			continue
		}
		if _, ok := cat.Get(id, TypeSubdivision).(*Subdivision); ok {
			continue
		}
		bySub, ok := missing[loc.State]
		if !ok {
			bySub = make(map[string][]*Location)
			missing[loc.State] = bySub
		}
		bySub[loc.SubdivisionCode] = append(bySub[loc.SubdivisionCode], loc)
	}
	return missing, nil
}
