package facet

import (
	"fmt"

	"pe-insights-go/internal/types"
)

// Key names a record attribute that can be grouped and filtered on.
type Key string

const (
	KeyOwnershipCategory Key = "ownershipCategory"
	KeyJurisdiction      Key = "jurisdiction"
)

// ParseKey validates a key coming off the wire (e.g. a ?filter= query param).
func ParseKey(s string) (Key, error) {
	switch Key(s) {
	case KeyOwnershipCategory, KeyJurisdiction:
		return Key(s), nil
	}
	return "", fmt.Errorf("unknown facet key %q", s)
}

// Filter is a single (key, required value) drill-down constraint.
type Filter struct {
	Key   Key    `json:"key"`
	Value string `json:"value"`
}

// Set is an ordered, duplicate-free collection of filters applied as a logical
// AND. Order never changes what Apply returns; it only fixes the display order
// of filter chips. Sets have value semantics: every mutation returns a new Set
// and leaves the receiver untouched.
type Set struct {
	filters []Filter
}

// NewSet builds a set from the given filters, dropping duplicates.
func NewSet(filters ...Filter) Set {
	var s Set
	for _, f := range filters {
		s = s.Add(f)
	}
	return s
}

// Add appends f unless an identical pair is already present.
func (s Set) Add(f Filter) Set {
	if s.Contains(f) {
		return s
	}
	out := make([]Filter, len(s.filters), len(s.filters)+1)
	copy(out, s.filters)
	return Set{filters: append(out, f)}
}

// Remove drops the exact matching pair; removing an absent filter is a no-op.
func (s Set) Remove(f Filter) Set {
	if !s.Contains(f) {
		return s
	}
	out := make([]Filter, 0, len(s.filters)-1)
	for _, have := range s.filters {
		if have != f {
			out = append(out, have)
		}
	}
	return Set{filters: out}
}

// Reset returns the empty set.
func (s Set) Reset() Set {
	return Set{}
}

func (s Set) Contains(f Filter) bool {
	for _, have := range s.filters {
		if have == f {
			return true
		}
	}
	return false
}

func (s Set) Len() int { return len(s.filters) }

// Filters returns the active filters in chip-display order.
func (s Set) Filters() []Filter {
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// Apply keeps the records whose facet values match every filter exactly
// (case-sensitive). Two different-valued filters on the same key AND to an
// empty result by construction; that is accepted, not guarded.
func (s Set) Apply(records []types.CompanyRecord) []types.CompanyRecord {
	if len(s.filters) == 0 {
		return records
	}
	out := make([]types.CompanyRecord, 0, len(records))
	for _, r := range records {
		if s.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s Set) matches(r types.CompanyRecord) bool {
	for _, f := range s.filters {
		if Value(r, f.Key) != f.Value {
			return false
		}
	}
	return true
}

// Value reads the record attribute named by key.
func Value(r types.CompanyRecord, key Key) string {
	switch key {
	case KeyOwnershipCategory:
		return r.OwnershipCategory
	case KeyJurisdiction:
		return r.Jurisdiction
	}
	return ""
}
