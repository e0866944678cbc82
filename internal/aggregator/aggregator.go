package aggregator

import (
	"math"

	"pe-insights-go/internal/facet"
	"pe-insights-go/internal/types"
)

// UnknownLabel is the bucket for records with no usable facet value.
const UnknownLabel = "Unknown"

// PE-related is the fixed two-category union used for the headline count.
var peRelatedCategories = []string{"PE-Owned", "Public (PE-Backed)"}

// LabelCount is one ranked entry of a group-by projection.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counts is a group-by result that remembers the order in which labels were
// first seen, so ranking ties can be broken stably instead of alphabetically.
type Counts struct {
	byLabel map[string]int
	order   []string
}

func NewCounts() *Counts {
	return &Counts{byLabel: map[string]int{}}
}

func (c *Counts) Inc(label string) {
	if _, seen := c.byLabel[label]; !seen {
		c.order = append(c.order, label)
	}
	c.byLabel[label]++
}

func (c *Counts) Get(label string) int { return c.byLabel[label] }
func (c *Counts) Len() int             { return len(c.order) }

// CountBy groups records by the given facet key. Empty ownership categories
// fall into the "Unknown" bucket; for jurisdiction, empty and "Unknown" values
// are excluded from the mapping entirely (they still count toward the report
// total, just not toward the nation breakdown).
func CountBy(records []types.CompanyRecord, key facet.Key) *Counts {
	c := NewCounts()
	for _, r := range records {
		v := facet.Value(r, key)
		switch key {
		case facet.KeyJurisdiction:
			if v == "" || v == UnknownLabel {
				continue
			}
		default:
			if v == "" {
				v = UnknownLabel
			}
		}
		c.Inc(v)
	}
	return c
}

// CountByOwningFirm fans a record out to every firm in its owner list: a
// company with three owners contributes +1 to each of the three.
func CountByOwningFirm(records []types.CompanyRecord) *Counts {
	c := NewCounts()
	for _, r := range records {
		for _, firm := range r.OwningFirmNames {
			if firm == "" {
				continue
			}
			c.Inc(firm)
		}
	}
	return c
}

// TopN ranks descending by count, breaking ties by first-encountered label
// order, and truncates to n entries. n <= 0 means no truncation.
func TopN(c *Counts, n int) []LabelCount {
	out := make([]LabelCount, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, LabelCount{Label: label, Count: c.byLabel[label]})
	}
	// insertion sort keeps equal counts in first-seen order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PERelatedCount sums the fixed PE-related category union. It is computed from
// the category breakdown alone, so active filters can never change it.
func PERelatedCount(categories *Counts) int {
	total := 0
	for _, label := range peRelatedCategories {
		total += categories.Get(label)
	}
	return total
}

// Percentage rounds 100*part/total to the nearest whole percent, surfacing 0
// instead of NaN when the total is empty.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
