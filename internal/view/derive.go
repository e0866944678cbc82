package view

import (
	"fmt"
	"math"
	"strings"

	"pe-insights-go/internal/aggregator"
	"pe-insights-go/internal/facet"
	"pe-insights-go/internal/types"
)

// jurisdictionTopN caps the nation breakdown; category and firm breakdowns
// stay untruncated since their cardinality is small.
const jurisdictionTopN = 10

// Summary holds the chart-facing aggregates. It is always computed from the
// full record collection: clicking a chart segment narrows the record list
// below, but must never change the chart it was clicked from.
type Summary struct {
	Total               int                     `json:"total"`
	CategoryBreakdown   []aggregator.LabelCount `json:"category_breakdown"`
	JurisdictionTopN    []aggregator.LabelCount `json:"jurisdiction_top_n"`
	OwningFirmBreakdown []aggregator.LabelCount `json:"owning_firm_breakdown"`
	PERelatedCount      int                     `json:"pe_related_count"`
	PERelatedPercentage int                     `json:"pe_related_percentage"`
	FormattedDuration   string                  `json:"formatted_duration"`
}

type DerivedView struct {
	Summary        Summary               `json:"summary"`
	VisibleRecords []types.CompanyRecord `json:"visible_records"`
}

// Matches reports whether the record survives the free-text search. An empty
// term matches everything; otherwise the comparison is a case-insensitive
// substring test on the display name.
func Matches(r types.CompanyRecord, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.DisplayName), strings.ToLower(term))
}

// Derive is the whole engine: a pure function from (report, state) to the
// visible record list plus the aggregate summary. It is recomputed from
// scratch on every state change; there is no incremental path.
func Derive(rep types.Report, st State) DerivedView {
	visible := make([]types.CompanyRecord, 0, len(rep.Records))
	for _, r := range rep.Records {
		if Matches(r, st.SearchTerm) {
			visible = append(visible, r)
		}
	}
	visible = st.Filters.Apply(visible)

	categories := aggregator.CountBy(rep.Records, facet.KeyOwnershipCategory)
	nations := aggregator.CountBy(rep.Records, facet.KeyJurisdiction)
	firms := aggregator.CountByOwningFirm(rep.Records)
	peCount := aggregator.PERelatedCount(categories)

	return DerivedView{
		Summary: Summary{
			Total:               len(rep.Records),
			CategoryBreakdown:   aggregator.TopN(categories, 0),
			JurisdictionTopN:    aggregator.TopN(nations, jurisdictionTopN),
			OwningFirmBreakdown: aggregator.TopN(firms, 0),
			PERelatedCount:      peCount,
			PERelatedPercentage: aggregator.Percentage(peCount, len(rep.Records)),
			FormattedDuration:   FormatDuration(rep.TotalDurationSeconds),
		},
		VisibleRecords: visible,
	}
}

// FormatDuration renders a seconds value as "2m 5s" / "45s", or "N/A" when the
// report carries no duration.
func FormatDuration(seconds *float64) string {
	if seconds == nil {
		return "N/A"
	}
	total := int(math.Round(*seconds))
	if total < 0 {
		total = 0
	}
	if total >= 60 {
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	}
	return fmt.Sprintf("%ds", total)
}
