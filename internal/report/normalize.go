package report

import (
	"strings"

	"pe-insights-go/internal/aggregator"
	"pe-insights-go/internal/types"
)

// Normalize coerces a raw record into the shape the engine relies on: a
// missing ownership category becomes "Unknown" and the owner list is copied so
// the record never aliases caller-owned memory. Jurisdiction is left as-is;
// the aggregator handles its empty/"Unknown" exclusion downstream. Malformed
// input is coerced, never rejected.
func Normalize(raw types.CompanyRecord) types.CompanyRecord {
	r := raw
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if strings.TrimSpace(r.OwnershipCategory) == "" {
		r.OwnershipCategory = aggregator.UnknownLabel
	}
	if strings.TrimSpace(r.PublicPrivateStatus) == "" {
		r.PublicPrivateStatus = aggregator.UnknownLabel
	}
	owners := make([]string, 0, len(raw.OwningFirmNames))
	for _, o := range raw.OwningFirmNames {
		if o = strings.TrimSpace(o); o != "" {
			owners = append(owners, o)
		}
	}
	r.OwningFirmNames = owners
	return r
}

// NormalizeAll normalizes every record and enforces display-name uniqueness:
// when a batch produces duplicate names the later record wins. Uniqueness is a
// data-quality precondition of the exploration engine, so it is settled here
// at ingestion rather than branched on downstream.
func NormalizeAll(raws []types.CompanyRecord) []types.CompanyRecord {
	out := make([]types.CompanyRecord, 0, len(raws))
	index := map[string]int{}
	for _, raw := range raws {
		r := Normalize(raw)
		if i, dup := index[r.DisplayName]; dup {
			out[i] = r
			continue
		}
		index[r.DisplayName] = len(out)
		out = append(out, r)
	}
	return out
}
