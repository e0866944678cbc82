package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pe-insights-go/internal/types"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	r := Normalize(types.CompanyRecord{DisplayName: " Acme Corp "})
	assert.Equal(t, "Acme Corp", r.DisplayName)
	assert.Equal(t, "Unknown", r.OwnershipCategory)
	assert.Equal(t, "Unknown", r.PublicPrivateStatus)
	assert.Equal(t, "", r.Jurisdiction, "jurisdiction is left as-is; the aggregator handles it")
	assert.NotNil(t, r.OwningFirmNames)
	assert.Empty(t, r.OwningFirmNames)
}

func TestNormalizeKeepsPresentValues(t *testing.T) {
	r := Normalize(types.CompanyRecord{
		DisplayName:       "Globex",
		OwnershipCategory: "PE-Owned",
		Jurisdiction:      "Unknown",
		OwningFirmNames:   []string{"KKR", " ", "Blackstone Group"},
	})
	assert.Equal(t, "PE-Owned", r.OwnershipCategory)
	assert.Equal(t, "Unknown", r.Jurisdiction)
	assert.Equal(t, []string{"KKR", "Blackstone Group"}, r.OwningFirmNames)
}

func TestNormalizeCopiesOwnerList(t *testing.T) {
	owners := []string{"KKR"}
	r := Normalize(types.CompanyRecord{DisplayName: "A", OwningFirmNames: owners})
	owners[0] = "mutated"
	assert.Equal(t, []string{"KKR"}, r.OwningFirmNames, "record must not alias caller memory")
}

func TestNormalizeAllDeduplicatesLastWins(t *testing.T) {
	records := NormalizeAll([]types.CompanyRecord{
		{DisplayName: "Acme Corp", OwnershipCategory: "Private"},
		{DisplayName: "Globex", OwnershipCategory: "Public (Institutional)"},
		{DisplayName: "Acme Corp", OwnershipCategory: "PE-Owned"},
	})
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Corp", records[0].DisplayName)
	assert.Equal(t, "PE-Owned", records[0].OwnershipCategory, "later duplicate wins")
	assert.Equal(t, "Globex", records[1].DisplayName)
}
