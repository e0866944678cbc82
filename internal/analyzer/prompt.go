package analyzer

import (
	"fmt"
	"strings"
)

// Categories the model may answer with. The engine treats the set as open
// ended, but the prompt pins these labels so reports aggregate cleanly.
var ownershipCategories = []string{
	"PE-Owned",
	"Public (PE-Backed)",
	"Public (Institutional)",
	"Private (Founder/Family)",
	"Private (Other)",
	"Unknown",
}

const promptTemplate = `Analyze the corporate ownership of the company: '%s'.

Determine, from reliable public sources only:
1. Whether the company is publicly traded or privately held.
2. Its major owners, cross-checked against this list of known private equity firms:
%s
3. The nation of its primary headquarters.

Return ONLY a JSON object with this exact structure and nothing else:
{
  "public_private": "Public or Private or Unknown",
  "ownership_category": "One of: %s",
  "pe_owner_names": ["names of owning PE firms, or an empty list"],
  "nation": "Headquarters country name, or Unknown",
  "ownership_summary": "One sentence on the ownership structure."
}

If a field cannot be established from a reliable source, use "Unknown" or an
empty list. Do not infer or guess.`

// BuildOwnershipPrompt renders the strict-JSON analysis prompt for one company.
func BuildOwnershipPrompt(company string, peFirms []string) string {
	return fmt.Sprintf(promptTemplate,
		company,
		strings.Join(peFirms, ", "),
		strings.Join(ownershipCategories, ", "),
	)
}
