package pickup

import (
	"slices"
	"strings"
)

// Closed enumerations, validated after normalization. Normalization
// never rejects an invalid supplied value; it only fills missing ones.
var (
	CompanySizes = []string{"SME", "enterprise", "Small", "Medium", "Large"}

	Industries = []string{
		"retail", "pharma", "FMCG", "manufacturing", "other", "hospitality",
		"healthcare", "food_service", "construction", "textiles",
		"electronics", "automotive",
	}

	RiskAppetites = []string{"cost", "reliability", "sustainability", "balanced", "compliance"}
)

// Validate checks the normalized request against the structural rules
// and returns one reason per violation, in field order. An empty result
// means the request is valid.
func Validate(req NormalizedRequest) []string {
	var reasons []string

	if req.CompanyID == "" {
		reasons = append(reasons, "companyId is required")
	}
	if len(req.WasteItems) == 0 {
		reasons = append(reasons, "wasteItems must be a non-empty array")
	}
	if req.CompanySize != "" && !slices.Contains(CompanySizes, req.CompanySize) {
		reasons = append(reasons, `companySize must be either "SME", "enterprise", "Small", "Medium", or "Large"`)
	}
	if req.Industry != "" && !slices.Contains(Industries, req.Industry) {
		reasons = append(reasons, "industry must be one of: "+strings.Join(Industries, ", "))
	}
	if req.RiskAppetite != "" && !slices.Contains(RiskAppetites, req.RiskAppetite) {
		reasons = append(reasons, "riskAppetite must be one of: "+strings.Join(RiskAppetites, ", "))
	}

	return reasons
}
