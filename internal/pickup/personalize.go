package pickup

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sellwaste/sellwaste/internal/dataset"
)

// behaviorSignals is the deterministic summary behind the layer-2
// message. It reads only the normalized request and the dataset, never
// the layer-1 narrative.
type behaviorSignals struct {
	Industry     string
	CompanySize  string
	RiskAppetite string
	Summary      string
}

func (s *Service) behaviorSignals(ctx context.Context, req NormalizedRequest) behaviorSignals {
	industry := orDefault(req.Industry, "other")
	companySize := orDefault(req.CompanySize, "SME")
	riskAppetite := orDefault(req.RiskAppetite, "cost")

	var relevant []dataset.Company
	if s.dataset != nil {
		relevant, _ = s.dataset.FilterByCityAndIndustry(ctx, "", industry)
	}

	return behaviorSignals{
		Industry:     industry,
		CompanySize:  companySize,
		RiskAppetite: riskAppetite,
		Summary: fmt.Sprintf(
			"Industry %s has %d companies in dataset; dominant risk preference is %s.",
			industry, len(relevant), dominantRisk(relevant)),
	}
}

func personalizationPrompt(sig behaviorSignals) string {
	return strings.Join([]string{
		"System: You are generating explanatory context, not making decisions.",
		"Constraints: Output 2-3 plain-text sentences. No bullets, no JSON, no markdown.",
		"Dataset context: " + sig.Summary,
		fmt.Sprintf("Request signals: companySize=%s, riskAppetite=%s, industry=%s.",
			sig.CompanySize, sig.RiskAppetite, sig.Industry),
		"Task: Generate a short adaptive reasoning message tailored to the company profile.",
		"Respond in 2-3 concise sentences. Do not hallucinate unknown facts; if unsure, say it is unclear.",
	}, "\n")
}

func personalizationFallback(sig behaviorSignals) string {
	return fmt.Sprintf(
		"Adapting pickup strategy for a %s %s business with a %s risk appetite. Recommendations remain conservative and transparent given limited historical signals. Decisions prioritize predictable outcomes and operational clarity.",
		sig.CompanySize, sig.Industry, sig.RiskAppetite)
}

func dominantRisk(companies []dataset.Company) string {
	counts := make(map[string]int)
	for _, company := range companies {
		counts[orDefault(company.RiskAppetite, "unknown")]++
	}
	if len(counts) == 0 {
		return "mixed"
	}

	risks := make([]string, 0, len(counts))
	for risk := range counts {
		risks = append(risks, risk)
	}
	// Equal counts break alphabetically, not by dataset order, so the
	// winner is stable across map iteration order.
	sort.Slice(risks, func(i, j int) bool {
		if counts[risks[i]] != counts[risks[j]] {
			return counts[risks[i]] > counts[risks[j]]
		}
		return risks[i] < risks[j]
	})
	return risks[0]
}
