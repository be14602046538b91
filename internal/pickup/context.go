package pickup

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sellwaste/sellwaste/internal/dataset"
)

// contextSignals is the deterministic summary behind the layer-1
// message. When the dataset is unavailable every dataset-derived part
// degrades to a request-only view: zero matches, "N/A" totals.
type contextSignals struct {
	City         string
	Industry     string
	Materials    []string
	DemandSignal string
	Summary      string
}

func (s *Service) contextSignals(ctx context.Context, req NormalizedRequest) contextSignals {
	industry := orDefault(req.Industry, "other")

	var materials []string
	for _, item := range req.WasteItems {
		if item.Material != "" {
			materials = append(materials, strings.ToLower(item.Material))
		}
	}

	totalCompanies, cityCount := "N/A", "N/A"
	var cities []string
	if s.dataset != nil {
		if ds, err := s.dataset.Load(ctx); err == nil {
			totalCompanies = strconv.Itoa(ds.Metadata.TotalCompanies)
			cityCount = strconv.Itoa(len(ds.Metadata.Cities))
			cities = ds.Metadata.Cities
		}
	}

	city := req.City
	if city == "" && len(req.WasteItems) > 0 {
		city = detectCity(req.WasteItems[0].Location.Address, cities)
	}

	var relevant []dataset.Company
	if s.dataset != nil {
		relevant, _ = s.dataset.FilterByCityAndIndustry(ctx, city, industry)
	}

	topMaterials := topMaterialNames(relevant, 3)
	common := "varied"
	if len(topMaterials) > 0 {
		common = strings.Join(topMaterials, ", ")
	}
	cityLabel := orDefault(city, "unknown city")

	return contextSignals{
		City:         city,
		Industry:     industry,
		Materials:    materials,
		DemandSignal: demandSignal(len(relevant)),
		Summary: fmt.Sprintf(
			"Dataset has %s companies across %s cities. Matches: %d companies for %s and %s. Common materials: %s.",
			totalCompanies, cityCount, len(relevant), cityLabel, industry, common),
	}
}

func contextPrompt(sig contextSignals) string {
	materials := "unknown"
	if len(sig.Materials) > 0 {
		materials = strings.Join(sig.Materials, ", ")
	}
	return strings.Join([]string{
		"System: You are generating explanatory context, not making decisions.",
		"Constraints: Output 2-3 plain-text sentences. No bullets, no JSON, no markdown.",
		"Dataset context: " + sig.Summary,
		fmt.Sprintf("Request signals: city=%s, industry=%s, materials=%s.",
			orDefault(sig.City, "unknown"), orDefault(sig.Industry, "unknown"), materials),
		"Task: Summarize global and regional waste context, identify demand signals, and mention sustainability considerations.",
		"Respond in 2-3 concise sentences. Do not hallucinate unknown facts; if unsure, say it is unclear.",
	}, "\n")
}

func contextFallback(sig contextSignals) string {
	cityPart := ""
	if sig.City != "" {
		cityPart = " in " + sig.City
	}
	materialPart := " Materials are mixed and not fully specified."
	if len(sig.Materials) > 0 {
		listed := sig.Materials
		if len(listed) > 3 {
			listed = listed[:3]
		}
		materialPart = fmt.Sprintf(" Materials include %s.", strings.Join(listed, ", "))
	}
	return fmt.Sprintf(
		"Context for %s operations%s indicates steady regional activity and routine logistics availability.%s Sustainability considerations focus on consolidating pickups and reducing transport distance.",
		orDefault(sig.Industry, "general"), cityPart, materialPart)
}

// demandSignal labels how busy the matched slice of the dataset looks.
func demandSignal(matches int) string {
	switch {
	case matches == 0:
		return "unclear"
	case matches < 5:
		return "steady"
	default:
		return "active"
	}
}

func detectCity(address string, cities []string) string {
	if address == "" {
		return ""
	}
	lower := strings.ToLower(address)
	for _, city := range cities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

func topMaterialNames(companies []dataset.Company, limit int) []string {
	counts := make(map[string]int)
	for _, company := range companies {
		for _, item := range company.WasteItems {
			if item.Material == "" {
				continue
			}
			counts[strings.ToLower(item.Material)]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
