package dataset

import (
	"context"
	"sort"
	"strings"
)

// Metrics is the analytics view of the dataset served by the insights API.
type Metrics struct {
	TotalCompanies     int              `json:"totalCompanies"`
	TotalWaste         float64          `json:"totalWaste"`
	AvgWastePerCompany float64          `json:"avgWastePerCompany"`
	IndustryCounts     map[string]int   `json:"industryCounts"`
	CityCounts         map[string]int   `json:"cityCounts"`
	TopIndustry        string           `json:"topIndustry"`
	TopMaterials       []string         `json:"topMaterials"`
	TopMaterialStats   []MaterialVolume `json:"topMaterialStats"`
	TopCities          []CityCount      `json:"topCities"`
	TopRiskAppetite    string           `json:"topRiskAppetite"`
}

// MaterialVolume pairs a material with its aggregate volume in kg.
type MaterialVolume struct {
	Material string  `json:"material"`
	Volume   float64 `json:"volume"`
}

// CityCount pairs a city with its company count.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// unitFactors convert declared units to kg. Matching is by substring,
// checked in order, so "tons" and "metric ton" resolve before "t".
var unitFactors = []struct {
	match  string
	factor float64
}{
	{"ton", 1000},
	{"t", 1000},
	{"kg", 1},
}

// ToKg converts an item quantity to kilograms. Unknown units pass
// through unscaled.
func ToKg(item WasteItem) float64 {
	unit := strings.ToLower(item.Unit)
	for _, entry := range unitFactors {
		if strings.Contains(unit, entry.match) {
			return item.Quantity * entry.factor
		}
	}
	return item.Quantity
}

// Metrics builds dataset analytics for the insights endpoints.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return buildMetrics(ds.Companies), nil
}

// CompanySummaries returns the first 12 companies with their aggregate
// waste volume in kg.
func (s *Service) CompanySummaries(ctx context.Context) ([]CompanySummary, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	limit := len(ds.Companies)
	if limit > 12 {
		limit = 12
	}

	summaries := make([]CompanySummary, 0, limit)
	for _, c := range ds.Companies[:limit] {
		var volume float64
		for _, item := range c.WasteItems {
			volume += ToKg(item)
		}
		summaries = append(summaries, CompanySummary{
			CompanyID:    c.CompanyID,
			CompanyName:  c.CompanyName,
			Industry:     c.Industry,
			City:         c.City,
			State:        c.State,
			RiskAppetite: c.RiskAppetite,
			WasteVolume:  volume,
		})
	}
	return summaries, nil
}

func buildMetrics(companies []Company) *Metrics {
	industryCounts := make(map[string]int)
	cityCounts := make(map[string]int)
	riskCounts := make(map[string]int)
	materialVolumes := make(map[string]float64)
	var totalWaste float64

	for _, company := range companies {
		industry := company.Industry
		if industry == "" {
			industry = "other"
		}
		city := company.City
		if city == "" {
			city = "unknown"
		}
		risk := company.RiskAppetite
		if risk == "" {
			risk = "balanced"
		}

		industryCounts[industry]++
		cityCounts[city]++
		riskCounts[risk]++

		for _, item := range company.WasteItems {
			quantity := ToKg(item)
			totalWaste += quantity
			material := strings.ToLower(item.Material)
			if material == "" {
				material = "mixed"
			}
			materialVolumes[material] += quantity
		}
	}

	materialStats := make([]MaterialVolume, 0, len(materialVolumes))
	for material, volume := range materialVolumes {
		materialStats = append(materialStats, MaterialVolume{Material: material, Volume: volume})
	}
	sort.Slice(materialStats, func(i, j int) bool {
		if materialStats[i].Volume != materialStats[j].Volume {
			return materialStats[i].Volume > materialStats[j].Volume
		}
		return materialStats[i].Material < materialStats[j].Material
	})

	topMaterials := make([]string, 0, 5)
	topMaterialStats := make([]MaterialVolume, 0, 5)
	for i, stat := range materialStats {
		if i >= 5 {
			break
		}
		topMaterials = append(topMaterials, stat.Material)
		topMaterialStats = append(topMaterialStats, stat)
	}

	topCities := topCounts(cityCounts, 4)
	cities := make([]CityCount, 0, len(topCities))
	for _, entry := range topCities {
		cities = append(cities, CityCount{City: entry.key, Count: entry.count})
	}

	avg := 0.0
	if len(companies) > 0 {
		avg = totalWaste / float64(len(companies))
	}

	return &Metrics{
		TotalCompanies:     len(companies),
		TotalWaste:         totalWaste,
		AvgWastePerCompany: avg,
		IndustryCounts:     industryCounts,
		CityCounts:         cityCounts,
		TopIndustry:        topKey(industryCounts, "mixed"),
		TopMaterials:       topMaterials,
		TopMaterialStats:   topMaterialStats,
		TopCities:          cities,
		TopRiskAppetite:    topKey(riskCounts, "balanced"),
	}
}

type keyCount struct {
	key   string
	count int
}

func topCounts(counts map[string]int, limit int) []keyCount {
	entries := make([]keyCount, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, keyCount{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func topKey(counts map[string]int, fallback string) string {
	entries := topCounts(counts, 1)
	if len(entries) == 0 {
		return fallback
	}
	return entries[0].key
}
