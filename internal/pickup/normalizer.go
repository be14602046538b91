package pickup

import (
	"context"
	"strings"

	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/pkg/seeded"
)

// CompanySampler supplies dataset companies for hydration. A nil sampler
// means the dataset is unavailable and only hard defaults apply.
type CompanySampler interface {
	PickRandomCompany(ctx context.Context, rng seeded.RNG) (*dataset.Company, error)
}

var defaultLocations = []Location{
	{Lat: 40.7128, Lon: -74.0060, Address: "Lower Manhattan, New York, NY"},
	{Lat: 34.0522, Lon: -118.2437, Address: "Downtown Los Angeles, CA"},
	{Lat: 41.8781, Lon: -87.6298, Address: "The Loop, Chicago, IL"},
	{Lat: 29.7604, Lon: -95.3698, Address: "Downtown Houston, TX"},
	{Lat: 47.6062, Lon: -122.3321, Address: "Seattle, WA"},
}

// DefaultMaterials is the pool used when a waste item needs a material.
// Also served on the metadata endpoint for UI pickers.
var DefaultMaterials = []string{
	"mixed recyclables",
	"cardboard boxes",
	"plastic film",
	"food-grade packaging",
	"metal scrap",
}

// Normalize fills every required field of the raw request, from the
// supplied value, a sampled dataset company, or a hard default, and
// records one warning per substitution. The same raw request and seed
// always produce the same result, warnings included.
//
// Invalid enum values that were supplied are passed through unchanged;
// rejecting them is Validate's job.
func Normalize(ctx context.Context, raw Request, seed string, companies CompanySampler) (NormalizedRequest, []string) {
	var warnings []string
	rng := seeded.New(seed)

	if raw.Empty() {
		if company := sampleCompany(ctx, companies, rng); company != nil {
			warnings = append(warnings, "empty request; hydrated from dataset company")
			items := itemsFromCompany(company.WasteItems)
			if len(items) == 0 {
				items = synthesizeItems(&warnings, rng)
			}
			return NormalizedRequest{
				CompanyID:    company.CompanyID,
				CompanySize:  orDefault(company.CompanySize, "SME"),
				Industry:     orDefault(company.Industry, "other"),
				RiskAppetite: orDefault(company.RiskAppetite, "cost"),
				City:         company.City,
				State:        company.State,
				WasteItems:   items,
			}, warnings
		}
	}

	// One fallback company per normalization call, shared by every field.
	fallback := sampleCompany(ctx, companies, rng)

	var norm NormalizedRequest

	switch {
	case supplied(raw.CompanyID):
		norm.CompanyID = *raw.CompanyID
	case fallback != nil && fallback.CompanyID != "":
		norm.CompanyID = fallback.CompanyID
		warnings = append(warnings, "companyId missing; hydrated from dataset")
	default:
		warnings = append(warnings, "companyId missing; no dataset fallback available")
	}

	switch {
	case supplied(raw.CompanySize):
		norm.CompanySize = *raw.CompanySize
	case fallback != nil && fallback.CompanySize != "":
		norm.CompanySize = fallback.CompanySize
		warnings = append(warnings, "companySize missing; hydrated from dataset")
	default:
		norm.CompanySize = "SME"
		warnings = append(warnings, "companySize missing; defaulted to SME")
	}

	switch {
	case supplied(raw.Industry):
		norm.Industry = *raw.Industry
	case fallback != nil && fallback.Industry != "":
		norm.Industry = fallback.Industry
		warnings = append(warnings, "industry missing; hydrated from dataset")
	default:
		norm.Industry = "other"
		warnings = append(warnings, "industry missing; defaulted to other")
	}

	switch {
	case supplied(raw.RiskAppetite):
		norm.RiskAppetite = *raw.RiskAppetite
	case fallback != nil && fallback.RiskAppetite != "":
		norm.RiskAppetite = fallback.RiskAppetite
		warnings = append(warnings, "riskAppetite missing; hydrated from dataset")
	default:
		norm.RiskAppetite = "cost"
		warnings = append(warnings, "riskAppetite missing; defaulted to cost")
	}

	// city and state are optional advisory fields; hydration is silent.
	if supplied(raw.City) {
		norm.City = *raw.City
	} else if fallback != nil {
		norm.City = fallback.City
	}
	if supplied(raw.State) {
		norm.State = *raw.State
	} else if fallback != nil {
		norm.State = fallback.State
	}

	var itemsInput []WasteItemInput
	switch {
	case raw.WasteItems != nil:
		itemsInput = *raw.WasteItems
	case fallback != nil && fallback.WasteItems != nil:
		itemsInput = inputsFromCompany(fallback.WasteItems)
		warnings = append(warnings, "wasteItems missing; hydrated from dataset")
	default:
		warnings = append(warnings, "wasteItems missing; defaulted to generated items")
	}
	norm.WasteItems = normalizeItems(itemsInput, &warnings, rng)

	return norm, warnings
}

func normalizeItems(items []WasteItemInput, warnings *[]string, rng seeded.RNG) []WasteItem {
	if len(items) == 0 {
		return synthesizeItems(warnings, rng)
	}

	normalized := make([]WasteItem, 0, len(items))
	for _, item := range items {
		var out WasteItem

		if supplied(item.Material) {
			out.Material = *item.Material
		} else {
			out.Material, _ = seeded.PickOne(DefaultMaterials, rng)
			*warnings = append(*warnings, "material missing; default material applied")
		}

		if quantity, ok := item.Quantity.Float64(); ok {
			out.Quantity = quantity
		} else {
			out.Quantity = float64(seeded.Int(80, 400, rng))
			*warnings = append(*warnings, "quantity missing; default quantity applied")
		}

		if supplied(item.Unit) {
			out.Unit = *item.Unit
		} else {
			out.Unit = "kg"
			*warnings = append(*warnings, "unit missing; default unit applied")
		}

		out.Location = normalizeLocation(item.Location, warnings, rng)
		normalized = append(normalized, out)
	}
	return normalized
}

func synthesizeItems(warnings *[]string, rng seeded.RNG) []WasteItem {
	*warnings = append(*warnings, "wasteItems missing or empty; generated default items")
	count := seeded.Int(1, 2, rng)
	items := make([]WasteItem, 0, count)
	for i := 0; i < count; i++ {
		material, _ := seeded.PickOne(DefaultMaterials, rng)
		items = append(items, WasteItem{
			Material: material,
			Quantity: float64(seeded.Int(80, 400, rng)),
			Unit:     "kg",
			Location: defaultLocation(rng),
		})
	}
	return items
}

func normalizeLocation(loc *LocationInput, warnings *[]string, rng seeded.RNG) Location {
	if loc == nil {
		*warnings = append(*warnings, "location missing; default location applied")
		return defaultLocation(rng)
	}

	fallback := defaultLocation(rng)
	out := fallback
	if loc.Lat != nil {
		out.Lat = *loc.Lat
	}
	if loc.Lon != nil {
		out.Lon = *loc.Lon
	}
	if loc.Address != nil && strings.TrimSpace(*loc.Address) != "" {
		out.Address = *loc.Address
	}

	// Heuristic: a location that ends up identical to the sampled pool
	// entry in all three fields looks fully defaulted.
	if out == fallback {
		*warnings = append(*warnings, "location incomplete; missing fields defaulted")
	}
	return out
}

func defaultLocation(rng seeded.RNG) Location {
	choice, _ := seeded.PickOne(defaultLocations, rng)
	return choice
}

func sampleCompany(ctx context.Context, companies CompanySampler, rng seeded.RNG) *dataset.Company {
	if companies == nil {
		return nil
	}
	company, err := companies.PickRandomCompany(ctx, rng)
	if err != nil {
		return nil
	}
	return company
}

// itemsFromCompany passes hydrated dataset items through as-is; dataset
// records are complete by construction.
func itemsFromCompany(items []dataset.WasteItem) []WasteItem {
	out := make([]WasteItem, 0, len(items))
	for _, item := range items {
		out = append(out, WasteItem{
			Material: item.Material,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Location: Location(item.Location),
		})
	}
	return out
}

// inputsFromCompany converts dataset items into raw inputs so the
// per-field path runs them through the same normalization as caller
// input.
func inputsFromCompany(items []dataset.WasteItem) []WasteItemInput {
	out := make([]WasteItemInput, 0, len(items))
	for i := range items {
		item := items[i]
		out = append(out, WasteItemInput{
			Material: &item.Material,
			Quantity: NewQuantity(item.Quantity),
			Unit:     &item.Unit,
			Location: &LocationInput{
				Lat:     &item.Location.Lat,
				Lon:     &item.Location.Lon,
				Address: &item.Location.Address,
			},
		})
	}
	return out
}

func supplied(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
