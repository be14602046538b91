package models

import "github.com/sellwaste/sellwaste/internal/dataset"

// Enums represents the closed enumerations the pickup API validates
// against, plus the default material pool, for UI pickers.
type Enums struct {
	CompanySizes     []string `json:"companySizes"`
	Industries       []string `json:"industries"`
	RiskAppetites    []string `json:"riskAppetites"`
	DefaultMaterials []string `json:"defaultMaterials"`
}

// ValidationFailure is the wire shape of a rejected pickup request.
// Kept exactly as consumers expect it, not Problem+JSON.
type ValidationFailure struct {
	Error   string   `json:"error"`
	Reasons []string `json:"reasons"`
}

// MetricsResponse wraps dataset analytics for the insights endpoint.
type MetricsResponse struct {
	Metrics *dataset.Metrics `json:"metrics"`
}

// CompaniesResponse wraps company summaries for the insights endpoint.
type CompaniesResponse struct {
	Companies []dataset.CompanySummary `json:"companies"`
}
