// Package dataset provides read-only access to the company waste dataset.
// The dataset is loaded once per process and cached; it is immutable for
// the process lifetime and safe for concurrent readers.
package dataset

// Dataset is the full backing structure: metadata plus company records.
type Dataset struct {
	Metadata  Metadata  `json:"metadata"`
	Companies []Company `json:"companies"`
}

// Metadata describes the dataset as a whole.
type Metadata struct {
	TotalCompanies int      `json:"totalCompanies"`
	Cities         []string `json:"cities"`
}

// Company is a single company record.
type Company struct {
	CompanyID    string      `json:"companyId"`
	CompanyName  string      `json:"companyName"`
	Industry     string      `json:"industry"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	RiskAppetite string      `json:"riskAppetite"`
	CompanySize  string      `json:"companySize"`
	WasteItems   []WasteItem `json:"wasteItems"`
}

// WasteItem is one waste stream reported by a company.
type WasteItem struct {
	Material string   `json:"material"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Location Location `json:"location"`
}

// Location is a pickup point for a waste item.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

// CompanySummary is the condensed company view returned by the insights API.
type CompanySummary struct {
	CompanyID    string  `json:"companyId"`
	CompanyName  string  `json:"companyName"`
	Industry     string  `json:"industry"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	RiskAppetite string  `json:"riskAppetite"`
	WasteVolume  float64 `json:"wasteVolume"`
}
