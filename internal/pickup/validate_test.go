package pickup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellwaste/sellwaste/internal/pickup"
)

func validNormalized() pickup.NormalizedRequest {
	return pickup.NormalizedRequest{
		CompanyID:    "ACME-1",
		CompanySize:  "SME",
		Industry:     "retail",
		RiskAppetite: "cost",
		WasteItems: []pickup.WasteItem{
			{Material: "cardboard", Quantity: 350, Unit: "kg", Location: pickup.Location{Address: "450 Broadway"}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pickup.NormalizedRequest)
		want   []string
	}{
		{
			name:   "valid request",
			mutate: func(*pickup.NormalizedRequest) {},
			want:   nil,
		},
		{
			name:   "missing companyId",
			mutate: func(r *pickup.NormalizedRequest) { r.CompanyID = "" },
			want:   []string{"companyId is required"},
		},
		{
			name:   "empty wasteItems",
			mutate: func(r *pickup.NormalizedRequest) { r.WasteItems = nil },
			want:   []string{"wasteItems must be a non-empty array"},
		},
		{
			name:   "invalid companySize",
			mutate: func(r *pickup.NormalizedRequest) { r.CompanySize = "mid-market" },
			want:   []string{`companySize must be either "SME", "enterprise", "Small", "Medium", or "Large"`},
		},
		{
			name:   "invalid industry",
			mutate: func(r *pickup.NormalizedRequest) { r.Industry = "logistics" },
			want:   []string{"industry must be one of: retail, pharma, FMCG, manufacturing, other, hospitality, healthcare, food_service, construction, textiles, electronics, automotive"},
		},
		{
			name:   "invalid riskAppetite",
			mutate: func(r *pickup.NormalizedRequest) { r.RiskAppetite = "yolo" },
			want:   []string{"riskAppetite must be one of: cost, reliability, sustainability, balanced, compliance"},
		},
		{
			name: "multiple reasons in field order",
			mutate: func(r *pickup.NormalizedRequest) {
				r.CompanyID = ""
				r.WasteItems = nil
				r.CompanySize = "mid-market"
			},
			want: []string{
				"companyId is required",
				"wasteItems must be a non-empty array",
				`companySize must be either "SME", "enterprise", "Small", "Medium", or "Large"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validNormalized()
			tt.mutate(&req)
			assert.Equal(t, tt.want, pickup.Validate(req))
		})
	}
}
