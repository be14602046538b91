package pickup_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/internal/pickup"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

type stubRepo struct {
	ds  *dataset.Dataset
	err error
}

func (r *stubRepo) Load(_ context.Context) (*dataset.Dataset, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.ds, nil
}

func (r *stubRepo) Name() string { return "stub" }

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Metadata: dataset.Metadata{
			TotalCompanies: 3,
			Cities:         []string{"Mumbai", "Delhi"},
		},
		Companies: []dataset.Company{
			{
				CompanyID:    "WM-1",
				CompanyName:  "Arya Retail Traders",
				Industry:     "retail",
				City:         "Mumbai",
				State:        "Maharashtra",
				RiskAppetite: "cost",
				CompanySize:  "SME",
				WasteItems: []dataset.WasteItem{
					{
						Material: "cardboard boxes",
						Quantity: 120,
						Unit:     "kg",
						Location: dataset.Location{Lat: 19.1197, Lon: 72.8468, Address: "Andheri East, Mumbai"},
					},
				},
			},
			{
				CompanyID:    "WM-2",
				CompanyName:  "Saptagiri Distribution",
				Industry:     "retail",
				City:         "Delhi",
				State:        "Delhi",
				RiskAppetite: "balanced",
				CompanySize:  "enterprise",
				WasteItems: []dataset.WasteItem{
					{
						Material: "plastic film",
						Quantity: 240,
						Unit:     "kg",
						Location: dataset.Location{Lat: 28.6315, Lon: 77.2167, Address: "Connaught Place, Delhi"},
					},
				},
			},
			{
				CompanyID:    "WM-3",
				CompanyName:  "Medlink Pharma",
				Industry:     "pharma",
				City:         "Mumbai",
				State:        "Maharashtra",
				RiskAppetite: "compliance",
				CompanySize:  "Large",
				WasteItems: []dataset.WasteItem{
					{
						Material: "food-grade packaging",
						Quantity: 1.2,
						Unit:     "tons",
						Location: dataset.Location{Lat: 19.0178, Lon: 72.8478, Address: "Worli, Mumbai"},
					},
				},
			},
		},
	}
}

func testDatasetService() *dataset.Service {
	return dataset.NewService(dataset.ServiceConfig{
		Repository: &stubRepo{ds: testDataset()},
		Logger:     zerolog.Nop(),
	})
}

func failingDatasetService() *dataset.Service {
	return dataset.NewService(dataset.ServiceConfig{
		Repository: &stubRepo{err: errors.New("backing store gone")},
		Logger:     zerolog.Nop(),
	})
}

type stubProvider struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	calls   int
	prompts []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	p.calls++
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) recordedPrompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

type stubFlags struct {
	noTextGen   bool
	noHydration bool
}

func (f *stubFlags) IsTextGenerationDisabled(context.Context) bool   { return f.noTextGen }
func (f *stubFlags) IsDatasetHydrationDisabled(context.Context) bool { return f.noHydration }

func newTestService(cfg pickup.ServiceConfig) *pickup.Service {
	if cfg.Dataset == nil {
		cfg.Dataset = testDatasetService()
	}
	cfg.Logger = zerolog.Nop()
	return pickup.NewService(cfg)
}

// fullRequest is a request with nothing left to default.
func fullRequest() pickup.Request {
	return pickup.Request{
		CompanyID:    strPtr("ACME-1"),
		CompanySize:  strPtr("SME"),
		Industry:     strPtr("retail"),
		RiskAppetite: strPtr("cost"),
		WasteItems: &[]pickup.WasteItemInput{
			{
				Material: strPtr("cardboard"),
				Quantity: pickup.NewQuantity(350),
				Unit:     strPtr("kg"),
				Location: &pickup.LocationInput{
					Lat:     floatPtr(40.7128),
					Lon:     floatPtr(-74.006),
					Address: strPtr("450 Broadway"),
				},
			},
		},
	}
}
