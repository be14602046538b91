package dataset

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/pkg/seeded"
)

// ServiceConfig holds configuration for the dataset service.
type ServiceConfig struct {
	// Repository is the backing store (file or postgres).
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service exposes sampling and filtering queries over the dataset.
// The dataset is loaded lazily on first use and cached for the process
// lifetime; there is no invalidation. A failed load is not cached, so a
// later request retries the read.
type Service struct {
	repo   Repository
	logger zerolog.Logger

	mu     sync.RWMutex
	cached *Dataset
}

// NewService creates a new dataset service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Load returns the cached dataset, reading it on first call.
func (s *Service) Load(ctx context.Context) (*Dataset, error) {
	s.mu.RLock()
	if s.cached != nil {
		ds := s.cached
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have filled the cache while we waited.
	if s.cached != nil {
		return s.cached, nil
	}

	ds, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).
			Str("source", s.repo.Name()).
			Msg("dataset load failed")
		return nil, err
	}

	s.logger.Info().
		Str("source", s.repo.Name()).
		Int("companies", len(ds.Companies)).
		Int("cities", len(ds.Metadata.Cities)).
		Msg("dataset loaded")

	s.cached = ds
	return ds, nil
}

// PickRandomCompany samples one company using the supplied generator.
// Returns nil, nil on an empty dataset.
func (s *Service) PickRandomCompany(ctx context.Context, rng seeded.RNG) (*Company, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	company, ok := seeded.PickOne(ds.Companies, rng)
	if !ok {
		return nil, nil
	}
	return &company, nil
}

// FilterByCityAndIndustry returns companies matching the given city and
// industry. Empty arguments match everything for that dimension.
func (s *Service) FilterByCityAndIndustry(ctx context.Context, city, industry string) ([]Company, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var matched []Company
	for _, c := range ds.Companies {
		if city != "" && c.City != city {
			continue
		}
		if industry != "" && c.Industry != industry {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

// CountByField counts companies grouped by the named field. Supported
// fields: industry, city, riskAppetite, companySize.
func (s *Service) CountByField(ctx context.Context, field string) (map[string]int, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, c := range ds.Companies {
		var key string
		switch field {
		case "industry":
			key = c.Industry
		case "city":
			key = c.City
		case "riskAppetite":
			key = c.RiskAppetite
		case "companySize":
			key = c.CompanySize
		default:
			continue
		}
		if key == "" {
			key = "unknown"
		}
		counts[key]++
	}
	return counts, nil
}

// Cities returns the known city list from dataset metadata.
func (s *Service) Cities(ctx context.Context) ([]string, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Metadata.Cities, nil
}
