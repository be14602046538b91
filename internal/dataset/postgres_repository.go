package dataset

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository loads the dataset from PostgreSQL. The tables are
// treated as a static resource: rows are read once at first use and the
// parsed dataset is cached by Service for the process lifetime.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed dataset repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Name returns the backing source identifier.
func (r *PostgresRepository) Name() string {
	return "postgres"
}

// Load reads all companies and their waste items.
func (r *PostgresRepository) Load(ctx context.Context) (*Dataset, error) {
	// Company order must be stable: seeded sampling indexes into the
	// cached slice, so a reshuffled load would break reproducibility.
	companies, byID, err := r.loadCompanies(ctx)
	if err != nil {
		return nil, &LoadError{Source: r.Name(), Err: err}
	}

	if err := r.loadWasteItems(ctx, byID); err != nil {
		return nil, &LoadError{Source: r.Name(), Err: err}
	}

	ordered := make([]Company, 0, len(companies))
	for _, c := range companies {
		ordered = append(ordered, *c)
	}

	return &Dataset{
		Metadata: Metadata{
			TotalCompanies: len(ordered),
			Cities:         distinctCities(ordered),
		},
		Companies: ordered,
	}, nil
}

func (r *PostgresRepository) loadCompanies(ctx context.Context) ([]*Company, map[string]*Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_id, company_name, industry, city, state, risk_appetite, company_size
		FROM waste_companies
		ORDER BY company_id`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var companies []*Company
	byID := make(map[string]*Company)
	for rows.Next() {
		var c Company
		if err := rows.Scan(
			&c.CompanyID,
			&c.CompanyName,
			&c.Industry,
			&c.City,
			&c.State,
			&c.RiskAppetite,
			&c.CompanySize,
		); err != nil {
			return nil, nil, err
		}
		companies = append(companies, &c)
		byID[c.CompanyID] = &c
	}
	return companies, byID, rows.Err()
}

func (r *PostgresRepository) loadWasteItems(ctx context.Context, companies map[string]*Company) error {
	rows, err := r.pool.Query(ctx, `
		SELECT company_id, material, quantity, unit, lat, lon, address
		FROM waste_company_items
		ORDER BY company_id, material`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var companyID string
		var item WasteItem
		if err := rows.Scan(
			&companyID,
			&item.Material,
			&item.Quantity,
			&item.Unit,
			&item.Location.Lat,
			&item.Location.Lon,
			&item.Location.Address,
		); err != nil {
			return err
		}
		if c, ok := companies[companyID]; ok {
			c.WasteItems = append(c.WasteItems, item)
		}
	}
	return rows.Err()
}
