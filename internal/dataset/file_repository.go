package dataset

import (
	"context"
	"encoding/json"
	"os"
)

// FileRepository loads the dataset from a JSON file on disk.
type FileRepository struct {
	path string
}

// NewFileRepository creates a file-backed dataset repository.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Name returns the backing source identifier.
func (r *FileRepository) Name() string {
	return "file:" + r.path
}

// Load reads and parses the dataset file.
func (r *FileRepository) Load(_ context.Context) (*Dataset, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, &LoadError{Source: r.Name(), Err: err}
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, &LoadError{Source: r.Name(), Err: err}
	}

	// Fill metadata when the file omits it.
	if ds.Metadata.TotalCompanies == 0 {
		ds.Metadata.TotalCompanies = len(ds.Companies)
	}
	if len(ds.Metadata.Cities) == 0 {
		ds.Metadata.Cities = distinctCities(ds.Companies)
	}

	return &ds, nil
}

func distinctCities(companies []Company) []string {
	seen := make(map[string]bool)
	cities := make([]string, 0)
	for _, c := range companies {
		if c.City == "" || seen[c.City] {
			continue
		}
		seen[c.City] = true
		cities = append(cities, c.City)
	}
	return cities
}
