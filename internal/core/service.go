package core

import (
	"fmt"
	"log/slog"
)

// Service is the entry point for catalog lookups.
//
// It resolves the catalog once at construction through the Cache. A failed
// load does not stop the service: every lookup then returns the LoadError
// and the UI shows a "no data available" state.
type Service struct {
	path    string
	table   *Table
	loadErr error
}

// Status describes the loaded catalog for health checks and the UI.
type Status struct {
	Path    string   `json:"path"`
	Loaded  bool     `json:"loaded"`
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`
	Error   string   `json:"error,omitempty"`
}

// NewService resolves the catalog at path through cache.
func NewService(cache *Cache, path string) *Service {
	table, err := cache.Get(path)
	s := &Service{path: path, table: table, loadErr: err}

	if err == nil {
		for _, dim := range SearchDimensions() {
			if !table.HasColumn(dim) {
				slog.Warn("catalog is missing a search column", "path", path, "column", dim)
			}
		}
	}
	return s
}

// Status returns a snapshot of the catalog state.
func (s *Service) Status() Status {
	st := Status{Path: s.path, Loaded: s.loadErr == nil}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
		return st
	}
	st.Rows = s.table.Len()
	st.Columns = s.table.Columns()
	return st
}

// LoadErr returns the load failure, or nil if the catalog is available.
func (s *Service) LoadErr() error {
	return s.loadErr
}

// Table returns the loaded catalog.
func (s *Service) Table() (*Table, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.table, nil
}

// Values returns the selectable values for a search dimension.
// Returns ErrEmptyOptions when the column is missing or has no values.
func (s *Service) Values(dim Column) ([]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if !IsSearchDimension(dim) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}

	values := AvailableValues(s.table, dim)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w %q", ErrEmptyOptions, dim)
	}
	return values, nil
}

// SearchResult is the outcome of a lookup: the selected value and the
// matching records, each already reduced to its display fields.
type SearchResult struct {
	Dimension Column    `json:"dimension"`
	Value     string    `json:"value"`
	Records   []Record  `json:"records"`
	Fields    [][]Field `json:"fields"`
}

// Empty reports whether the search matched nothing.
func (r SearchResult) Empty() bool {
	return len(r.Records) == 0
}

// Search looks up value in the given dimension.
// Zero matches is not an error; check SearchResult.Empty.
func (s *Service) Search(dim Column, value string) (SearchResult, error) {
	if s.loadErr != nil {
		return SearchResult{}, s.loadErr
	}
	if !IsSearchDimension(dim) {
		return SearchResult{}, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}

	records, err := Search(s.table, dim, value)
	if err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{
		Dimension: dim,
		Value:     value,
		Records:   records,
		Fields:    make([][]Field, len(records)),
	}
	for i, rec := range records {
		res.Fields[i] = DisplayFields(s.table, rec, dim)
	}
	return res, nil
}
