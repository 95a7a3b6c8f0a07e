package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the catalog file does not exist.
	ErrFileNotFound = errors.New("catalog file not found")

	// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrInvalidSpreadsheet is returned when the file cannot be parsed or has no header row.
	ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

	// ErrUnknownColumn is returned when searching a column the table does not have.
	ErrUnknownColumn = errors.New("column not found in catalog")

	// ErrNoMatch describes a valid search that matched nothing.
	// It is a neutral outcome, never a failure.
	ErrNoMatch = errors.New("no matching records")

	// ErrEmptyOptions is returned when a search dimension has no selectable values.
	ErrEmptyOptions = errors.New("no values for column")

	// ErrUnknownDimension is returned for a search dimension outside SearchDimensions.
	ErrUnknownDimension = errors.New("unknown search dimension")
)

// LoadError reports why the catalog file could not be loaded.
// Callers treat it as "no data available".
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// newLoadError wraps err with the path, adding a sentinel for classification.
func newLoadError(path string, sentinel, err error) *LoadError {
	if err == nil {
		return &LoadError{Path: path, Err: sentinel}
	}
	return &LoadError{Path: path, Err: fmt.Errorf("%w: %w", sentinel, err)}
}
