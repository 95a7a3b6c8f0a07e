package core

import (
	"fmt"
	"sort"
)

// AvailableValues returns the distinct non-missing values of column,
// sorted ascending by byte order. An unknown column or a nil table
// yields an empty slice; callers report that as "no data for column".
func AvailableValues(t *Table, column Column) []string {
	if !t.HasColumn(column) {
		return []string{}
	}

	seen := make(map[string]struct{})
	values := []string{}
	for _, rec := range t.records {
		v, _ := rec.Value(column)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Strings(values)
	return values
}

// Search returns every record whose value in column equals value exactly.
// Matches keep their table order. Zero matches is a valid result and
// returns an empty slice with a nil error.
//
// A blank cell is a missing value and equals nothing, so an empty value
// never matches.
func Search(t *Table, column Column, value string) ([]Record, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("search %q: %w", column, ErrUnknownColumn)
	}

	matches := []Record{}
	if value == "" {
		return matches, nil
	}
	for _, rec := range t.records {
		if v, _ := rec.Value(column); v == value {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// DisplayFields returns the labeled fields shown for rec, in the fixed
// order Analyte, Laboratory errors, Effects on test results, Reference,
// Reference 2.
//
// A field is omitted when its column is not in the table or equals
// searchColumn. Reference 2 is also omitted when blank. Other blank
// fields are still emitted with an empty value.
func DisplayFields(t *Table, rec Record, searchColumn Column) []Field {
	fields := make([]Field, 0, len(displayOrder))
	for _, c := range displayOrder {
		if c == searchColumn || !t.HasColumn(c) {
			continue
		}
		v, _ := rec.Value(c)
		if c == ColumnReference2 && v == "" {
			continue
		}
		fields = append(fields, Field{Label: c, Value: v})
	}
	return fields
}
