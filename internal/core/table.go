package core

import "strings"

// Table is the in-memory error catalog. It is immutable once built:
// records keep their source row order and are never modified.
type Table struct {
	records []Record
	columns map[Column]bool
}

// NewTable builds a Table from a header row and data rows.
//
// Header cells are matched exactly against the known columns; unknown
// headers are ignored. Cell values are trimmed, so whitespace-only cells
// count as missing. Short rows are padded with missing values.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{columns: make(map[Column]bool)}

	// Map column index -> known column. The first occurrence of a
	// duplicated header wins.
	idx := make(map[int]Column)
	for i, h := range header {
		c := Column(strings.TrimSpace(h))
		if _, known := (Record{}).Value(c); !known || t.columns[c] {
			continue
		}
		t.columns[c] = true
		idx[i] = c
	}

	t.records = make([]Record, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		var rec Record
		for i, c := range idx {
			if i < len(row) {
				rec.set(c, strings.TrimSpace(row[i]))
			}
		}
		t.records = append(t.records, rec)
	}

	return t
}

// isBlankRow reports whether every cell of row is empty after trimming.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// HasColumn reports whether c was present in the source header.
func (t *Table) HasColumn(c Column) bool {
	return t != nil && t.columns[c]
}

// Columns returns the known columns present in the table, in display order.
func (t *Table) Columns() []Column {
	var cols []Column
	for _, c := range displayOrder {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Records returns a copy of all records in source order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}
