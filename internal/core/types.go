package core

// Column is a header name in the source spreadsheet.
// Column names are matched exactly (case- and spelling-sensitive).
type Column string

const (
	ColumnAnalyte    Column = "Analyte"
	ColumnLabError   Column = "Laboratory errors"
	ColumnEffect     Column = "Effects on test results"
	ColumnReference  Column = "Reference"
	ColumnReference2 Column = "Reference 2"
)

// displayOrder is the fixed order of fields within a rendered record.
var displayOrder = []Column{
	ColumnAnalyte,
	ColumnLabError,
	ColumnEffect,
	ColumnReference,
	ColumnReference2,
}

// SearchDimensions returns the columns a user may search by, in menu order.
func SearchDimensions() []Column {
	return []Column{ColumnAnalyte, ColumnLabError}
}

// IsSearchDimension reports whether c is one of the searchable columns.
func IsSearchDimension(c Column) bool {
	for _, d := range SearchDimensions() {
		if d == c {
			return true
		}
	}
	return false
}

// Record is one row of the error table. All fields are optional;
// an empty string means the cell was missing or blank.
type Record struct {
	Analyte         string `json:"analyte"`
	LaboratoryError string `json:"laboratory_error"`
	EffectOnResults string `json:"effect_on_results"`
	Reference       string `json:"reference"`
	Reference2      string `json:"reference_2,omitempty"`
}

// Value returns the record's value for column c.
// Unknown columns yield "" and false.
func (r Record) Value(c Column) (string, bool) {
	switch c {
	case ColumnAnalyte:
		return r.Analyte, true
	case ColumnLabError:
		return r.LaboratoryError, true
	case ColumnEffect:
		return r.EffectOnResults, true
	case ColumnReference:
		return r.Reference, true
	case ColumnReference2:
		return r.Reference2, true
	}
	return "", false
}

// set assigns v to the field for column c. Unknown columns are ignored.
func (r *Record) set(c Column, v string) {
	switch c {
	case ColumnAnalyte:
		r.Analyte = v
	case ColumnLabError:
		r.LaboratoryError = v
	case ColumnEffect:
		r.EffectOnResults = v
	case ColumnReference:
		r.Reference = v
	case ColumnReference2:
		r.Reference2 = v
	}
}

// Field is one labeled line of a rendered record.
type Field struct {
	Label Column `json:"label"`
	Value string `json:"value"`
}
