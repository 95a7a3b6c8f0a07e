package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableValues(t *testing.T) {
	table := newTestTable()

	t.Run("analyte values are distinct, sorted and non-blank", func(t *testing.T) {
		got := AvailableValues(table, ColumnAnalyte)
		assert.Equal(t, []string{"Calcium", "Potassium", "Sodium"}, got)
	})

	t.Run("laboratory error values", func(t *testing.T) {
		got := AvailableValues(table, ColumnLabError)
		assert.Equal(t, []string{
			"Clotted sample",
			"Delayed centrifugation",
			"EDTA contamination",
			"Hemolysis",
		}, got)
	})

	t.Run("unknown column yields empty slice", func(t *testing.T) {
		got := AvailableValues(table, Column("analyte"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("nil table yields empty slice", func(t *testing.T) {
		assert.Empty(t, AvailableValues(nil, ColumnAnalyte))
	})

	t.Run("column present but all blank", func(t *testing.T) {
		tbl := NewTable([]string{"Analyte", "Reference 2"}, [][]string{{"Urea", ""}, {"Urea", " "}})
		assert.Empty(t, AvailableValues(tbl, ColumnReference2))
	})
}

func TestAvailableValues_Properties(t *testing.T) {
	table := newTestTable()

	for _, col := range table.Columns() {
		values := AvailableValues(table, col)

		assert.True(t, sort.StringsAreSorted(values), "%s values not sorted", col)
		seen := make(map[string]bool)
		for _, v := range values {
			assert.NotEmpty(t, v, "%s has a blank value", col)
			assert.False(t, seen[v], "%s has duplicate %q", col, v)
			seen[v] = true

			// Every offered value must find at least one record, and every
			// returned record must carry that value.
			matches, err := Search(table, col, v)
			require.NoError(t, err)
			require.NotEmpty(t, matches, "%s=%q matched nothing", col, v)
			for _, rec := range matches {
				got, _ := rec.Value(col)
				assert.Equal(t, v, got)
			}
		}
	}
}

func TestSearch(t *testing.T) {
	table := newTestTable()

	t.Run("returns all matches in table order", func(t *testing.T) {
		got, err := Search(table, ColumnAnalyte, "Potassium")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Hemolysis", got[0].LaboratoryError)
		assert.Equal(t, "Delayed centrifugation", got[1].LaboratoryError)
	})

	t.Run("shared laboratory error returns every row", func(t *testing.T) {
		got, err := Search(table, ColumnLabError, "EDTA contamination")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Sodium", got[0].Analyte)
		assert.Equal(t, "Calcium", got[1].Analyte)
	})

	t.Run("exact match only", func(t *testing.T) {
		for _, v := range []string{"potassium", "Potass", "Potassium "} {
			got, err := Search(table, ColumnAnalyte, v)
			require.NoError(t, err)
			assert.Empty(t, got, "value %q", v)
		}
	})

	t.Run("value not in table is an empty, non-error result", func(t *testing.T) {
		got, err := Search(table, ColumnLabError, "Nonexistent error")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("blank value matches nothing", func(t *testing.T) {
		// The clotted sample row has a blank analyte.
		got, err := Search(table, ColumnAnalyte, "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		got, err = Search(table, ColumnReference2, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown column is an error", func(t *testing.T) {
		_, err := Search(table, Column("Specimen"), "Serum")
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})
}

func TestDisplayFields(t *testing.T) {
	table := newTestTable()

	t.Run("potassium scenario omits search column and blank reference 2", func(t *testing.T) {
		got, err := Search(table, ColumnAnalyte, "Potassium")
		require.NoError(t, err)

		fields := DisplayFields(table, got[0], ColumnAnalyte)
		assert.Equal(t, []Field{
			{Label: ColumnLabError, Value: "Hemolysis"},
			{Label: ColumnEffect, Value: "Falsely elevated"},
			{Label: ColumnReference, Value: "Smith 2001"},
		}, fields)
	})

	t.Run("reference 2 shown when present", func(t *testing.T) {
		rec := Record{Analyte: "Sodium", LaboratoryError: "EDTA contamination", EffectOnResults: "Falsely decreased", Reference: "Jones 2010", Reference2: "Lee 2015"}
		fields := DisplayFields(table, rec, ColumnLabError)
		assert.Equal(t, []Field{
			{Label: ColumnAnalyte, Value: "Sodium"},
			{Label: ColumnEffect, Value: "Falsely decreased"},
			{Label: ColumnReference, Value: "Jones 2010"},
			{Label: ColumnReference2, Value: "Lee 2015"},
		}, fields)
	})

	// Blank fields other than Reference 2 are still shown with an empty value.
	t.Run("blank effect is rendered empty", func(t *testing.T) {
		rec := Record{Analyte: "Potassium", LaboratoryError: "Delayed centrifugation", Reference: "Brown 2005"}
		fields := DisplayFields(table, rec, ColumnAnalyte)
		assert.Equal(t, []Field{
			{Label: ColumnLabError, Value: "Delayed centrifugation"},
			{Label: ColumnEffect, Value: ""},
			{Label: ColumnReference, Value: "Brown 2005"},
		}, fields)
	})

	t.Run("columns missing from the table are skipped", func(t *testing.T) {
		tbl := NewTable([]string{"Analyte", "Laboratory errors", "Reference"}, [][]string{{"Urea", "Lipemia", "X 1999"}})
		recs, err := Search(tbl, ColumnAnalyte, "Urea")
		require.NoError(t, err)

		fields := DisplayFields(tbl, recs[0], ColumnAnalyte)
		assert.Equal(t, []Field{
			{Label: ColumnLabError, Value: "Lipemia"},
			{Label: ColumnReference, Value: "X 1999"},
		}, fields)
	})

	t.Run("search column never appears", func(t *testing.T) {
		for _, dim := range SearchDimensions() {
			for _, rec := range table.Records() {
				for _, f := range DisplayFields(table, rec, dim) {
					assert.NotEqual(t, dim, f.Label)
				}
			}
		}
	})

	t.Run("reference 2 omitted exactly when blank", func(t *testing.T) {
		for _, rec := range table.Records() {
			fields := DisplayFields(table, rec, ColumnAnalyte)
			var hasRef2 bool
			for _, f := range fields {
				if f.Label == ColumnReference2 {
					hasRef2 = true
				}
			}
			assert.Equal(t, rec.Reference2 != "", hasRef2, "record %+v", rec)
		}
	})
}

func TestNewTable(t *testing.T) {
	t.Run("unknown headers ignored and short rows padded", func(t *testing.T) {
		tbl := NewTable(
			[]string{"Analyte", "Notes", " Laboratory errors "},
			[][]string{{"Urea", "ignored"}, {"", "", ""}, {"Creatinine", "x", "Icterus"}},
		)

		assert.Equal(t, []Column{ColumnAnalyte, ColumnLabError}, tbl.Columns())
		assert.False(t, tbl.HasColumn(ColumnReference2))
		require.Equal(t, 2, tbl.Len())

		recs := tbl.Records()
		assert.Equal(t, Record{Analyte: "Urea"}, recs[0])
		assert.Equal(t, Record{Analyte: "Creatinine", LaboratoryError: "Icterus"}, recs[1])
	})

	t.Run("header names are case sensitive", func(t *testing.T) {
		tbl := NewTable([]string{"analyte", "REFERENCE"}, [][]string{{"Urea", "X"}})
		assert.Empty(t, tbl.Columns())
	})

	t.Run("records copy does not alias the table", func(t *testing.T) {
		tbl := newTestTable()
		recs := tbl.Records()
		recs[0].Analyte = "Changed"
		assert.Equal(t, "Potassium", tbl.Records()[0].Analyte)
	})
}
