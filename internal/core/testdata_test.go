package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// catalogHeader is the header row of the real catalog spreadsheet.
var catalogHeader = []string{
	"Analyte",
	"Laboratory errors",
	"Effects on test results",
	"Reference",
	"Reference 2",
}

// catalogRows is a small catalog used across tests.
var catalogRows = [][]string{
	{"Potassium", "Hemolysis", "Falsely elevated", "Smith 2001", ""},
	{"Sodium", "EDTA contamination", "Falsely decreased", "Jones 2010", "Lee 2015"},
	{"Potassium", "Delayed centrifugation", "", "Brown 2005", "  "},
	{"Calcium", "EDTA contamination", "Falsely decreased", "Jones 2010", ""},
	{"", "Clotted sample", "Unreliable results", "Doe 2018", ""},
}

// newTestTable returns a Table built from catalogHeader and catalogRows.
func newTestTable() *Table {
	return NewTable(catalogHeader, catalogRows)
}

// writeTestXLSX writes header and rows to an XLSX file in a temp dir.
func writeTestXLSX(t *testing.T, name, sheet string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buildXLSX(t, sheet, header, rows), 0o600))
	return path
}

// buildXLSX returns the bytes of an XLSX workbook with one populated sheet.
func buildXLSX(t *testing.T, sheet string, header []string, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	all := append([][]string{header}, rows...)
	for r, row := range all {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}
