package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const testCSV = "Analyte,Laboratory errors,Effects on test results,Reference,Reference 2\n" +
	"Potassium,Hemolysis,Falsely elevated,Smith 2001,\n" +
	"Sodium,EDTA contamination,Falsely decreased,Jones 2010,Lee 2015\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeTestXLSX(t, "errors.xlsx", "Sheet1", catalogHeader, catalogRows)

	table, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, len(catalogRows), table.Len())
	assert.Equal(t, catalogHeader, columnNames(table.Columns()))

	first := table.Records()[0]
	assert.Equal(t, Record{
		Analyte:         "Potassium",
		LaboratoryError: "Hemolysis",
		EffectOnResults: "Falsely elevated",
		Reference:       "Smith 2001",
	}, first)
}

func TestLoad_XLSXNamedSheet(t *testing.T) {
	path := writeTestXLSX(t, "errors.xlsx", "Errors", catalogHeader, catalogRows[:2])

	table, err := Load(path, LoadOptions{Sheet: "Errors"})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = Load(path, LoadOptions{Sheet: "Missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)

	// The first sheet is the empty default Sheet1.
	_, err = Load(path, LoadOptions{})
	assert.ErrorIs(t, err, ErrInvalidSpreadsheet)
}

func TestLoad_CSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(testCSV)...)
	path := writeFile(t, "errors.csv", data)

	table, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.True(t, table.HasColumn(ColumnAnalyte), "BOM must not corrupt the first header")
	assert.Equal(t, "Lee 2015", table.Records()[1].Reference2)
}

func TestLoad_TSV(t *testing.T) {
	tsv := strings.ReplaceAll(testCSV, ",", "\t")
	path := writeFile(t, "errors.tsv", []byte(tsv))

	table, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_Compressed(t *testing.T) {
	xlsx := buildXLSX(t, "Sheet1", catalogHeader, catalogRows)

	tests := []struct {
		name     string
		file     string
		raw      []byte
		compress func(t *testing.T, data []byte) []byte
	}{
		{name: "gzip csv", file: "errors.csv.gz", raw: []byte(testCSV), compress: gzipBytes},
		{name: "zstd csv", file: "errors.csv.zst", raw: []byte(testCSV), compress: zstdBytes},
		{name: "xz csv", file: "errors.csv.xz", raw: []byte(testCSV), compress: xzBytes},
		{name: "gzip xlsx", file: "errors.xlsx.gz", raw: xlsx, compress: gzipBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.compress(t, tt.raw))

			table, err := Load(path, LoadOptions{})
			require.NoError(t, err)
			assert.Greater(t, table.Len(), 1)
			values := AvailableValues(table, ColumnAnalyte)
			assert.Contains(t, values, "Potassium")
			assert.Contains(t, values, "Sodium")
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		sentinel error
	}{
		{
			name:     "missing file",
			path:     filepath.Join(dir, "nope.xlsx"),
			sentinel: ErrFileNotFound,
		},
		{
			name:     "unsupported extension",
			path:     writeFile(t, "errors.ods", []byte("x")),
			sentinel: ErrUnsupportedFormat,
		},
		{
			name:     "corrupt xlsx",
			path:     writeFile(t, "errors.xlsx", []byte("this is not a zip archive")),
			sentinel: ErrInvalidSpreadsheet,
		},
		{
			name:     "empty csv",
			path:     writeFile(t, "errors.csv", nil),
			sentinel: ErrInvalidSpreadsheet,
		},
		{
			name:     "corrupt gzip",
			path:     writeFile(t, "errors.csv.gz", []byte("not gzip")),
			sentinel: ErrInvalidSpreadsheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(tt.path, LoadOptions{})
			assert.Nil(t, table)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.path, loadErr.Path)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		path      string
		wantType  CompressionType
		wantInner string
	}{
		{"data/a.xlsx", CompressionNone, "data/a.xlsx"},
		{"data/a.xlsx.gz", CompressionGZ, "data/a.xlsx"},
		{"data/a.csv.ZST", CompressionZSTD, "data/a.csv"},
		{"data/a.csv.xz", CompressionXZ, "data/a.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ct, inner := detectCompression(tt.path)
			assert.Equal(t, tt.wantType, ct)
			assert.Equal(t, tt.wantInner, inner)
		})
	}
}

func columnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
