package core

// loader.go reads the catalog spreadsheet into a Table.
//
// Supported formats, chosen by extension:
//
//   - .xlsx / .xlsm: read with excelize, one sheet (named or first)
//   - .csv / .tsv:   read with encoding/csv, UTF-8 BOM stripped
//
// Any of these may be wrapped in .gz, .zst or .xz compression.
// The source file is never written.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// utf8BOM is the byte order mark written by some Windows spreadsheet exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadOptions controls how the catalog file is parsed.
type LoadOptions struct {
	// Sheet is the worksheet to read from XLSX files. Empty means the first sheet.
	Sheet string
}

// Load reads the spreadsheet at path into a Table.
// Any failure is returned as a *LoadError.
func Load(path string, opts LoadOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, ErrFileNotFound, nil)
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	ct, inner := detectCompression(path)
	data, err = decompress(ct, data)
	if err != nil {
		return nil, newLoadError(path, ErrInvalidSpreadsheet, err)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(inner)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data, opts.Sheet)
	case ".csv":
		rows, err = readDelimited(data, ',')
	case ".tsv":
		rows, err = readDelimited(data, '\t')
	default:
		return nil, newLoadError(path, ErrUnsupportedFormat, fmt.Errorf("extension %q", ext))
	}
	if err != nil {
		return nil, newLoadError(path, ErrInvalidSpreadsheet, err)
	}

	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, newLoadError(path, ErrInvalidSpreadsheet, errors.New("missing header row"))
	}

	return NewTable(rows[0], rows[1:]), nil
}

// readXLSX returns the rows of the requested sheet.
func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close() // Ignore close error
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found")
	}

	name := sheets[0]
	if sheet != "" {
		name = ""
		for _, s := range sheets {
			if s == sheet {
				name = s
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return rows, nil
}

// readDelimited parses CSV/TSV data. Rows may have varying field counts.
func readDelimited(data []byte, comma rune) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := strings.ToValidUTF8(string(data), "�")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return rows, nil
}
