// Package workbook abstracts the uploaded file behind a uniform sheet/row
// view. XLSX workbooks are decoded with excelize; pre-formed canonical CSV
// files are decoded to UTF-8 and exposed as a single-sheet workbook. The
// handle owns the decoded buffer and must be closed on every exit path.
package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// Workbook is a read-only handle over an uploaded spreadsheet.
type Workbook struct {
	xlsx    *excelize.File
	csvName string
	csvRows [][]string
}

// Open opens a workbook from a file path, dispatching on extension.
func Open(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return OpenReader(f, filepath.Base(path))
}

// OpenReader opens a workbook from a stream. filename decides the decoder:
// .xlsx/.xlsm go through excelize, .csv through the UTF-8 decoding reader.
func OpenReader(r io.Reader, filename string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", filename, err)
		}
		return &Workbook{xlsx: f}, nil
	case ".csv":
		decoded, err := decodeToUTF8(r)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", filename, err)
		}
		reader := csv.NewReader(decoded)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", filename, err)
		}
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		return &Workbook{csvName: name, csvRows: rows}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}

// SheetNames returns the sheet names in workbook order. A CSV file presents
// itself as one sheet named after the file.
func (w *Workbook) SheetNames() []string {
	if w.xlsx != nil {
		return w.xlsx.GetSheetList()
	}
	return []string{w.csvName}
}

// Rows returns all rows of one sheet as strings.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	if w.xlsx != nil {
		rows, err := w.xlsx.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		return rows, nil
	}
	if sheet != w.csvName {
		return nil, fmt.Errorf("unknown sheet %s", sheet)
	}
	return w.csvRows, nil
}

// RowsWindow returns at most n leading rows of a sheet, the bounded view the
// format detector and header locator work on.
func (w *Workbook) RowsWindow(sheet string, n int) ([][]string, error) {
	rows, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// Close releases the decoded workbook buffer. Safe to call on CSV-backed
// handles and after a prior Close.
func (w *Workbook) Close() error {
	if w.xlsx == nil {
		return nil
	}
	f := w.xlsx
	w.xlsx = nil
	return f.Close()
}
