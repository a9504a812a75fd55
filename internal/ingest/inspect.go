package ingest

import (
	"context"

	"github.com/danuarta/opex-ingest/internal/emit"
	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/record"
	"github.com/danuarta/opex-ingest/internal/workbook"
)

// Inspection reports how a workbook would be read, without touching storage.
type Inspection struct {
	Layout layout.Layout
	Sheets []SheetInspection
}

// SheetInspection locates the header and resolved columns of one sheet.
// Problem notes why a sheet would be skipped.
type SheetInspection struct {
	Name      string
	HeaderRow int // 1-based
	Columns   map[string]int
	Problem   string
}

// Inspect classifies a workbook and resolves its columns for review before a
// real run.
func (s *Service) Inspect(_ context.Context, domain record.Domain, path string) (*Inspection, error) {
	profile, err := s.profiles.Get(domain)
	if err != nil {
		return nil, err
	}

	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	lay, err := layout.Detect(wb, profile, emit.Header(domain))
	if err != nil {
		return nil, err
	}

	insp := &Inspection{Layout: lay}
	for _, name := range wb.SheetNames() {
		si := SheetInspection{Name: name}
		rows, err := wb.Rows(name)
		if err != nil {
			si.Problem = err.Error()
			insp.Sheets = append(insp.Sheets, si)
			continue
		}

		if lay == layout.LayoutPreprocessed {
			si.HeaderRow = 1
			si.Columns = make(map[string]int)
			for i, col := range emit.Header(domain) {
				si.Columns[col] = i
			}
			insp.Sheets = append(insp.Sheets, si)
			continue
		}

		headerIdx, err := layout.FindHeaderRow(rows, profile.HeaderAnchor)
		if err != nil {
			si.Problem = err.Error()
			insp.Sheets = append(insp.Sheets, si)
			continue
		}
		si.HeaderRow = headerIdx + 1

		cols, err := layout.MapColumns(rows[headerIdx], profile.Fields)
		if err != nil {
			si.Problem = err.Error()
			insp.Sheets = append(insp.Sheets, si)
			continue
		}
		si.Columns = cols
		insp.Sheets = append(insp.Sheets, si)
	}
	return insp, nil
}
