package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn rejects a sheet when a required canonical field has no
// resolvable column.
var ErrMissingColumn = errors.New("missing required column")

// ColumnMap resolves canonical field names to column indices. Optional
// fields that were not found are absent from the map.
type ColumnMap map[string]int

// Col returns the column index for a field, or -1 when unresolved.
func (m ColumnMap) Col(field string) int {
	if idx, ok := m[field]; ok {
		return idx
	}
	return -1
}

// Cell reads the mapped cell from a row, empty when the field is unresolved
// or the row is short.
func (m ColumnMap) Cell(row []string, field string) string {
	idx := m.Col(field)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// MapColumns resolves each profile field against a header row. Exact
// case-insensitive synonym matches win; substring containment is the
// fallback. A required field with no match fails the whole sheet.
func MapColumns(headerRow []string, fields []Field) (ColumnMap, error) {
	normalized := make([]string, len(headerRow))
	for i, cell := range headerRow {
		normalized[i] = strings.ToUpper(strings.TrimSpace(cell))
	}

	mapping := make(ColumnMap, len(fields))
	for _, field := range fields {
		idx := resolveField(normalized, field.Synonyms)
		if idx < 0 {
			if field.Required {
				return nil, fmt.Errorf("%w: %s (accepted: %s)",
					ErrMissingColumn, field.Name, strings.Join(field.Synonyms, ", "))
			}
			continue
		}
		mapping[field.Name] = idx
	}
	return mapping, nil
}

func resolveField(header []string, synonyms []string) int {
	for _, syn := range synonyms {
		want := strings.ToUpper(syn)
		for i, cell := range header {
			if cell == want {
				return i
			}
		}
	}
	for _, syn := range synonyms {
		want := strings.ToUpper(syn)
		for i, cell := range header {
			if cell != "" && strings.Contains(cell, want) {
				return i
			}
		}
	}
	return -1
}
