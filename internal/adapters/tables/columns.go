package tables

import (
	"strings"
	"transport-report-service/internal/domain"
)

// Column names as they appear in the roster spreadsheets, lowercased.
const (
	ColPersonName = "nom&prenom"
	ColVehicleID  = "matricule"
	ColDriver     = "chauffeur"
	ColShift      = "shift"
	ColDistance   = "distance"
	ColDuration   = "durée"
)

var aliases = map[string][]string{
	ColDuration: {"duree", "duration"},
}

// NormalizeHeader trims and lowercases a column name.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// columnIndex resolves required columns against a table header.
type columnIndex map[string]int

func indexColumns(tableName string, header []string, required ...string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	idx := make(columnIndex, len(required))
	for _, col := range required {
		i, ok := pos[col]
		if !ok {
			for _, alt := range aliases[col] {
				if i, ok = pos[alt]; ok {
					break
				}
			}
		}
		if !ok {
			return nil, &domain.MissingFieldError{Table: tableName, Field: col}
		}
		idx[col] = i
	}

	return idx, nil
}

// cell returns the trimmed value of col. Identifier columns go through here.
func (c columnIndex) cell(row []string, col string) string {
	return strings.TrimSpace(c.raw(row, col))
}

// raw returns the value of col exactly as exported.
func (c columnIndex) raw(row []string, col string) string {
	i := c[col]
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
