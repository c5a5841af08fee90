package tables

import (
	"strings"
	"transport-report-service/internal/domain"
)

// PersonnelRows converts a site's master roster table into typed rows.
// A table without header is treated as empty.
func PersonnelRows(tableName string, t *domain.Table) ([]domain.PersonnelRow, error) {
	if t == nil || len(t.Header) == 0 {
		return []domain.PersonnelRow{}, nil
	}

	idx, err := indexColumns(tableName, t.Header, ColPersonName, ColVehicleID, ColDriver, ColShift)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PersonnelRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if blank(r) {
			continue
		}
		out = append(out, domain.PersonnelRow{
			PersonName: idx.cell(r, ColPersonName),
			VehicleID:  idx.cell(r, ColVehicleID),
			DriverName: idx.cell(r, ColDriver),
			ShiftLabel: idx.cell(r, ColShift),
		})
	}

	return out, nil
}

// ShiftRosterRows converts a per-shift route table into typed rows.
// Distance and duration text are kept as exported.
func ShiftRosterRows(tableName string, t *domain.Table) ([]domain.ShiftRosterRow, error) {
	if t == nil || len(t.Header) == 0 {
		return []domain.ShiftRosterRow{}, nil
	}

	idx, err := indexColumns(tableName, t.Header, ColDriver, ColShift, ColDistance, ColDuration)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ShiftRosterRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if blank(r) {
			continue
		}
		out = append(out, domain.ShiftRosterRow{
			DriverName:   idx.cell(r, ColDriver),
			ShiftLabel:   idx.cell(r, ColShift),
			Distance:     idx.raw(r, ColDistance),
			DurationText: idx.raw(r, ColDuration),
		})
	}

	return out, nil
}

// Spreadsheet exports pad trailing rows with empty cells.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
