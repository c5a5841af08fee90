package domain

// Table is a raw tabular dataset as exported by a spreadsheet.
// Cells are strings; rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table carries no header and no rows.
func (t *Table) Empty() bool {
	return t == nil || (len(t.Header) == 0 && len(t.Rows) == 0)
}

// SheetFormat is the export format requested from the spreadsheet service.
type SheetFormat string

const (
	FormatCSV  SheetFormat = "csv"
	FormatXLSX SheetFormat = "xlsx"
)

// SheetRef identifies one worksheet of a remote spreadsheet.
type SheetRef struct {
	SheetID string      `json:"sheet_id"`
	GID     string      `json:"gid"`
	Format  SheetFormat `json:"format,omitempty"`
}

func (r SheetRef) IsZero() bool { return r.SheetID == "" }
