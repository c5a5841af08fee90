package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"transport-report-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Decode parses an export body into a table. The first record is the header.
// An empty body decodes to an empty table.
func Decode(format domain.SheetFormat, body []byte) (*domain.Table, error) {
	var (
		records [][]string
		err     error
	)

	switch format {
	case domain.FormatXLSX:
		records, err = decodeXLSX(body)
	case domain.FormatCSV, "":
		records, err = decodeCSV(body)
	default:
		return nil, fmt.Errorf("decode sheet: unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &domain.Table{}, nil
	}

	return &domain.Table{Header: records[0], Rows: records[1:]}, nil
}

func decodeCSV(body []byte) ([][]string, error) {
	// Exports may start with a UTF-8 byte order mark.
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeXLSX(body []byte) ([][]string, error) {
	if len(body) == 0 {
		return nil, nil
	}

	file, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("decode xlsx: no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("decode xlsx: read rows of %q: %w", sheetName, err)
	}
	return rows, nil
}
