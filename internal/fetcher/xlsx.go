package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXRows parses XLSX content and returns the rows of the first sheet
// as string slices.
func ReadXLSXRows(content []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

// FlattenXLSX parses XLSX content into one text blob, rows separated by
// newlines and cells by single spaces.
func FlattenXLSX(content []byte) (string, error) {
	rows, err := ReadXLSXRows(content)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
