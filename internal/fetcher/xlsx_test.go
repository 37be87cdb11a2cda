package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().Value = cell
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestReadXLSXRows(t *testing.T) {
	data := writeTestXLSX(t, [][]string{
		{"name", "contact"},
		{"Alice", "alice@example.com"},
	})

	rows, err := ReadXLSXRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "contact"}, rows[0])
	assert.Equal(t, []string{"Alice", "alice@example.com"}, rows[1])
}

func TestFlattenXLSX(t *testing.T) {
	data := writeTestXLSX(t, [][]string{
		{"a", "b"},
		{"c", "d"},
	})

	out, err := FlattenXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, "a b\nc d", out)
}

func TestFlattenXLSX_Garbage(t *testing.T) {
	_, err := FlattenXLSX([]byte("not an xlsx"))
	assert.Error(t, err)
}
