package regions

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeReferenceFile builds a small localitati workbook in the layout
// the tool expects.
func writeReferenceFile(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	path := filepath.Join(t.TempDir(), "localitati.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func defaultReferenceFile(t *testing.T) string {
	t.Helper()
	return writeReferenceFile(t, [][]string{
		{"Judet", "Comuna", "Comuna_ID", "Judet_ID"},
		{"Argeș", "Ungheni", "19560", "36"},
		{"Argeș", "Pitești", "13169", "36"},
		{"Gorj", "Padeș", "81095", "181"},
	})
}

func TestLoadXLSX(t *testing.T) {
	reg, err := LoadXLSX(defaultReferenceFile(t))
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, []string{"Argeș", "Gorj"}, reg.Counties())
	assert.Len(t, reg.UATs("Argeș"), 2)
}

func TestLoadXLSX_SkipsBadRows(t *testing.T) {
	reg, err := LoadXLSX(writeReferenceFile(t, [][]string{
		{"Judet", "Comuna", "Comuna_ID", "Judet_ID"},
		{"Argeș", "Ungheni", "19560", "36"},
		{"", "Nameless", "1", "2"},
		{"Gorj", "Padeș", "not-a-number", "181"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestLoadXLSX_MissingColumn(t *testing.T) {
	_, err := LoadXLSX(writeReferenceFile(t, [][]string{
		{"Judet", "Comuna", "Comuna_ID"},
		{"Argeș", "Ungheni", "19560"},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Judet_ID")
}

func TestLoadXLSX_MissingFile(t *testing.T) {
	_, err := LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestResolve_DiacriticAndCaseInsensitive(t *testing.T) {
	reg, err := LoadXLSX(defaultReferenceFile(t))
	require.NoError(t, err)

	for _, in := range [][2]string{
		{"Argeș", "Ungheni"},
		{"arges", "ungheni"},
		{"ARGES", "UNGHENI"},
		{" Argeş ", "Ungheni"}, // cedilla variant in older sheets
	} {
		entry, err := reg.Resolve(in[0], in[1])
		require.NoError(t, err, "input %q/%q", in[0], in[1])
		assert.Equal(t, 36, entry.CountyID)
		assert.Equal(t, 19560, entry.UATID)
	}
}

func TestResolve_Unknown(t *testing.T) {
	reg, err := LoadXLSX(defaultReferenceFile(t))
	require.NoError(t, err)

	_, err = reg.Resolve("Cluj", "Ungheni")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown county")

	_, err = reg.Resolve("Gorj", "Ungheni")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown UAT")
}
