// Package regions loads the county / UAT reference table that maps
// administrative names to the numeric ids used in INSPIRE identifiers.
package regions

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Expected header names in the reference workbook. The sheet ships with
// Romanian headers (Judet = county, Comuna = UAT).
const (
	colCounty   = "Judet"
	colCountyID = "Judet_ID"
	colUAT      = "Comuna"
	colUATID    = "Comuna_ID"
)

// Entry is one county / UAT pair with its numeric ids.
type Entry struct {
	County   string `json:"county"`
	CountyID int    `json:"county_id"`
	UAT      string `json:"uat"`
	UATID    int    `json:"uat_id"`
}

// LoadXLSX reads the reference workbook's first sheet and builds a
// Registry. Columns are located by header name, so column order in the
// workbook does not matter. Rows with blank names or unparseable ids
// are skipped with a warning.
func LoadXLSX(path string) (*Registry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "regions: open reference file %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("regions: reference file %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("regions: reference file %s has no data rows", path)
	}

	cols, err := headerIndex(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i, row := range sheet.Rows[1:] {
		entry, err := parseRow(row, cols)
		if err != nil {
			zap.L().Warn("regions: skipping reference row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, eris.Errorf("regions: reference file %s yielded no usable entries", path)
	}

	return NewRegistry(entries), nil
}

// headerIndex maps the four required headers to column positions.
func headerIndex(header *xlsx.Row) (map[string]int, error) {
	cols := make(map[string]int, 4)
	for i, cell := range header.Cells {
		name := strings.TrimSpace(cell.String())
		switch foldKey(name) {
		case foldKey(colCounty):
			cols[colCounty] = i
		case foldKey(colCountyID):
			cols[colCountyID] = i
		case foldKey(colUAT):
			cols[colUAT] = i
		case foldKey(colUATID):
			cols[colUATID] = i
		}
	}
	for _, required := range []string{colCounty, colCountyID, colUAT, colUATID} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("regions: reference header missing column %q", required)
		}
	}
	return cols, nil
}

func parseRow(row *xlsx.Row, cols map[string]int) (Entry, error) {
	county := cellString(row, cols[colCounty])
	uat := cellString(row, cols[colUAT])
	if county == "" || uat == "" {
		return Entry{}, eris.New("blank county or UAT name")
	}

	countyID, err := cellInt(row, cols[colCountyID])
	if err != nil {
		return Entry{}, eris.Wrap(err, "county id")
	}
	uatID, err := cellInt(row, cols[colUATID])
	if err != nil {
		return Entry{}, eris.Wrap(err, "uat id")
	}

	return Entry{County: county, CountyID: countyID, UAT: uat, UATID: uatID}, nil
}

func cellString(row *xlsx.Row, idx int) string {
	if idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx].String())
}

// cellInt parses an id cell. Spreadsheet numerics sometimes render with
// a decimal part, so parse as float and truncate.
func cellInt(row *xlsx.Row, idx int) (int, error) {
	s := cellString(row, idx)
	if s == "" {
		return 0, eris.New("blank id cell")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %q", s)
	}
	return int(f), nil
}
