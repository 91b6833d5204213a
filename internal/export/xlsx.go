// Package export writes processing results to the tabular and GIS
// formats downstream consumers use.
package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// SheetName is part of the export contract, as are the column names in
// model.OutputColumns.
const SheetName = "Output_data"

// WriteXLSX writes one row per vertex to an XLSX workbook.
func WriteXLSX(path string, rows []model.VertexRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.OutputColumns {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.County)
		row.AddCell().SetString(r.UAT)
		row.AddCell().SetInt64(r.CadastralNumber)
		row.AddCell().SetFloat(r.Lat)
		row.AddCell().SetFloat(r.Lon)
		row.AddCell().SetFloat(r.CentralLat)
		row.AddCell().SetFloat(r.CentralLon)
		row.AddCell().SetString(r.VertexLink)
		row.AddCell().SetString(r.CentralLink)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// ReadXLSX loads a previously exported workbook back into rows. The
// map viewer uses this so it can serve whatever table the user last
// exported.
func ReadXLSX(path string) ([]model.VertexRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}

	sheet, ok := f.Sheet[SheetName]
	if !ok {
		return nil, eris.Errorf("export: %s has no %q sheet", path, SheetName)
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("export: %s is empty", path)
	}

	if err := checkHeader(sheet.Rows[0]); err != nil {
		return nil, err
	}

	var rows []model.VertexRow
	for i, row := range sheet.Rows[1:] {
		r, err := parseRow(row)
		if err != nil {
			return nil, eris.Wrapf(err, "export: row %d", i+2)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func checkHeader(header *xlsx.Row) error {
	for i, want := range model.OutputColumns {
		if i >= len(header.Cells) || strings.TrimSpace(header.Cells[i].String()) != want {
			return eris.Errorf("export: header column %d is not %q", i+1, want)
		}
	}
	return nil
}

func parseRow(row *xlsx.Row) (model.VertexRow, error) {
	if len(row.Cells) < len(model.OutputColumns) {
		return model.VertexRow{}, eris.Errorf("short row: %d cells", len(row.Cells))
	}

	get := func(i int) string { return strings.TrimSpace(row.Cells[i].String()) }

	num, err := strconv.ParseFloat(get(2), 64)
	if err != nil {
		return model.VertexRow{}, eris.Wrap(err, "cadastral number")
	}

	var coords [4]float64
	for i := 0; i < 4; i++ {
		coords[i], err = strconv.ParseFloat(get(3+i), 64)
		if err != nil {
			return model.VertexRow{}, eris.Wrapf(err, "column %q", model.OutputColumns[3+i])
		}
	}

	return model.VertexRow{
		County:          get(0),
		UAT:             get(1),
		CadastralNumber: int64(num),
		Lat:             coords[0],
		Lon:             coords[1],
		CentralLat:      coords[2],
		CentralLon:      coords[3],
		VertexLink:      get(7),
		CentralLink:     get(8),
	}, nil
}
