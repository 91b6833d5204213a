package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// WriteCSV writes the same table as WriteXLSX in CSV form, one header
// row plus one row per vertex.
func WriteCSV(path string, rows []model.VertexRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(model.OutputColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, r := range rows {
		record := []string{
			r.County,
			r.UAT,
			strconv.FormatInt(r.CadastralNumber, 10),
			formatCoord(r.Lat),
			formatCoord(r.Lon),
			formatCoord(r.CentralLat),
			formatCoord(r.CentralLon),
			r.VertexLink,
			r.CentralLink,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return f.Close()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
