package export

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// WriteShapefile writes one polygon per record with data, built from
// the record's kept vertex sequence in WGS84. Records without data are
// skipped. The ring is closed by repeating the first vertex.
//
// Dedupe may have removed vertices shared with earlier records, so a
// shape here is the record's contribution to the table, not necessarily
// the full legal boundary.
func WriteShapefile(path string, results []model.ParcelResult) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close() //nolint:errcheck

	w.SetFields([]shp.Field{
		shp.StringField("COUNTY", 60),
		shp.StringField("UAT", 60),
		shp.NumberField("CAD_NO", 16),
		shp.FloatField("CENT_LAT", 16, 8),
		shp.FloatField("CENT_LON", 16, 8),
	})

	n := 0
	for _, res := range results {
		if !res.HasData() {
			continue
		}
		if len(res.Vertices) < 3 {
			zap.L().Warn("export: skipping degenerate parcel shape",
				zap.Int64("cadastral_number", res.Request.CadastralNumber),
				zap.Int("vertices", len(res.Vertices)),
			)
			continue
		}

		w.Write(polygonShape(res.Vertices))
		if err := writeAttributes(w, n, res); err != nil {
			return eris.Wrapf(err, "export: shapefile attributes for %d", res.Request.CadastralNumber)
		}
		n++
	}

	return nil
}

func writeAttributes(w *shp.Writer, row int, res model.ParcelResult) error {
	attrs := []any{
		res.Request.County,
		res.Request.UAT,
		int(res.Request.CadastralNumber),
		res.Central.Lat,
		res.Central.Lon,
	}
	for field, value := range attrs {
		if err := w.WriteAttribute(row, field, value); err != nil {
			return err
		}
	}
	return nil
}

// polygonShape builds a closed single-ring polygon. Shapefile points
// are (X longitude, Y latitude).
func polygonShape(vertices []model.Vertex) *shp.Polygon {
	points := make([]shp.Point, 0, len(vertices)+1)
	for _, v := range vertices {
		points = append(points, shp.Point{X: v.Lon, Y: v.Lat})
	}
	if points[0] != points[len(points)-1] {
		points = append(points, points[0])
	}
	return (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{points}))
}
