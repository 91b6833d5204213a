package pipeline

import (
	"fmt"
	"strconv"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

const mapsLinkBase = "https://maps.google.com/?q="

// MapsLink builds a Google Maps link for one WGS84 point.
func MapsLink(lat, lon float64) string {
	return mapsLinkBase +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// Flatten expands one-row-per-record results into one row per kept
// vertex, repeating the record's scalar fields and centroid on every
// row and attaching the derived map links.
//
// Records without data contribute zero rows and never error, so a
// failed lookup cannot block projection of the rest of the batch.
func Flatten(results []model.ParcelResult) []model.VertexRow {
	var rows []model.VertexRow
	for _, res := range results {
		if !res.HasData() {
			continue
		}

		centralLink := MapsLink(res.Central.Lat, res.Central.Lon)
		for _, v := range res.Vertices {
			rows = append(rows, model.VertexRow{
				County:          res.Request.County,
				UAT:             res.Request.UAT,
				CadastralNumber: res.Request.CadastralNumber,
				Lat:             v.Lat,
				Lon:             v.Lon,
				CentralLat:      res.Central.Lat,
				CentralLon:      res.Central.Lon,
				VertexLink:      MapsLink(v.Lat, v.Lon),
				CentralLink:     centralLink,
			})
		}
	}
	return rows
}

// Summary returns a short per-record status line for CLI output.
func Summary(res model.ParcelResult) string {
	ref := fmt.Sprintf("%s / %s / %d", res.Request.County, res.Request.UAT, res.Request.CadastralNumber)
	if res.Err != "" {
		return fmt.Sprintf("%s: no data (%s)", ref, res.Err)
	}
	return fmt.Sprintf("%s: %d vertices", ref, len(res.Vertices))
}
